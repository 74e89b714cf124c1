package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction : an immutable posting event owning a balanced set of lines.
// Corrections are new offsetting transactions or whole-transaction deletion.
type Transaction struct {
	ID          int64              `json:"id" bun:",pk,autoincrement"`
	CompanyID   int64              `json:"company_id" bun:",notnull"`
	Company     *Company           `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	Date        time.Time          `json:"date" bun:",notnull"`
	Memo        string             `json:"memo,omitempty" bun:",nullzero"`
	CreatedByID int64              `json:"created_by_id,omitempty" bun:",nullzero"`
	CreatedBy   *User              `json:"-" bun:"rel:belongs-to,join:created_by_id=id"`
	Lines       []*TransactionLine `json:"lines" bun:"rel:has-many,join:id=transaction_id"`
	CreatedAt   time.Time          `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// TransactionLine : one leg of a transaction, created atomically with its
// parent and never updated independently.
type TransactionLine struct {
	ID            int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID     int64           `json:"company_id" bun:",notnull"`
	TransactionID int64           `json:"transaction_id" bun:",notnull"`
	Transaction   *Transaction    `json:"-" bun:"rel:belongs-to,join:transaction_id=id"`
	AccountID     int64           `json:"account_id" bun:",notnull"`
	Account       *Account        `json:"-" bun:"rel:belongs-to,join:account_id=id"`
	Debit         decimal.Decimal `json:"debit" bun:"type:numeric(18,2),notnull,default:0"`
	Credit        decimal.Decimal `json:"credit" bun:"type:numeric(18,2),notnull,default:0"`
	Currency      string          `json:"currency" bun:",notnull"`
	CreatedAt     time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
