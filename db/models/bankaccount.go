package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount : firm-owned cash account with a denormalized balance fed by
// bank transactions and advance payments.
type BankAccount struct {
	ID        int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID int64           `json:"company_id" bun:",notnull"`
	Company   *Company        `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	Name      string          `json:"name" validate:"required" bun:",notnull"`
	Currency  string          `json:"currency" bun:",notnull"`
	Balance   decimal.Decimal `json:"balance" bun:"type:numeric(18,2),notnull,default:0"`
	CreatedAt time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// BankTransaction : one cash movement on a bank account.
type BankTransaction struct {
	ID            int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID     int64           `json:"company_id" bun:",notnull"`
	BankAccountID int64           `json:"bank_account_id" bun:",notnull"`
	BankAccount   *BankAccount    `json:"-" bun:"rel:belongs-to,join:bank_account_id=id"`
	InvoiceID     int64           `json:"invoice_id,omitempty" bun:",nullzero"`
	Type          string          `json:"type" bun:",notnull"`
	Amount        decimal.Decimal `json:"amount" bun:"type:numeric(18,2),notnull"`
	Description   string          `json:"description,omitempty" bun:",nullzero"`
	CreatedAt     time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
