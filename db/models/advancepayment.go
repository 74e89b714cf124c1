package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdvancePayment : a client prepayment. AccountType TRUST routes the funds
// into a trust account, EXPENSE books them straight as income; both credit
// the receiving bank account.
type AdvancePayment struct {
	ID            int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID     int64           `json:"company_id" bun:",notnull"`
	ClientID      int64           `json:"client_id" bun:",notnull"`
	Client        *Client         `json:"-" bun:"rel:belongs-to,join:client_id=id"`
	ProjectID     int64           `json:"project_id,omitempty" bun:",nullzero"`
	Project       *Project        `json:"-" bun:"rel:belongs-to,join:project_id=id"`
	BankAccountID int64           `json:"bank_account_id,omitempty" bun:",nullzero"`
	BankAccount   *BankAccount    `json:"-" bun:"rel:belongs-to,join:bank_account_id=id"`
	AccountType   string          `json:"account_type" bun:",notnull"`
	Amount        decimal.Decimal `json:"amount" bun:"type:numeric(18,2),notnull"`
	Currency      string          `json:"currency" bun:",notnull"`
	Memo          string          `json:"memo,omitempty" bun:",nullzero"`
	CreatedAt     time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
