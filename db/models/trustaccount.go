package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrustAccount : a per-(client, project, currency) bucket of client funds
// held in trust, segregated from firm operating cash. Balance is a
// denormalized running total kept equal to the sum of its transactions.
type TrustAccount struct {
	ID        int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID int64           `json:"company_id" bun:",notnull"`
	Company   *Company        `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	ClientID  int64           `json:"client_id" bun:",notnull"`
	Client    *Client         `json:"-" bun:"rel:belongs-to,join:client_id=id"`
	ProjectID int64           `json:"project_id,omitempty" bun:",nullzero"`
	Project   *Project        `json:"-" bun:"rel:belongs-to,join:project_id=id"`
	Currency  string          `json:"currency" bun:",notnull"`
	Balance   decimal.Decimal `json:"balance" bun:"type:numeric(18,2),notnull,default:0"`
	CreatedAt time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// TrustTransaction : a CREDIT (deposit) or DEBIT (consumption/refund)
// against one trust account. Deletion reverses the account balance; there
// is no update-in-place.
type TrustTransaction struct {
	ID             int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID      int64           `json:"company_id" bun:",notnull"`
	TrustAccountID int64           `json:"trust_account_id" bun:",notnull"`
	TrustAccount   *TrustAccount   `json:"-" bun:"rel:belongs-to,join:trust_account_id=id"`
	InvoiceID      int64           `json:"invoice_id,omitempty" bun:",nullzero"`
	Invoice        *Invoice        `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	Type           string          `json:"type" bun:",notnull"`
	Amount         decimal.Decimal `json:"amount" bun:"type:numeric(18,2),notnull"`
	Description    string          `json:"description,omitempty" bun:",nullzero"`
	CreatedAt      time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// Signed returns the amount with the sign the transaction applies to the
// owning account's balance.
func (t *TrustTransaction) Signed() decimal.Decimal {
	if t.Type == "DEBIT" {
		return t.Amount.Neg()
	}
	return t.Amount
}
