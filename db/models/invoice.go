package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Invoice : billing document. Status transitions DRAFT -> SENT/APPROVED -> PAID.
type Invoice struct {
	ID            int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID     int64           `json:"company_id" bun:",notnull"`
	Company       *Company        `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	ClientID      int64           `json:"client_id" bun:",notnull"`
	Client        *Client         `json:"-" bun:"rel:belongs-to,join:client_id=id"`
	ProjectID     int64           `json:"project_id,omitempty" bun:",nullzero"`
	Project       *Project        `json:"-" bun:"rel:belongs-to,join:project_id=id"`
	Number        string          `json:"number,omitempty" bun:",nullzero"`
	Currency      string          `json:"currency" bun:",notnull"`
	Subtotal      decimal.Decimal `json:"subtotal" bun:"type:numeric(18,2),notnull,default:0"`
	Discount      decimal.Decimal `json:"discount" bun:"type:numeric(18,2),notnull,default:0"`
	Tax           decimal.Decimal `json:"tax" bun:"type:numeric(18,2),notnull,default:0"`
	TrustDeducted decimal.Decimal `json:"trust_deducted" bun:"type:numeric(18,2),notnull,default:0"`
	Total         decimal.Decimal `json:"total" bun:"type:numeric(18,2),notnull,default:0"`
	Status        string          `json:"status" bun:",notnull,default:'DRAFT'"`
	Items         []*InvoiceItem  `json:"items" bun:"rel:has-many,join:id=invoice_id"`
	IssuedAt      bun.NullTime    `json:"issued_at"`
	PaidAt        bun.NullTime    `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     bun.NullTime    `json:"updated_at"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)

// InvoiceItem : one billed line on an invoice.
type InvoiceItem struct {
	ID          int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID   int64           `json:"company_id" bun:",notnull"`
	InvoiceID   int64           `json:"invoice_id" bun:",notnull"`
	Invoice     *Invoice        `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	Description string          `json:"description" bun:",notnull"`
	Quantity    decimal.Decimal `json:"quantity" bun:"type:numeric(12,2),notnull,default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" bun:"type:numeric(18,2),notnull"`
	Amount      decimal.Decimal `json:"amount" bun:"type:numeric(18,2),notnull"`
}

// Payment : a settlement of an invoice via trust funds or a bank account.
type Payment struct {
	ID        int64           `json:"id" bun:",pk,autoincrement"`
	CompanyID int64           `json:"company_id" bun:",notnull"`
	InvoiceID int64           `json:"invoice_id" bun:",notnull"`
	Invoice   *Invoice        `json:"-" bun:"rel:belongs-to,join:invoice_id=id"`
	Gateway   string          `json:"gateway" bun:",notnull"`
	Amount    decimal.Decimal `json:"amount" bun:"type:numeric(18,2),notnull"`
	Currency  string          `json:"currency" bun:",notnull"`
	Reference string          `json:"reference" bun:",notnull"`
	CreatedAt time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
