package models

import (
	"time"
)

// Account : chart-of-accounts node. Code is unique within a company,
// Type is immutable once transaction lines reference the account.
type Account struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	CompanyID int64     `json:"company_id" bun:",notnull,unique:accounts_company_code"`
	Company   *Company  `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	Code      string    `json:"code" validate:"required" bun:",notnull,unique:accounts_company_code"`
	Name      string    `json:"name" validate:"required" bun:",notnull"`
	Type      string    `json:"type" validate:"required" bun:",notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
