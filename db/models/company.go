package models

import (
	"time"
)

// Company : tenant model, every other row is scoped by CompanyID
type Company struct {
	ID              int64     `json:"id" bun:",pk,autoincrement"`
	Name            string    `json:"name" validate:"required" bun:",notnull"`
	Currency        string    `json:"currency" bun:",notnull,default:'USD'"`
	InvoiceSequence int64     `json:"-" bun:",notnull,default:0"`
	CreatedAt       time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
