package models

import (
	"time"
)

// Client : a client of the firm, owner of projects and trust funds
type Client struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	CompanyID int64     `json:"company_id" bun:",notnull"`
	Company   *Company  `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	Name      string    `json:"name" validate:"required" bun:",notnull"`
	Email     string    `json:"email,omitempty" bun:",nullzero"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// Project : a matter/engagement for a client
type Project struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	CompanyID int64     `json:"company_id" bun:",notnull"`
	ClientID  int64     `json:"client_id" bun:",notnull"`
	Client    *Client   `json:"-" bun:"rel:belongs-to,join:client_id=id"`
	Name      string    `json:"name" validate:"required" bun:",notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
