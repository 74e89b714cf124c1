package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// User : User Model
type User struct {
	ID          int64        `json:"id" bun:",pk,autoincrement"`
	CompanyID   int64        `json:"company_id" bun:",notnull"`
	Company     *Company     `json:"-" bun:"rel:belongs-to,join:company_id=id"`
	Login       string       `json:"login" bun:",unique,notnull"`
	Password    string       `json:"-" bun:",notnull"`
	Role        string       `json:"role" bun:",notnull,default:'member'"`
	Deactivated bool         `json:"-" bun:",nullzero"`
	CreatedAt   time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		u.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
