package migrations

import (
	"context"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on a fresh db
make sure that when you add/remove columns in subsequent migrations
IfNotExists/IfExists is used, otherwise it's going to result in errors. */
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range []interface{}{
			(*models.Company)(nil),
			(*models.User)(nil),
			(*models.Client)(nil),
			(*models.Project)(nil),
			(*models.Account)(nil),
			(*models.Transaction)(nil),
			(*models.TransactionLine)(nil),
			(*models.TrustAccount)(nil),
			(*models.TrustTransaction)(nil),
			(*models.BankAccount)(nil),
			(*models.BankTransaction)(nil),
			(*models.Invoice)(nil),
			(*models.InvoiceItem)(nil),
			(*models.Payment)(nil),
			(*models.AdvancePayment)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).WithForeignKeys().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}
