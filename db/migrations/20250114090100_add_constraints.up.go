package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- each transaction line carries exactly one non-zero side
			ALTER TABLE transaction_lines
				ADD CONSTRAINT transaction_lines_amounts_check
				CHECK (debit >= 0 AND credit >= 0 AND (debit = 0) <> (credit = 0));

			-- monetary amounts on sub-ledgers are strictly positive,
			-- direction is carried by the type column
			ALTER TABLE trust_transactions
				ADD CONSTRAINT trust_transactions_amount_check CHECK (amount > 0);
			ALTER TABLE bank_transactions
				ADD CONSTRAINT bank_transactions_amount_check CHECK (amount > 0);

			-- client funds held in trust can never be overdrawn
			ALTER TABLE trust_accounts
				ADD CONSTRAINT trust_accounts_balance_check CHECK (balance >= 0);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
