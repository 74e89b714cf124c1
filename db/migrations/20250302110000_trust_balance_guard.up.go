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
			-- make sure the denormalized trust balance always matches the
			-- sum of the account's trust transactions
				CREATE OR REPLACE FUNCTION check_trust_balance()
					RETURNS TRIGGER AS $$
				DECLARE
					account_id BIGINT;
					cached NUMERIC;
					summed NUMERIC;
				BEGIN
					IF TG_OP = 'DELETE' THEN
						account_id := OLD.trust_account_id;
					ELSE
						account_id := NEW.trust_account_id;
					END IF;

					-- LOCK the trust account row.
					-- IMPORTANT: lock but do not wait for another lock to be released.
					--   Waiting would result in a deadlock because two parallel transactions
					--   could try to lock the same rows. NOWAIT reports an error instead,
					--   which rolls the losing transaction back.
					SELECT INTO cached balance
					FROM trust_accounts
					WHERE id = account_id
					FOR UPDATE NOWAIT;

					SELECT INTO summed COALESCE(SUM(CASE WHEN type = 'DEBIT' THEN -amount ELSE amount END), 0)
					FROM trust_transactions
					WHERE trust_account_id = account_id;

					IF cached IS DISTINCT FROM summed
					THEN
						RAISE EXCEPTION 'trust balance drift [trust_account_id:%] cached [%] summed [%]',
						account_id,
						cached,
						summed;
					END IF;

					IF TG_OP = 'DELETE' THEN
						RETURN OLD;
					END IF;
					RETURN NEW;
				END;
				$$ LANGUAGE plpgsql;

				DROP TRIGGER IF EXISTS check_trust_balance ON trust_transactions;

				-- deferred to the end of the enclosing transaction so the balance
				-- update and the trust transaction insert are checked together
				CREATE CONSTRAINT TRIGGER check_trust_balance
				AFTER INSERT OR UPDATE OR DELETE ON trust_transactions
				DEFERRABLE INITIALLY DEFERRED
				FOR EACH ROW EXECUTE PROCEDURE check_trust_balance();
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
