package service

import (
	"context"
	"database/sql"

	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// CreditTrust deposits client funds into a trust account. The trust
// transaction row and the balance increment commit together or not at all.
func (svc *LedgerService) CreditTrust(ctx context.Context, companyID, trustAccountID int64, amount decimal.Decimal, description string, invoiceID int64) (*models.TrustTransaction, error) {
	if !amount.IsPositive() || !twoDecimalPlaces(amount) {
		return nil, ErrInvalidLine
	}
	if _, err := svc.FindTrustAccount(ctx, companyID, trustAccountID); err != nil {
		return nil, err
	}
	trustTx := &models.TrustTransaction{
		CompanyID:      companyID,
		TrustAccountID: trustAccountID,
		InvoiceID:      invoiceID,
		Type:           common.TrustTransactionTypeCredit,
		Amount:         amount,
		Description:    description,
	}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return svc.creditTrustTx(ctx, tx, trustTx)
	})
	if err != nil {
		return nil, err
	}
	svc.publishTrustTransaction(ctx, trustTx)
	return trustTx, nil
}

// DebitTrust consumes client funds. The balance check and the decrement are
// one conditional UPDATE, so two concurrent debits can never overdraw the
// account: the slower one matches zero rows and rolls back.
func (svc *LedgerService) DebitTrust(ctx context.Context, companyID, trustAccountID int64, amount decimal.Decimal, description string, invoiceID int64) (*models.TrustTransaction, error) {
	if !amount.IsPositive() || !twoDecimalPlaces(amount) {
		return nil, ErrInvalidLine
	}
	if _, err := svc.FindTrustAccount(ctx, companyID, trustAccountID); err != nil {
		return nil, err
	}
	trustTx := &models.TrustTransaction{
		CompanyID:      companyID,
		TrustAccountID: trustAccountID,
		InvoiceID:      invoiceID,
		Type:           common.TrustTransactionTypeDebit,
		Amount:         amount,
		Description:    description,
	}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return svc.debitTrustTx(ctx, tx, trustTx)
	})
	if err != nil {
		return nil, err
	}
	svc.publishTrustTransaction(ctx, trustTx)
	return trustTx, nil
}

func (svc *LedgerService) creditTrustTx(ctx context.Context, tx bun.Tx, trustTx *models.TrustTransaction) error {
	if _, err := tx.NewInsert().Model(trustTx).Exec(ctx); err != nil {
		return err
	}
	result, err := tx.NewUpdate().Model((*models.TrustAccount)(nil)).
		Set("balance = balance + ?", trustTx.Amount).
		Where("id = ? AND company_id = ?", trustTx.TrustAccountID, trustTx.CompanyID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireOneRow(result, ErrNotFound)
}

func (svc *LedgerService) debitTrustTx(ctx context.Context, tx bun.Tx, trustTx *models.TrustTransaction) error {
	if _, err := tx.NewInsert().Model(trustTx).Exec(ctx); err != nil {
		return err
	}
	result, err := tx.NewUpdate().Model((*models.TrustAccount)(nil)).
		Set("balance = balance - ?", trustTx.Amount).
		Where("id = ? AND company_id = ? AND balance >= ?", trustTx.TrustAccountID, trustTx.CompanyID, trustTx.Amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireOneRow(result, ErrInsufficientTrust)
}

// DeleteTrustTransaction reverses a deposit or consumption. This is the only
// supported correction path; removing a credit re-checks that the remaining
// balance can absorb the reversal.
func (svc *LedgerService) DeleteTrustTransaction(ctx context.Context, companyID, trustTransactionID int64) error {
	var trustTx models.TrustTransaction
	err := svc.DB.NewSelect().Model(&trustTx).
		Where("trust_transaction.id = ? AND trust_transaction.company_id = ?", trustTransactionID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return ErrNotFound
	}
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewDelete().Model((*models.TrustTransaction)(nil)).
			Where("id = ? AND company_id = ?", trustTransactionID, companyID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if err := requireOneRow(result, ErrNotFound); err != nil {
			return err
		}
		if trustTx.Type == common.TrustTransactionTypeCredit {
			result, err = tx.NewUpdate().Model((*models.TrustAccount)(nil)).
				Set("balance = balance - ?", trustTx.Amount).
				Where("id = ? AND balance >= ?", trustTx.TrustAccountID, trustTx.Amount).
				Exec(ctx)
			if err != nil {
				return err
			}
			return requireOneRow(result, ErrInsufficientTrust)
		}
		result, err = tx.NewUpdate().Model((*models.TrustAccount)(nil)).
			Set("balance = balance + ?", trustTx.Amount).
			Where("id = ?", trustTx.TrustAccountID).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireOneRow(result, ErrNotFound)
	})
}

func (svc *LedgerService) FindTrustAccount(ctx context.Context, companyID, trustAccountID int64) (*models.TrustAccount, error) {
	var account models.TrustAccount
	err := svc.DB.NewSelect().Model(&account).
		Where("trust_account.id = ? AND trust_account.company_id = ?", trustAccountID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &account, nil
}

// TrustAccountsFor lists a client's trust accounts, optionally filtered by
// currency, in creation order.
func (svc *LedgerService) TrustAccountsFor(ctx context.Context, companyID, clientID int64, currency string) ([]models.TrustAccount, error) {
	accounts := []models.TrustAccount{}
	query := svc.DB.NewSelect().Model(&accounts).
		Where("company_id = ? AND client_id = ?", companyID, clientID)
	if currency != "" {
		query.Where("currency = ?", currency)
	}
	err := query.Order("id ASC").Scan(ctx)
	return accounts, err
}

// TrustTransactionsFor lists the movements of one trust account.
func (svc *LedgerService) TrustTransactionsFor(ctx context.Context, companyID, trustAccountID int64) ([]models.TrustTransaction, error) {
	if _, err := svc.FindTrustAccount(ctx, companyID, trustAccountID); err != nil {
		return nil, err
	}
	transactions := []models.TrustTransaction{}
	err := svc.DB.NewSelect().Model(&transactions).
		Where("company_id = ? AND trust_account_id = ?", companyID, trustAccountID).
		Order("id ASC").Scan(ctx)
	return transactions, err
}

// findOrCreateTrustAccountTx resolves the (client, project, currency) bucket
// inside an enclosing transaction, creating it on first deposit.
func (svc *LedgerService) findOrCreateTrustAccountTx(ctx context.Context, tx bun.Tx, companyID, clientID, projectID int64, currency string) (*models.TrustAccount, error) {
	var account models.TrustAccount
	query := tx.NewSelect().Model(&account).
		Where("trust_account.company_id = ? AND trust_account.client_id = ? AND trust_account.currency = ?", companyID, clientID, currency)
	if projectID != 0 {
		query.Where("trust_account.project_id = ?", projectID)
	} else {
		query.Where("trust_account.project_id IS NULL")
	}
	err := query.Limit(1).Scan(ctx)
	if err == nil {
		return &account, nil
	}
	account = models.TrustAccount{
		CompanyID: companyID,
		ClientID:  clientID,
		ProjectID: projectID,
		Currency:  currency,
		Balance:   decimal.Zero,
	}
	if _, err := tx.NewInsert().Model(&account).Exec(ctx); err != nil {
		return nil, err
	}
	return &account, nil
}

// publishTrustTransaction emits the event best-effort after the transaction
// has committed. A broker outage never fails a trust operation.
func (svc *LedgerService) publishTrustTransaction(ctx context.Context, trustTx *models.TrustTransaction) {
	if svc.RabbitMQClient == nil {
		return
	}
	if err := svc.RabbitMQClient.PublishTrustTransaction(ctx, trustTx); err != nil {
		svc.Logger.Errorf("Failed to publish trust transaction event: trust_transaction_id %d error %v", trustTx.ID, err)
	}
}

func requireOneRow(result sql.Result, notMatched error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notMatched
	}
	return nil
}
