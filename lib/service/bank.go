package service

import (
	"context"
	"database/sql"

	"github.com/Rhymond/go-money"
	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func (svc *LedgerService) CreateBankAccount(ctx context.Context, companyID int64, name, currency string) (*models.BankAccount, error) {
	if money.GetCurrency(currency) == nil {
		return nil, ErrInvalidCurrency
	}
	account := &models.BankAccount{
		CompanyID: companyID,
		Name:      name,
		Currency:  currency,
		Balance:   decimal.Zero,
	}
	if _, err := svc.DB.NewInsert().Model(account).Exec(ctx); err != nil {
		return nil, err
	}
	return account, nil
}

func (svc *LedgerService) FindBankAccount(ctx context.Context, companyID, bankAccountID int64) (*models.BankAccount, error) {
	var account models.BankAccount
	err := svc.DB.NewSelect().Model(&account).
		Where("bank_account.id = ? AND bank_account.company_id = ?", bankAccountID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (svc *LedgerService) BankAccountsFor(ctx context.Context, companyID int64) ([]models.BankAccount, error) {
	accounts := []models.BankAccount{}
	err := svc.DB.NewSelect().Model(&accounts).
		Where("company_id = ?", companyID).
		Order("id ASC").Scan(ctx)
	return accounts, err
}

// RecordBankTransaction books a single cash movement. Debits are guarded by
// the same conditional-update pattern as trust debits, so the account can
// not be overdrawn by concurrent writers.
func (svc *LedgerService) RecordBankTransaction(ctx context.Context, companyID, bankAccountID int64, transactionType string, amount decimal.Decimal, description string) (*models.BankTransaction, error) {
	if !amount.IsPositive() || !twoDecimalPlaces(amount) {
		return nil, ErrInvalidLine
	}
	if _, err := svc.FindBankAccount(ctx, companyID, bankAccountID); err != nil {
		return nil, err
	}
	bankTx := &models.BankTransaction{
		CompanyID:     companyID,
		BankAccountID: bankAccountID,
		Type:          transactionType,
		Amount:        amount,
		Description:   description,
	}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		switch transactionType {
		case common.BankTransactionTypeCredit:
			return svc.creditBankTx(ctx, tx, bankTx)
		case common.BankTransactionTypeDebit:
			return svc.debitBankTx(ctx, tx, bankTx)
		default:
			return ErrInvalidLine
		}
	})
	if err != nil {
		return nil, err
	}
	return bankTx, nil
}

func (svc *LedgerService) creditBankTx(ctx context.Context, tx bun.Tx, bankTx *models.BankTransaction) error {
	if _, err := tx.NewInsert().Model(bankTx).Exec(ctx); err != nil {
		return err
	}
	result, err := tx.NewUpdate().Model((*models.BankAccount)(nil)).
		Set("balance = balance + ?", bankTx.Amount).
		Where("id = ? AND company_id = ?", bankTx.BankAccountID, bankTx.CompanyID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireOneRow(result, ErrNotFound)
}

func (svc *LedgerService) debitBankTx(ctx context.Context, tx bun.Tx, bankTx *models.BankTransaction) error {
	if _, err := tx.NewInsert().Model(bankTx).Exec(ctx); err != nil {
		return err
	}
	result, err := tx.NewUpdate().Model((*models.BankAccount)(nil)).
		Set("balance = balance - ?", bankTx.Amount).
		Where("id = ? AND company_id = ? AND balance >= ?", bankTx.BankAccountID, bankTx.CompanyID, bankTx.Amount).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireOneRow(result, ErrInsufficientFunds)
}
