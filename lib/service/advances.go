package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type AdvancePaymentParams struct {
	ClientID      int64           `json:"client_id" validate:"required"`
	ProjectID     int64           `json:"project_id"`
	BankAccountID int64           `json:"bank_account_id" validate:"required"`
	AccountType   string          `json:"account_type" validate:"required,oneof=TRUST EXPENSE"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required"`
	Memo          string          `json:"memo"`
}

// RecordAdvancePayment books a client prepayment. TRUST advances feed the
// matching (client, project, currency) trust bucket, EXPENSE advances book
// straight as fee income; both credit the receiving bank account and post
// the balanced ledger entry. One transaction covers all of it.
func (svc *LedgerService) RecordAdvancePayment(ctx context.Context, companyID, creatorID int64, params *AdvancePaymentParams) (*models.AdvancePayment, error) {
	if !params.Amount.IsPositive() || !twoDecimalPlaces(params.Amount) {
		return nil, ErrInvalidLine
	}
	if money.GetCurrency(params.Currency) == nil {
		return nil, ErrInvalidCurrency
	}
	if params.AccountType != common.AdvanceAccountTypeTrust && params.AccountType != common.AdvanceAccountTypeExpense {
		return nil, ErrInvalidLine
	}
	if err := svc.checkClientProject(ctx, companyID, params.ClientID, params.ProjectID); err != nil {
		return nil, err
	}
	bankAccount, err := svc.FindBankAccount(ctx, companyID, params.BankAccountID)
	if err != nil {
		return nil, err
	}

	advance := &models.AdvancePayment{
		CompanyID:     companyID,
		ClientID:      params.ClientID,
		ProjectID:     params.ProjectID,
		BankAccountID: params.BankAccountID,
		AccountType:   params.AccountType,
		Amount:        params.Amount,
		Currency:      params.Currency,
		Memo:          params.Memo,
	}
	// the bank receives the funds in its own currency; resolve the rate
	// before the transaction opens so a slow FX provider never holds locks
	received := svc.Fx.Convert(ctx, params.Amount, params.Currency, bankAccount.Currency)

	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(advance).Exec(ctx); err != nil {
			return err
		}

		if params.AccountType == common.AdvanceAccountTypeTrust {
			trustAccount, err := svc.findOrCreateTrustAccountTx(ctx, tx, companyID, params.ClientID, params.ProjectID, params.Currency)
			if err != nil {
				return err
			}
			trustTx := &models.TrustTransaction{
				CompanyID:      companyID,
				TrustAccountID: trustAccount.ID,
				Type:           common.TrustTransactionTypeCredit,
				Amount:         params.Amount,
				Description:    fmt.Sprintf("Advance payment #%d", advance.ID),
			}
			if err := svc.creditTrustTx(ctx, tx, trustTx); err != nil {
				return err
			}
		}

		bankTx := &models.BankTransaction{
			CompanyID:     companyID,
			BankAccountID: bankAccount.ID,
			Type:          common.BankTransactionTypeCredit,
			Amount:        received,
			Description:   fmt.Sprintf("Advance payment #%d", advance.ID),
		}
		if err := svc.creditBankTx(ctx, tx, bankTx); err != nil {
			return err
		}

		return svc.postAdvanceTx(ctx, tx, companyID, creatorID, advance)
	})
	if err != nil {
		return nil, err
	}
	return advance, nil
}

// postAdvanceTx writes the double-entry side of an advance: debit cash,
// credit the trust liability or fee income account.
func (svc *LedgerService) postAdvanceTx(ctx context.Context, tx bun.Tx, companyID, creatorID int64, advance *models.AdvancePayment) error {
	cash, err := svc.accountByCodeTx(ctx, tx, companyID, accountCodeCash)
	if err != nil {
		return err
	}
	creditCode := accountCodeFeesIncome
	if advance.AccountType == common.AdvanceAccountTypeTrust {
		creditCode = accountCodeTrustOwed
	}
	counter, err := svc.accountByCodeTx(ctx, tx, companyID, creditCode)
	if err != nil {
		return err
	}

	transaction := &models.Transaction{
		CompanyID:   companyID,
		Date:        time.Now(),
		Memo:        fmt.Sprintf("Advance payment #%d", advance.ID),
		CreatedByID: creatorID,
	}
	if _, err := tx.NewInsert().Model(transaction).Exec(ctx); err != nil {
		return err
	}
	lines := []*models.TransactionLine{
		{
			CompanyID:     companyID,
			TransactionID: transaction.ID,
			AccountID:     cash.ID,
			Debit:         advance.Amount,
			Currency:      advance.Currency,
		},
		{
			CompanyID:     companyID,
			TransactionID: transaction.ID,
			AccountID:     counter.ID,
			Credit:        advance.Amount,
			Currency:      advance.Currency,
		},
	}
	for _, line := range lines {
		if _, err := tx.NewInsert().Model(line).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AdvancePaymentsFor lists a company's advances, newest first.
func (svc *LedgerService) AdvancePaymentsFor(ctx context.Context, companyID int64) ([]models.AdvancePayment, error) {
	advances := []models.AdvancePayment{}
	err := svc.DB.NewSelect().Model(&advances).
		Where("company_id = ?", companyID).
		OrderExpr("id DESC").Limit(100).Scan(ctx)
	return advances, err
}
