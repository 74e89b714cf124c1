package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// LineParams is one requested leg of a posting. Exactly one of Debit and
// Credit must be a positive amount with at most two decimal places.
type LineParams struct {
	AccountID int64           `json:"account_id" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Currency  string          `json:"currency"`
}

var hundred = decimal.NewFromInt(100)

// twoDecimalPlaces reports whether amount survives a round trip through
// cents without losing precision.
func twoDecimalPlaces(amount decimal.Decimal) bool {
	cents := amount.Mul(hundred)
	return cents.Equal(cents.Floor())
}

// validateLines checks every leg and returns the debit and credit totals.
func validateLines(lines []LineParams, defaultCurrency string) (totalDebit, totalCredit decimal.Decimal, err error) {
	if len(lines) == 0 {
		return totalDebit, totalCredit, ErrInvalidLine
	}
	for i := range lines {
		line := &lines[i]
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return totalDebit, totalCredit, ErrInvalidLine
		}
		hasDebit := line.Debit.IsPositive()
		hasCredit := line.Credit.IsPositive()
		if hasDebit == hasCredit {
			return totalDebit, totalCredit, ErrInvalidLine
		}
		if !twoDecimalPlaces(line.Debit) || !twoDecimalPlaces(line.Credit) {
			return totalDebit, totalCredit, ErrInvalidLine
		}
		if line.Currency == "" {
			line.Currency = defaultCurrency
		}
		if money.GetCurrency(line.Currency) == nil {
			return totalDebit, totalCredit, ErrInvalidCurrency
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return totalDebit, totalCredit, ErrUnbalancedTransaction
	}
	return totalDebit, totalCredit, nil
}

// PostTransaction persists a balanced set of lines as one immutable
// transaction. Every referenced account must belong to companyID; a line
// pointing into another tenant's chart fails the whole posting and is
// reported exactly like a missing account.
func (svc *LedgerService) PostTransaction(ctx context.Context, companyID int64, memo string, date time.Time, creatorID int64, lines []LineParams) (*models.Transaction, error) {
	company, err := svc.FindCompany(ctx, companyID)
	if err != nil {
		return nil, ErrNotFound
	}
	if _, _, err := validateLines(lines, company.Currency); err != nil {
		return nil, err
	}

	accountIDs := make([]int64, 0, len(lines))
	seen := make(map[int64]bool)
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	count, err := svc.DB.NewSelect().Model((*models.Account)(nil)).
		Where("id IN (?) AND company_id = ?", bun.In(accountIDs), companyID).
		Count(ctx)
	if err != nil {
		return nil, err
	}
	if count != len(accountIDs) {
		return nil, ErrNotFound
	}

	if date.IsZero() {
		date = time.Now()
	}
	transaction := &models.Transaction{
		CompanyID:   companyID,
		Date:        date,
		Memo:        memo,
		CreatedByID: creatorID,
	}
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(transaction).Exec(ctx); err != nil {
			return err
		}
		for _, line := range lines {
			transactionLine := &models.TransactionLine{
				CompanyID:     companyID,
				TransactionID: transaction.ID,
				AccountID:     line.AccountID,
				Debit:         line.Debit,
				Credit:        line.Credit,
				Currency:      line.Currency,
			}
			if _, err := tx.NewInsert().Model(transactionLine).Exec(ctx); err != nil {
				return err
			}
			transaction.Lines = append(transaction.Lines, transactionLine)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// DeleteTransaction removes a whole posting with its lines. This is the
// only correction path besides an offsetting transaction.
func (svc *LedgerService) DeleteTransaction(ctx context.Context, companyID, transactionID int64) error {
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.TransactionLine)(nil)).
			Where("transaction_id = ? AND company_id = ?", transactionID, companyID).
			Exec(ctx); err != nil {
			return err
		}
		result, err := tx.NewDelete().Model((*models.Transaction)(nil)).
			Where("id = ? AND company_id = ?", transactionID, companyID).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FindTransaction loads a posting with its lines, scoped by tenant.
func (svc *LedgerService) FindTransaction(ctx context.Context, companyID, transactionID int64) (*models.Transaction, error) {
	var transaction models.Transaction
	err := svc.DB.NewSelect().Model(&transaction).
		Relation("Lines").
		Where("transaction.id = ? AND transaction.company_id = ?", transactionID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &transaction, nil
}

func (svc *LedgerService) FindCompany(ctx context.Context, companyID int64) (*models.Company, error) {
	var company models.Company
	err := svc.DB.NewSelect().Model(&company).Where("id = ?", companyID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &company, nil
}
