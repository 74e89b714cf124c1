package service

import (
	"context"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/shopspring/decimal"
)

type TrialBalanceRow struct {
	AccountID int64           `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	// Balanced is the system-level double-entry check. False means the
	// books are corrupt and has to be surfaced, never papered over.
	Balanced bool `json:"balanced"`
}

type LedgerLine struct {
	TransactionID int64           `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Memo          string          `json:"memo"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

type AccountLedgerReport struct {
	Opening decimal.Decimal `json:"opening"`
	Lines   []LedgerLine    `json:"lines"`
}

type BankReport struct {
	BankAccount  *models.BankAccount      `json:"bank_account"`
	Transactions []models.BankTransaction `json:"transactions"`
}

// TrialBalance sums every account's debit and credit sides over an optional
// date range.
func (svc *LedgerService) TrialBalance(ctx context.Context, companyID int64, start, end *time.Time) (*TrialBalanceReport, error) {
	rows := []TrialBalanceRow{}
	query := svc.DB.NewSelect().
		TableExpr("transaction_lines AS line").
		ColumnExpr("line.account_id").
		ColumnExpr("account.code AS code, account.name AS name, account.type AS type").
		ColumnExpr("SUM(line.debit) AS debit").
		ColumnExpr("SUM(line.credit) AS credit").
		Join("JOIN transactions AS transaction ON transaction.id = line.transaction_id").
		Join("JOIN accounts AS account ON account.id = line.account_id").
		Where("line.company_id = ?", companyID).
		GroupExpr("line.account_id, account.code, account.name, account.type").
		Having("SUM(line.debit) <> 0 OR SUM(line.credit) <> 0").
		OrderExpr("account.code ASC")
	if start != nil {
		query.Where("transaction.date >= ?", *start)
	}
	if end != nil {
		query.Where("transaction.date <= ?", *end)
	}
	if err := query.Scan(ctx, &rows); err != nil {
		return nil, err
	}

	report := summarizeTrialBalance(rows)
	if !report.Balanced {
		svc.Logger.Errorf("Trial balance out of balance company_id:%v debit:%s credit:%s", companyID, report.TotalDebit, report.TotalCredit)
		sentry.CaptureMessage("trial balance out of balance")
	}
	return report, nil
}

func summarizeTrialBalance(rows []TrialBalanceRow) *TrialBalanceReport {
	report := &TrialBalanceReport{Rows: rows}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
	}
	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)
	return report
}

// AccountLedger returns the opening balance before start plus the lines in
// range with a running balance column.
func (svc *LedgerService) AccountLedger(ctx context.Context, companyID, accountID int64, start, end *time.Time) (*AccountLedgerReport, error) {
	if _, err := svc.FindAccount(ctx, companyID, accountID); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if start != nil {
		err := svc.DB.NewSelect().
			TableExpr("transaction_lines AS line").
			ColumnExpr("COALESCE(SUM(line.debit - line.credit), 0)").
			Join("JOIN transactions AS transaction ON transaction.id = line.transaction_id").
			Where("line.company_id = ? AND line.account_id = ?", companyID, accountID).
			Where("transaction.date < ?", *start).
			Scan(ctx, &opening)
		if err != nil {
			return nil, err
		}
	}

	lines := []LedgerLine{}
	query := svc.DB.NewSelect().
		TableExpr("transaction_lines AS line").
		ColumnExpr("line.transaction_id").
		ColumnExpr("transaction.date AS date, transaction.memo AS memo").
		ColumnExpr("line.debit AS debit, line.credit AS credit").
		Join("JOIN transactions AS transaction ON transaction.id = line.transaction_id").
		Where("line.company_id = ? AND line.account_id = ?", companyID, accountID).
		OrderExpr("transaction.date ASC, line.id ASC")
	if start != nil {
		query.Where("transaction.date >= ?", *start)
	}
	if end != nil {
		query.Where("transaction.date <= ?", *end)
	}
	if err := query.Scan(ctx, &lines); err != nil {
		return nil, err
	}

	return &AccountLedgerReport{
		Opening: opening,
		Lines:   runningBalances(opening, lines),
	}, nil
}

// runningBalances fills the balance column:
// balance[i] = balance[i-1] + debit[i] - credit[i].
func runningBalances(opening decimal.Decimal, lines []LedgerLine) []LedgerLine {
	balance := opening
	for i := range lines {
		balance = balance.Add(lines[i].Debit).Sub(lines[i].Credit)
		lines[i].Balance = balance
	}
	return lines
}

// BankReport lists one bank account's transactions with its current balance.
func (svc *LedgerService) BankReport(ctx context.Context, companyID, bankAccountID int64, start, end *time.Time) (*BankReport, error) {
	bankAccount, err := svc.FindBankAccount(ctx, companyID, bankAccountID)
	if err != nil {
		return nil, err
	}
	transactions := []models.BankTransaction{}
	query := svc.DB.NewSelect().Model(&transactions).
		Where("company_id = ? AND bank_account_id = ?", companyID, bankAccountID).
		Order("id ASC")
	if start != nil {
		query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query.Where("created_at <= ?", *end)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return &BankReport{BankAccount: bankAccount, Transactions: transactions}, nil
}
