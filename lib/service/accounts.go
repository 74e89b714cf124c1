package service

import (
	"context"
	"strings"

	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/uptrace/bun"
)

// defaultChart is the chart of accounts every new company starts with,
// keyed by the codes the advance-payment and settlement postings rely on.
var defaultChart = []models.Account{
	{Code: "1000", Name: "Cash at Bank", Type: common.AccountTypeAsset},
	{Code: "1200", Name: "Accounts Receivable", Type: common.AccountTypeAsset},
	{Code: "2100", Name: "Client Funds Held in Trust", Type: common.AccountTypeLiability},
	{Code: "3000", Name: "Owner Equity", Type: common.AccountTypeEquity},
	{Code: "4000", Name: "Legal Fees Income", Type: common.AccountTypeIncome},
	{Code: "5000", Name: "Operating Expenses", Type: common.AccountTypeExpense},
}

const (
	accountCodeCash       = "1000"
	accountCodeTrustOwed  = "2100"
	accountCodeFeesIncome = "4000"
)

func (svc *LedgerService) CreateAccount(ctx context.Context, companyID int64, code, name, accountType string) (*models.Account, error) {
	if !common.ValidAccountType(accountType) {
		return nil, ErrInvalidLine
	}
	exists, err := svc.DB.NewSelect().Model((*models.Account)(nil)).
		Where("company_id = ? AND code = ?", companyID, code).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAccountCode
	}
	account := &models.Account{
		CompanyID: companyID,
		Code:      code,
		Name:      name,
		Type:      accountType,
	}
	if _, err := svc.DB.NewInsert().Model(account).Exec(ctx); err != nil {
		if strings.Contains(err.Error(), "accounts_company_code") {
			return nil, ErrDuplicateAccountCode
		}
		return nil, err
	}
	return account, nil
}

// UpdateAccount renames an account. The type is immutable once posted
// lines reference the account.
func (svc *LedgerService) UpdateAccount(ctx context.Context, companyID, accountID int64, name, accountType string) (*models.Account, error) {
	account, err := svc.FindAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if accountType != "" && accountType != account.Type {
		if !common.ValidAccountType(accountType) {
			return nil, ErrInvalidLine
		}
		hasLines, err := svc.DB.NewSelect().Model((*models.TransactionLine)(nil)).
			Where("account_id = ?", accountID).
			Exists(ctx)
		if err != nil {
			return nil, err
		}
		if hasLines {
			return nil, ErrAccountInUse
		}
		account.Type = accountType
	}
	if name != "" {
		account.Name = name
	}
	if _, err := svc.DB.NewUpdate().Model(account).
		Column("name", "type").
		Where("id = ? AND company_id = ?", accountID, companyID).
		Exec(ctx); err != nil {
		return nil, err
	}
	return account, nil
}

func (svc *LedgerService) FindAccount(ctx context.Context, companyID, accountID int64) (*models.Account, error) {
	var account models.Account
	err := svc.DB.NewSelect().Model(&account).
		Where("account.id = ? AND account.company_id = ?", accountID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (svc *LedgerService) AccountsFor(ctx context.Context, companyID int64) ([]models.Account, error) {
	accounts := []models.Account{}
	err := svc.DB.NewSelect().Model(&accounts).
		Where("company_id = ?", companyID).
		Order("code ASC").Scan(ctx)
	return accounts, err
}

// accountByCodeTx resolves one of the seeded chart accounts inside an
// enclosing transaction.
func (svc *LedgerService) accountByCodeTx(ctx context.Context, tx bun.Tx, companyID int64, code string) (*models.Account, error) {
	var account models.Account
	err := tx.NewSelect().Model(&account).
		Where("account.company_id = ? AND account.code = ?", companyID, code).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &account, nil
}
