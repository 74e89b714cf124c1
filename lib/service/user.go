package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/security"
	"github.com/uptrace/bun"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

// CreateCompany bootstraps a tenant: the company row, its owner user and
// the default chart of accounts, wrapped in one transaction in case
// something fails.
func (svc *LedgerService) CreateCompany(ctx context.Context, name, currency, ownerLogin, ownerPassword string) (*models.Company, *models.User, error) {
	if currency == "" {
		currency = "USD"
	}
	if money.GetCurrency(currency) == nil {
		return nil, nil, ErrInvalidCurrency
	}
	company := &models.Company{Name: name, Currency: currency}
	var owner *models.User
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(company).Exec(ctx); err != nil {
			return err
		}
		for _, seed := range defaultChart {
			account := models.Account{
				CompanyID: company.ID,
				Code:      seed.Code,
				Name:      seed.Name,
				Type:      seed.Type,
			}
			if _, err := tx.NewInsert().Model(&account).Exec(ctx); err != nil {
				return err
			}
		}
		var err error
		owner, err = svc.createUserTx(ctx, tx, company.ID, ownerLogin, ownerPassword, common.UserRoleOwner)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return company, owner, nil
}

// CreateUser adds a user to an existing company. Login and password are
// generated when not provided; the plain text password is only ever
// returned in the response, never stored.
func (svc *LedgerService) CreateUser(ctx context.Context, companyID int64, login, password, role string) (user *models.User, err error) {
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		user, err = svc.createUserTx(ctx, tx, companyID, login, password, role)
		return err
	})
	return user, err
}

func (svc *LedgerService) createUserTx(ctx context.Context, tx bun.Tx, companyID int64, login, password, role string) (*models.User, error) {
	user := &models.User{CompanyID: companyID}

	// generate user login/password if not provided
	user.Login = login
	if login == "" {
		randLoginBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		user.Login = string(randLoginBytes)
	}

	if password == "" {
		randPasswordBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		password = string(randPasswordBytes)
	} else {
		if svc.Config.MinPasswordEntropy > 0 {
			entropy := passwordvalidator.GetEntropy(password)
			if entropy < float64(svc.Config.MinPasswordEntropy) {
				return nil, fmt.Errorf("password entropy is too low (%f), required is %d", entropy, svc.Config.MinPasswordEntropy)
			}
		}
	}

	if role == "" {
		role = common.UserRoleMember
	}
	user.Role = role

	// we only store the hashed password but return the initial plain text
	// password in the HTTP response
	user.Password = security.HashPassword(password)
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	// return the actual password in the response, not the hashed one
	user.Password = password
	return user, nil
}

func (svc *LedgerService) FindUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (svc *LedgerService) CreateClient(ctx context.Context, companyID int64, name, email string) (*models.Client, error) {
	client := &models.Client{CompanyID: companyID, Name: name, Email: email}
	if _, err := svc.DB.NewInsert().Model(client).Exec(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func (svc *LedgerService) CreateProject(ctx context.Context, companyID, clientID int64, name string) (*models.Project, error) {
	if err := svc.checkClientProject(ctx, companyID, clientID, 0); err != nil {
		return nil, err
	}
	project := &models.Project{CompanyID: companyID, ClientID: clientID, Name: name}
	if _, err := svc.DB.NewInsert().Model(project).Exec(ctx); err != nil {
		return nil, err
	}
	return project, nil
}

func (svc *LedgerService) ClientsFor(ctx context.Context, companyID int64) ([]models.Client, error) {
	clients := []models.Client{}
	err := svc.DB.NewSelect().Model(&clients).
		Where("company_id = ?", companyID).
		Order("id ASC").Scan(ctx)
	return clients, err
}
