package service

import (
	"context"
	"errors"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/security"
	"github.com/firmbooks/firmbooks/lib/tokens"
	"github.com/firmbooks/firmbooks/rabbitmq"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

// State-conflict and validation errors the controllers translate into
// typed JSON responses. No partial writes ever accompany these.
var (
	ErrNotFound              = errors.New("not found")
	ErrUnbalancedTransaction = errors.New("unbalanced transaction")
	ErrInvalidLine           = errors.New("invalid transaction line")
	ErrInvalidCurrency       = errors.New("invalid currency code")
	ErrInsufficientTrust     = errors.New("insufficient trust balance")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrAlreadyPaid           = errors.New("invoice is already paid")
	ErrDraftNotIssued        = errors.New("draft invoice has not been issued")
	ErrNothingDue            = errors.New("nothing due on this invoice")
	ErrAlreadyIssued         = errors.New("invoice has already been issued")
	ErrDuplicateAccountCode  = errors.New("account code already exists")
	ErrAccountInUse          = errors.New("account has posted lines")
	ErrCurrencyMismatch      = errors.New("currency mismatch")
)

// LedgerService is the application core: every handler and background
// routine goes through it, every operation is scoped by a company id.
type LedgerService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	Fx             *CurrencyConverter
	RabbitMQClient rabbitmq.Client
}

func (svc *LedgerService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user models.User

	switch {
	case login != "" || password != "":
		{
			if err := svc.DB.NewSelect().Model(&user).Where("login = ?", login).Limit(1).Scan(ctx); err != nil {
				return "", "", errors.New("bad auth")
			}
			if !security.VerifyPassword(user.Password, password) {
				return "", "", errors.New("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userID, _, isRefresh, err := tokens.ParseToken(svc.Config.JWTSecret, inRefreshToken)
			if err != nil || !isRefresh {
				return "", "", errors.New("bad auth")
			}
			if err := svc.DB.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx); err != nil {
				return "", "", errors.New("bad auth")
			}
		}
	default:
		{
			return "", "", errors.New("login and password or refresh token is required")
		}
	}

	if user.Deactivated {
		return "", "", errors.New("bad auth")
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, &user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, &user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
