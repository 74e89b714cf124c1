package service

import (
	"context"
	"fmt"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/shopspring/decimal"
)

// StartReconciliationRoutine periodically re-derives every cached balance
// from its transaction history and reports drift. Drift is never corrected
// automatically, it means a bug or manual database intervention and a human
// has to look at it.
func (svc *LedgerService) StartReconciliationRoutine(ctx context.Context) error {
	if svc.Config.ReconciliationInterval <= 0 {
		svc.Logger.Info("Reconciliation routine is disabled")
		return nil
	}
	interval := time.Duration(svc.Config.ReconciliationInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := svc.ReconcileBalances(ctx); err != nil {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}
		}
	}
}

type balanceDrift struct {
	AccountID int64           `bun:"account_id"`
	Cached    decimal.Decimal `bun:"cached"`
	Derived   decimal.Decimal `bun:"derived"`
}

// ReconcileBalances compares the denormalized trust and bank balances
// against the sums of their transaction rows.
func (svc *LedgerService) ReconcileBalances(ctx context.Context) error {
	trustDrift := []balanceDrift{}
	err := svc.DB.NewSelect().
		Model((*models.TrustAccount)(nil)).
		ColumnExpr("trust_account.id AS account_id").
		ColumnExpr("trust_account.balance AS cached").
		ColumnExpr("COALESCE(SUM(CASE WHEN t.type = 'DEBIT' THEN -t.amount ELSE t.amount END), 0) AS derived").
		Join("LEFT JOIN trust_transactions AS t ON t.trust_account_id = trust_account.id").
		GroupExpr("trust_account.id, trust_account.balance").
		Having("trust_account.balance <> COALESCE(SUM(CASE WHEN t.type = 'DEBIT' THEN -t.amount ELSE t.amount END), 0)").
		Scan(ctx, &trustDrift)
	if err != nil {
		return err
	}
	for _, drift := range trustDrift {
		svc.reportDrift("trust account", drift)
	}

	bankDrift := []balanceDrift{}
	err = svc.DB.NewSelect().
		Model((*models.BankAccount)(nil)).
		ColumnExpr("bank_account.id AS account_id").
		ColumnExpr("bank_account.balance AS cached").
		ColumnExpr("COALESCE(SUM(CASE WHEN t.type = 'DEBIT' THEN -t.amount ELSE t.amount END), 0) AS derived").
		Join("LEFT JOIN bank_transactions AS t ON t.bank_account_id = bank_account.id").
		GroupExpr("bank_account.id, bank_account.balance").
		Having("bank_account.balance <> COALESCE(SUM(CASE WHEN t.type = 'DEBIT' THEN -t.amount ELSE t.amount END), 0)").
		Scan(ctx, &bankDrift)
	if err != nil {
		return err
	}
	for _, drift := range bankDrift {
		svc.reportDrift("bank account", drift)
	}

	return nil
}

func (svc *LedgerService) reportDrift(kind string, drift balanceDrift) {
	msg := fmt.Sprintf("balance out of sync: %s %d cached %s derived %s",
		kind, drift.AccountID, drift.Cached.String(), drift.Derived.String())
	svc.Logger.Error(msg)
	sentry.CaptureMessage(msg)
}
