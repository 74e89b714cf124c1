package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/firmbooks/firmbooks/common"
	"github.com/firmbooks/firmbooks/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// allocation is one planned slice of a settlement: consume Amount from the
// trust account with TrustAccountID.
type allocation struct {
	TrustAccountID int64
	Amount         decimal.Decimal
}

// planTrustAllocation greedily spreads amountDue over the candidate
// accounts: buckets scoped to the invoice's project first, then the
// client's remaining same-currency buckets, id ascending within each tier.
// The caller passes candidates already filtered by client and currency.
func planTrustAllocation(amountDue decimal.Decimal, projectID int64, candidates []models.TrustAccount) ([]allocation, error) {
	ordered := make([]models.TrustAccount, 0, len(candidates))
	for _, account := range candidates {
		if projectID != 0 && account.ProjectID == projectID {
			ordered = append(ordered, account)
		}
	}
	for _, account := range candidates {
		if projectID == 0 || account.ProjectID != projectID {
			ordered = append(ordered, account)
		}
	}

	remaining := amountDue
	allocations := []allocation{}
	for _, account := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !account.Balance.IsPositive() {
			continue
		}
		slice := decimal.Min(account.Balance, remaining)
		allocations = append(allocations, allocation{TrustAccountID: account.ID, Amount: slice})
		remaining = remaining.Sub(slice)
	}
	if remaining.IsPositive() {
		return nil, ErrInsufficientTrust
	}
	return allocations, nil
}

// SettleInvoiceFromTrust applies an invoice's amount due against the
// client's trust funds. Trust debits, the payment record and the status
// update commit as one unit; any failure rolls back all of it.
func (svc *LedgerService) SettleInvoiceFromTrust(ctx context.Context, companyID, invoiceID int64) (*models.Invoice, error) {
	invoice, err := svc.FindInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	amountDue, err := svc.checkSettleable(ctx, invoice)
	if err != nil {
		return nil, err
	}

	candidates, err := svc.TrustAccountsFor(ctx, companyID, invoice.ClientID, invoice.Currency)
	if err != nil {
		return nil, err
	}
	allocations, err := planTrustAllocation(amountDue, invoice.ProjectID, candidates)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		CompanyID: companyID,
		InvoiceID: invoice.ID,
		Gateway:   common.PaymentGatewayTrust,
		Amount:    amountDue,
		Currency:  invoice.Currency,
		Reference: uuid.NewString(),
	}
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, alloc := range allocations {
			trustTx := &models.TrustTransaction{
				CompanyID:      companyID,
				TrustAccountID: alloc.TrustAccountID,
				InvoiceID:      invoice.ID,
				Type:           common.TrustTransactionTypeDebit,
				Amount:         alloc.Amount,
				Description:    fmt.Sprintf("Settlement of invoice %s", invoice.Number),
			}
			// a lost race on the conditional decrement aborts the whole settlement
			if err := svc.debitTrustTx(ctx, tx, trustTx); err != nil {
				return err
			}
		}
		if _, err := tx.NewInsert().Model(payment).Exec(ctx); err != nil {
			return err
		}
		return svc.markInvoicePaidTx(ctx, tx, invoice, amountDue, true)
	})
	if err != nil {
		return nil, err
	}

	svc.publishSettlement(ctx, invoice, payment)
	return invoice, nil
}

// SettleInvoiceFromBank records an invoice payment arriving on a firm bank
// account, converting into the bank's currency when it differs.
func (svc *LedgerService) SettleInvoiceFromBank(ctx context.Context, companyID, invoiceID, bankAccountID int64) (*models.Invoice, error) {
	invoice, err := svc.FindInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	amountDue, err := svc.checkSettleable(ctx, invoice)
	if err != nil {
		return nil, err
	}
	bankAccount, err := svc.FindBankAccount(ctx, companyID, bankAccountID)
	if err != nil {
		return nil, err
	}

	received := svc.Fx.Convert(ctx, amountDue, invoice.Currency, bankAccount.Currency)
	payment := &models.Payment{
		CompanyID: companyID,
		InvoiceID: invoice.ID,
		Gateway:   common.PaymentGatewayBank,
		Amount:    amountDue,
		Currency:  invoice.Currency,
		Reference: uuid.NewString(),
	}
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		bankTx := &models.BankTransaction{
			CompanyID:     companyID,
			BankAccountID: bankAccount.ID,
			InvoiceID:     invoice.ID,
			Type:          common.BankTransactionTypeCredit,
			Amount:        received,
			Description:   fmt.Sprintf("Payment of invoice %s", invoice.Number),
		}
		if err := svc.creditBankTx(ctx, tx, bankTx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(payment).Exec(ctx); err != nil {
			return err
		}
		return svc.markInvoicePaidTx(ctx, tx, invoice, amountDue, false)
	})
	if err != nil {
		return nil, err
	}

	svc.publishSettlement(ctx, invoice, payment)
	return invoice, nil
}

// checkSettleable guards the settlement state machine and returns the
// amount due.
func (svc *LedgerService) checkSettleable(ctx context.Context, invoice *models.Invoice) (decimal.Decimal, error) {
	switch invoice.Status {
	case common.InvoiceStatusPaid:
		return decimal.Zero, ErrAlreadyPaid
	case common.InvoiceStatusDraft:
		return decimal.Zero, ErrDraftNotIssued
	}
	amountDue, err := svc.InvoiceAmountDue(ctx, invoice)
	if err != nil {
		return decimal.Zero, err
	}
	if !amountDue.IsPositive() {
		return decimal.Zero, ErrNothingDue
	}
	return amountDue, nil
}

// markInvoicePaidTx flips an invoice to PAID inside the settlement
// transaction. Settlement always covers the full amount due, so any
// successful settlement is a full payment.
func (svc *LedgerService) markInvoicePaidTx(ctx context.Context, tx bun.Tx, invoice *models.Invoice, amount decimal.Decimal, fromTrust bool) error {
	invoice.Status = common.InvoiceStatusPaid
	invoice.PaidAt = bun.NullTime{Time: time.Now()}
	if fromTrust {
		invoice.TrustDeducted = invoice.TrustDeducted.Add(amount)
	}
	result, err := tx.NewUpdate().Model(invoice).
		Column("status", "paid_at", "trust_deducted", "updated_at").
		Where("id = ? AND company_id = ? AND status <> ?", invoice.ID, invoice.CompanyID, common.InvoiceStatusPaid).
		Exec(ctx)
	if err != nil {
		return err
	}
	// zero rows means a concurrent settlement paid the invoice first
	return requireOneRow(result, ErrAlreadyPaid)
}

func (svc *LedgerService) publishSettlement(ctx context.Context, invoice *models.Invoice, payment *models.Payment) {
	if svc.RabbitMQClient == nil {
		return
	}
	if err := svc.RabbitMQClient.PublishInvoiceSettled(ctx, invoice, payment); err != nil {
		svc.Logger.Errorf("Failed to publish settlement event invoice_id:%v error: %v", invoice.ID, err)
	}
}
