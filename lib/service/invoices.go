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

type InvoiceItemParams struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type InvoiceParams struct {
	ClientID  int64               `json:"client_id" validate:"required"`
	ProjectID int64               `json:"project_id"`
	Currency  string              `json:"currency" validate:"required"`
	Discount  decimal.Decimal     `json:"discount"`
	Tax       decimal.Decimal     `json:"tax"`
	Items     []InvoiceItemParams `json:"items" validate:"required,min=1,dive"`
}

// invoiceTotals computes subtotal and total from the item lines:
// subtotal = sum(quantity * unit price), total = subtotal - discount + tax.
func invoiceTotals(params *InvoiceParams) (subtotal, total decimal.Decimal, err error) {
	for i := range params.Items {
		item := &params.Items[i]
		if item.Quantity.IsZero() {
			item.Quantity = decimal.NewFromInt(1)
		}
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return subtotal, total, ErrInvalidLine
		}
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice).Round(2))
	}
	if params.Discount.IsNegative() || params.Tax.IsNegative() {
		return subtotal, total, ErrInvalidLine
	}
	total = subtotal.Sub(params.Discount).Add(params.Tax)
	if total.IsNegative() {
		return subtotal, total, ErrInvalidLine
	}
	return subtotal, total, nil
}

// CreateInvoice stores a DRAFT invoice with its items. Drafts carry no
// number yet; numbering happens on issue.
func (svc *LedgerService) CreateInvoice(ctx context.Context, companyID int64, params *InvoiceParams) (*models.Invoice, error) {
	if money.GetCurrency(params.Currency) == nil {
		return nil, ErrInvalidCurrency
	}
	if err := svc.checkClientProject(ctx, companyID, params.ClientID, params.ProjectID); err != nil {
		return nil, err
	}
	subtotal, total, err := invoiceTotals(params)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		CompanyID: companyID,
		ClientID:  params.ClientID,
		ProjectID: params.ProjectID,
		Currency:  params.Currency,
		Subtotal:  subtotal,
		Discount:  params.Discount,
		Tax:       params.Tax,
		Total:     total,
		Status:    common.InvoiceStatusDraft,
	}
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(invoice).Exec(ctx); err != nil {
			return err
		}
		for _, item := range params.Items {
			invoiceItem := &models.InvoiceItem{
				CompanyID:   companyID,
				InvoiceID:   invoice.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Amount:      item.Quantity.Mul(item.UnitPrice).Round(2),
			}
			if _, err := tx.NewInsert().Model(invoiceItem).Exec(ctx); err != nil {
				return err
			}
			invoice.Items = append(invoice.Items, invoiceItem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// IssueInvoice moves a draft to SENT and assigns the next sequential
// per-company number.
func (svc *LedgerService) IssueInvoice(ctx context.Context, companyID, invoiceID int64) (*models.Invoice, error) {
	invoice, err := svc.FindInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != common.InvoiceStatusDraft {
		return nil, ErrAlreadyIssued
	}
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var sequence int64
		err := tx.NewUpdate().Model((*models.Company)(nil)).
			Set("invoice_sequence = invoice_sequence + 1").
			Where("id = ?", companyID).
			Returning("invoice_sequence").
			Scan(ctx, &sequence)
		if err != nil {
			return err
		}
		invoice.Number = fmt.Sprintf("INV-%05d", sequence)
		invoice.Status = common.InvoiceStatusSent
		invoice.IssuedAt = bun.NullTime{Time: time.Now()}
		result, err := tx.NewUpdate().Model(invoice).
			Column("number", "status", "issued_at", "updated_at").
			Where("id = ? AND company_id = ? AND status = ?", invoice.ID, companyID, common.InvoiceStatusDraft).
			Exec(ctx)
		if err != nil {
			return err
		}
		return requireOneRow(result, ErrAlreadyIssued)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (svc *LedgerService) FindInvoice(ctx context.Context, companyID, invoiceID int64) (*models.Invoice, error) {
	var invoice models.Invoice
	err := svc.DB.NewSelect().Model(&invoice).
		Relation("Items").
		Where("invoice.id = ? AND invoice.company_id = ?", invoiceID, companyID).
		Limit(1).Scan(ctx)
	if err != nil {
		return nil, ErrNotFound
	}
	return &invoice, nil
}

// InvoicesFor lists a company's invoices, optionally filtered by status.
func (svc *LedgerService) InvoicesFor(ctx context.Context, companyID int64, status string) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	query := svc.DB.NewSelect().Model(&invoices).Where("company_id = ?", companyID)
	if status != "" {
		query.Where("status = ?", status)
	}
	query.OrderExpr("id DESC").Limit(100)
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoiceAmountDue is the invoice total minus what has already been paid.
func (svc *LedgerService) InvoiceAmountDue(ctx context.Context, invoice *models.Invoice) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := svc.DB.NewSelect().Model((*models.Payment)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ? AND company_id = ?", invoice.ID, invoice.CompanyID).
		Scan(ctx, &paid)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.Total.Sub(paid), nil
}

func (svc *LedgerService) checkClientProject(ctx context.Context, companyID, clientID, projectID int64) error {
	exists, err := svc.DB.NewSelect().Model((*models.Client)(nil)).
		Where("id = ? AND company_id = ?", clientID, companyID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if projectID != 0 {
		exists, err = svc.DB.NewSelect().Model((*models.Project)(nil)).
			Where("id = ? AND company_id = ? AND client_id = ?", projectID, companyID, clientID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}
