package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InvoiceController : Invoice lifecycle controller struct
type InvoiceController struct {
	svc *service.LedgerService
}

func NewInvoiceController(svc *service.LedgerService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type InvoiceResponse struct {
	ID            int64                 `json:"id"`
	Number        string                `json:"number,omitempty"`
	ClientID      int64                 `json:"client_id"`
	ProjectID     int64                 `json:"project_id,omitempty"`
	Currency      string                `json:"currency"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	TrustDeducted decimal.Decimal       `json:"trust_deducted"`
	Total         decimal.Decimal       `json:"total"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	IssuedAt      *time.Time            `json:"issued_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
}

func invoiceResponse(invoice *models.Invoice) *InvoiceResponse {
	response := &InvoiceResponse{
		ID:            invoice.ID,
		Number:        invoice.Number,
		ClientID:      invoice.ClientID,
		ProjectID:     invoice.ProjectID,
		Currency:      invoice.Currency,
		Subtotal:      invoice.Subtotal,
		Discount:      invoice.Discount,
		Tax:           invoice.Tax,
		TrustDeducted: invoice.TrustDeducted,
		Total:         invoice.Total,
		Status:        invoice.Status,
	}
	for _, item := range invoice.Items {
		response.Items = append(response.Items, InvoiceItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	if !invoice.IssuedAt.IsZero() {
		response.IssuedAt = &invoice.IssuedAt.Time
	}
	if !invoice.PaidAt.IsZero() {
		response.PaidAt = &invoice.PaidAt.Time
	}
	return response
}

// CreateInvoice godoc
// @Summary      Create a draft invoice
// @Description  Creates an invoice in DRAFT state. Totals are computed from the items.
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        invoice  body      service.InvoiceParams  True  "Create Invoice"
// @Success      200      {object}  InvoiceResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /invoices [post]
// @Security     OAuth2Password
func (controller *InvoiceController) CreateInvoice(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	var body service.InvoiceParams

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.CreateInvoice(c.Request().Context(), companyID, &body)
	if err != nil {
		c.Logger().Errorf("Failed to create invoice: company_id:%v client_id:%v error: %v", companyID, body.ClientID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, invoiceResponse(invoice))
}

// GetInvoices godoc
// @Summary      List invoices
// @Description  Returns the company's invoices, newest first, optionally filtered by status
// @Produce      json
// @Tags         Invoice
// @Param        status  query     string  false  "DRAFT, SENT, APPROVED or PAID"
// @Success      200     {object}  []InvoiceResponse
// @Router       /invoices [get]
// @Security     OAuth2Password
func (controller *InvoiceController) GetInvoices(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)

	invoices, err := controller.svc.InvoicesFor(c.Request().Context(), companyID, c.QueryParam("status"))
	if err != nil {
		return err
	}

	response := make([]*InvoiceResponse, len(invoices))
	for i := range invoices {
		response[i] = invoiceResponse(&invoices[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetInvoice godoc
// @Summary      Get a specific invoice
// @Produce      json
// @Tags         Invoice
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  InvoiceResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /invoices/{id} [get]
// @Security     OAuth2Password
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.FindInvoice(c.Request().Context(), companyID, invoiceID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, invoiceResponse(invoice))
}

// IssueInvoice godoc
// @Summary      Issue a draft invoice
// @Description  Assigns the next sequential invoice number and moves the invoice to SENT
// @Produce      json
// @Tags         Invoice
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  InvoiceResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /invoices/{id}/issue [post]
// @Security     OAuth2Password
func (controller *InvoiceController) IssueInvoice(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.IssueInvoice(c.Request().Context(), companyID, invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to issue invoice: company_id:%v invoice_id:%v error: %v", companyID, invoiceID, err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, invoiceResponse(invoice))
}

// SettleFromTrust godoc
// @Summary      Settle an invoice from trust
// @Description  Pays the full amount due from the client's trust accounts, project funds first
// @Produce      json
// @Tags         Invoice
// @Param        id   path      int  true  "Invoice ID"
// @Success      200  {object}  InvoiceResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /invoices/{id}/settlements/trust [put]
// @Security     OAuth2Password
func (controller *InvoiceController) SettleFromTrust(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.SettleInvoiceFromTrust(c.Request().Context(), companyID, invoiceID)
	if err != nil {
		c.Logger().Errorf("Failed to settle invoice from trust: company_id:%v invoice_id:%v error: %v", companyID, invoiceID, err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, invoiceResponse(invoice))
}

type SettleFromBankRequestBody struct {
	BankAccountID int64 `json:"bank_account_id" validate:"required"`
}

// SettleFromBank godoc
// @Summary      Settle an invoice from a bank payment
// @Description  Pays the full amount due into a bank account, converting currency when they differ
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        id          path      int                        true  "Invoice ID"
// @Param        settlement  body      SettleFromBankRequestBody  True  "Settle"
// @Success      200         {object}  InvoiceResponse
// @Failure      400         {object}  responses.ErrorResponse
// @Failure      404         {object}  responses.ErrorResponse
// @Router       /invoices/{id}/settlements/bank [put]
// @Security     OAuth2Password
func (controller *InvoiceController) SettleFromBank(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body SettleFromBankRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load settle invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.SettleInvoiceFromBank(c.Request().Context(), companyID, invoiceID, body.BankAccountID)
	if err != nil {
		c.Logger().Errorf("Failed to settle invoice from bank: company_id:%v invoice_id:%v error: %v", companyID, invoiceID, err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, invoiceResponse(invoice))
}
