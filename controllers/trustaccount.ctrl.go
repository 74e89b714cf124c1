package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// TrustAccountController : Client trust ledger controller struct
type TrustAccountController struct {
	svc *service.LedgerService
}

func NewTrustAccountController(svc *service.LedgerService) *TrustAccountController {
	return &TrustAccountController{svc: svc}
}

type TrustAccountResponse struct {
	ID        int64           `json:"id"`
	ClientID  int64           `json:"client_id"`
	ProjectID int64           `json:"project_id,omitempty"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}

type TrustTransactionRequestBody struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	InvoiceID   int64           `json:"invoice_id"`
}

type TrustTransactionResponse struct {
	ID             int64           `json:"id"`
	TrustAccountID int64           `json:"trust_account_id"`
	InvoiceID      int64           `json:"invoice_id,omitempty"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// GetTrustAccounts godoc
// @Summary      List trust accounts
// @Description  Returns the trust accounts of a client, optionally filtered by currency
// @Accept       json
// @Produce      json
// @Tags         Trust
// @Param        client_id  query     int     true   "Client ID"
// @Param        currency   query     string  false  "ISO currency code"
// @Success      200        {object}  []TrustAccountResponse
// @Failure      400        {object}  responses.ErrorResponse
// @Router       /trust-accounts [get]
// @Security     OAuth2Password
func (controller *TrustAccountController) GetTrustAccounts(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	clientID, err := strconv.ParseInt(c.QueryParam("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	accounts, err := controller.svc.TrustAccountsFor(c.Request().Context(), companyID, clientID, c.QueryParam("currency"))
	if err != nil {
		return err
	}

	response := make([]TrustAccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = TrustAccountResponse{
			ID:        account.ID,
			ClientID:  account.ClientID,
			ProjectID: account.ProjectID,
			Currency:  account.Currency,
			Balance:   account.Balance,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// CreditTrust godoc
// @Summary      Deposit client funds
// @Description  Credits a trust account and records the movement
// @Accept       json
// @Produce      json
// @Tags         Trust
// @Param        id           path      int                          true  "Trust account ID"
// @Param        transaction  body      TrustTransactionRequestBody  True  "Credit"
// @Success      200          {object}  TrustTransactionResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      404          {object}  responses.ErrorResponse
// @Router       /trust-accounts/{id}/credit [post]
// @Security     OAuth2Password
func (controller *TrustAccountController) CreditTrust(c echo.Context) error {
	return controller.applyTrustTransaction(c, controller.svc.CreditTrust)
}

// DebitTrust godoc
// @Summary      Consume client funds
// @Description  Debits a trust account. Fails when the balance can not cover the amount.
// @Accept       json
// @Produce      json
// @Tags         Trust
// @Param        id           path      int                          true  "Trust account ID"
// @Param        transaction  body      TrustTransactionRequestBody  True  "Debit"
// @Success      200          {object}  TrustTransactionResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      404          {object}  responses.ErrorResponse
// @Router       /trust-accounts/{id}/debit [post]
// @Security     OAuth2Password
func (controller *TrustAccountController) DebitTrust(c echo.Context) error {
	return controller.applyTrustTransaction(c, controller.svc.DebitTrust)
}

type trustTransactionFunc = func(ctx context.Context, companyID, trustAccountID int64, amount decimal.Decimal, description string, invoiceID int64) (*models.TrustTransaction, error)

func (controller *TrustAccountController) applyTrustTransaction(c echo.Context, apply trustTransactionFunc) error {
	companyID := c.Get("CompanyID").(int64)
	trustAccountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body TrustTransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load trust transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	trustTx, err := apply(c.Request().Context(), companyID, trustAccountID, body.Amount, body.Description, body.InvoiceID)
	if err != nil {
		c.Logger().Errorf("Failed trust transaction: company_id:%v trust_account_id:%v error: %v", companyID, trustAccountID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &TrustTransactionResponse{
		ID:             trustTx.ID,
		TrustAccountID: trustTx.TrustAccountID,
		InvoiceID:      trustTx.InvoiceID,
		Type:           trustTx.Type,
		Amount:         trustTx.Amount,
		Description:    trustTx.Description,
		CreatedAt:      trustTx.CreatedAt,
	})
}

// GetTrustTransactions godoc
// @Summary      List trust account movements
// @Produce      json
// @Tags         Trust
// @Param        id   path      int  true  "Trust account ID"
// @Success      200  {object}  []TrustTransactionResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /trust-accounts/{id}/transactions [get]
// @Security     OAuth2Password
func (controller *TrustAccountController) GetTrustTransactions(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	trustAccountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	transactions, err := controller.svc.TrustTransactionsFor(c.Request().Context(), companyID, trustAccountID)
	if err != nil {
		return errorJSON(c, err)
	}

	response := make([]TrustTransactionResponse, len(transactions))
	for i, trustTx := range transactions {
		response[i] = TrustTransactionResponse{
			ID:             trustTx.ID,
			TrustAccountID: trustTx.TrustAccountID,
			InvoiceID:      trustTx.InvoiceID,
			Type:           trustTx.Type,
			Amount:         trustTx.Amount,
			Description:    trustTx.Description,
			CreatedAt:      trustTx.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteTrustTransaction godoc
// @Summary      Reverse a trust movement
// @Description  Removes a trust transaction and rolls its amount back into the balance
// @Produce      json
// @Tags         Trust
// @Param        id   path      int  true  "Trust transaction ID"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /trust-transactions/{id} [delete]
// @Security     OAuth2Password
func (controller *TrustAccountController) DeleteTrustTransaction(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	trustTransactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.DeleteTrustTransaction(c.Request().Context(), companyID, trustTransactionID); err != nil {
		c.Logger().Errorf("Failed to delete trust transaction: company_id:%v trust_transaction_id:%v error: %v", companyID, trustTransactionID, err)
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
