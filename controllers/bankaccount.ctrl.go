package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BankAccountController : Operating bank accounts controller struct
type BankAccountController struct {
	svc *service.LedgerService
}

func NewBankAccountController(svc *service.LedgerService) *BankAccountController {
	return &BankAccountController{svc: svc}
}

type CreateBankAccountRequestBody struct {
	Name     string `json:"name" validate:"required"`
	Currency string `json:"currency" validate:"required"`
}

type BankAccountResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type BankTransactionRequestBody struct {
	Type        string          `json:"type" validate:"required,oneof=CREDIT DEBIT"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type BankTransactionResponse struct {
	ID            int64           `json:"id"`
	BankAccountID int64           `json:"bank_account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// GetBankAccounts godoc
// @Summary      List bank accounts
// @Produce      json
// @Tags         Bank
// @Success      200  {object}  []BankAccountResponse
// @Router       /bank-accounts [get]
// @Security     OAuth2Password
func (controller *BankAccountController) GetBankAccounts(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)

	accounts, err := controller.svc.BankAccountsFor(c.Request().Context(), companyID)
	if err != nil {
		return err
	}

	response := make([]BankAccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = BankAccountResponse{
			ID:       account.ID,
			Name:     account.Name,
			Currency: account.Currency,
			Balance:  account.Balance,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// CreateBankAccount godoc
// @Summary      Create a bank account
// @Accept       json
// @Produce      json
// @Tags         Bank
// @Param        account  body      CreateBankAccountRequestBody  True  "Create Bank Account"
// @Success      200      {object}  BankAccountResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /bank-accounts [post]
// @Security     OAuth2Password
func (controller *BankAccountController) CreateBankAccount(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	var body CreateBankAccountRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create bank account request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	account, err := controller.svc.CreateBankAccount(c.Request().Context(), companyID, body.Name, body.Currency)
	if err != nil {
		c.Logger().Errorf("Failed to create bank account: company_id:%v error: %v", companyID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &BankAccountResponse{
		ID:       account.ID,
		Name:     account.Name,
		Currency: account.Currency,
		Balance:  account.Balance,
	})
}

// RecordBankTransaction godoc
// @Summary      Record a bank movement
// @Description  Credits or debits a bank account outside the invoice flow, e.g. fees or manual corrections
// @Accept       json
// @Produce      json
// @Tags         Bank
// @Param        id           path      int                         true  "Bank account ID"
// @Param        transaction  body      BankTransactionRequestBody  True  "Record Transaction"
// @Success      200          {object}  BankTransactionResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      404          {object}  responses.ErrorResponse
// @Router       /bank-accounts/{id}/transactions [post]
// @Security     OAuth2Password
func (controller *BankAccountController) RecordBankTransaction(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	bankAccountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body BankTransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load bank transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	bankTx, err := controller.svc.RecordBankTransaction(c.Request().Context(), companyID, bankAccountID, body.Type, body.Amount, body.Description)
	if err != nil {
		c.Logger().Errorf("Failed to record bank transaction: company_id:%v bank_account_id:%v error: %v", companyID, bankAccountID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &BankTransactionResponse{
		ID:            bankTx.ID,
		BankAccountID: bankTx.BankAccountID,
		Type:          bankTx.Type,
		Amount:        bankTx.Amount,
		Description:   bankTx.Description,
		CreatedAt:     bankTx.CreatedAt,
	})
}
