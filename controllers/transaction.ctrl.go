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

// TransactionController : Double entry journal controller struct
type TransactionController struct {
	svc *service.LedgerService
}

func NewTransactionController(svc *service.LedgerService) *TransactionController {
	return &TransactionController{svc: svc}
}

type PostTransactionRequestBody struct {
	Memo  string               `json:"memo"`
	Date  time.Time            `json:"date"`
	Lines []service.LineParams `json:"lines" validate:"required,min=2,dive"`
}

type TransactionLineResponse struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Currency  string          `json:"currency"`
}

type TransactionResponse struct {
	ID    int64                     `json:"id"`
	Memo  string                    `json:"memo"`
	Date  time.Time                 `json:"date"`
	Lines []TransactionLineResponse `json:"lines"`
}

// PostTransaction godoc
// @Summary      Post a journal entry
// @Description  Posts a balanced double entry transaction. Every line is one sided and totals must match.
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        transaction  body      PostTransactionRequestBody  True  "Post Transaction"
// @Success      201          {object}  TransactionResponse
// @Failure      400          {object}  responses.ErrorResponse
// @Failure      500          {object}  responses.ErrorResponse
// @Router       /transactions [post]
// @Security     OAuth2Password
func (controller *TransactionController) PostTransaction(c echo.Context) error {
	userID := c.Get("UserID").(int64)
	companyID := c.Get("CompanyID").(int64)
	var body PostTransactionRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load post transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	transaction, err := controller.svc.PostTransaction(c.Request().Context(), companyID, body.Memo, body.Date, userID, body.Lines)
	if err != nil {
		c.Logger().Errorf("Failed to post transaction: company_id:%v error: %v", companyID, err)
		return errorJSON(c, err)
	}

	response := TransactionResponse{
		ID:    transaction.ID,
		Memo:  transaction.Memo,
		Date:  transaction.Date,
		Lines: make([]TransactionLineResponse, len(transaction.Lines)),
	}
	for i, line := range transaction.Lines {
		response.Lines[i] = TransactionLineResponse{
			ID:        line.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Currency:  line.Currency,
		}
	}
	return c.JSON(http.StatusCreated, &response)
}

// DeleteTransaction godoc
// @Summary      Delete a journal entry
// @Description  Removes a posted transaction with all its lines
// @Produce      json
// @Tags         Transaction
// @Param        id   path      int  true  "Transaction ID"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /transactions/{id} [delete]
// @Security     OAuth2Password
func (controller *TransactionController) DeleteTransaction(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	if err := controller.svc.DeleteTransaction(c.Request().Context(), companyID, transactionID); err != nil {
		c.Logger().Errorf("Failed to delete transaction: company_id:%v transaction_id:%v error: %v", companyID, transactionID, err)
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
