package controllers

import (
	"net/http"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AdvancePaymentController : Client prepayments controller struct
type AdvancePaymentController struct {
	svc *service.LedgerService
}

func NewAdvancePaymentController(svc *service.LedgerService) *AdvancePaymentController {
	return &AdvancePaymentController{svc: svc}
}

type AdvancePaymentResponse struct {
	ID            int64           `json:"id"`
	ClientID      int64           `json:"client_id"`
	ProjectID     int64           `json:"project_id,omitempty"`
	BankAccountID int64           `json:"bank_account_id"`
	AccountType   string          `json:"account_type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Memo          string          `json:"memo,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AddAdvancePayment godoc
// @Summary      Record an advance payment
// @Description  Books a client prepayment into trust or as fee income, credits the bank account and posts the journal entry
// @Accept       json
// @Produce      json
// @Tags         Advance
// @Param        advance  body      service.AdvancePaymentParams  True  "Advance Payment"
// @Success      200      {object}  AdvancePaymentResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /advance-payments [post]
// @Security     OAuth2Password
func (controller *AdvancePaymentController) AddAdvancePayment(c echo.Context) error {
	userID := c.Get("UserID").(int64)
	companyID := c.Get("CompanyID").(int64)
	var body service.AdvancePaymentParams

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load advance payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	advance, err := controller.svc.RecordAdvancePayment(c.Request().Context(), companyID, userID, &body)
	if err != nil {
		c.Logger().Errorf("Failed to record advance payment: company_id:%v client_id:%v error: %v", companyID, body.ClientID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, advanceResponse(advance))
}

// GetAdvancePayments godoc
// @Summary      List advance payments
// @Produce      json
// @Tags         Advance
// @Success      200  {object}  []AdvancePaymentResponse
// @Router       /advance-payments [get]
// @Security     OAuth2Password
func (controller *AdvancePaymentController) GetAdvancePayments(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)

	advances, err := controller.svc.AdvancePaymentsFor(c.Request().Context(), companyID)
	if err != nil {
		return err
	}

	response := make([]*AdvancePaymentResponse, len(advances))
	for i := range advances {
		response[i] = advanceResponse(&advances[i])
	}
	return c.JSON(http.StatusOK, response)
}

func advanceResponse(advance *models.AdvancePayment) *AdvancePaymentResponse {
	return &AdvancePaymentResponse{
		ID:            advance.ID,
		ClientID:      advance.ClientID,
		ProjectID:     advance.ProjectID,
		BankAccountID: advance.BankAccountID,
		AccountType:   advance.AccountType,
		Amount:        advance.Amount,
		Currency:      advance.Currency,
		Memo:          advance.Memo,
		CreatedAt:     advance.CreatedAt,
	}
}
