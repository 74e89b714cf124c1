package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// ReportController : Read side of the books
type ReportController struct {
	svc *service.LedgerService
}

func NewReportController(svc *service.LedgerService) *ReportController {
	return &ReportController{svc: svc}
}

// parseDateRange reads optional start/end query params as RFC 3339 dates.
func parseDateRange(c echo.Context) (start, end *time.Time, err error) {
	if raw := c.QueryParam("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if raw := c.QueryParam("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, err
		}
		end = &t
	}
	return start, end, nil
}

// TrialBalance godoc
// @Summary      Trial balance
// @Description  Per-account debit and credit totals over an optional date range, with the double entry integrity check
// @Produce      json
// @Tags         Report
// @Param        start  query     string  false  "RFC 3339 start of range"
// @Param        end    query     string  false  "RFC 3339 end of range"
// @Success      200    {object}  service.TrialBalanceReport
// @Failure      400    {object}  responses.ErrorResponse
// @Router       /reports/trial-balance [get]
// @Security     OAuth2Password
func (controller *ReportController) TrialBalance(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	report, err := controller.svc.TrialBalance(c.Request().Context(), companyID, start, end)
	if err != nil {
		c.Logger().Errorf("Failed to build trial balance: company_id:%v error: %v", companyID, err)
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// AccountLedger godoc
// @Summary      Account ledger
// @Description  Opening balance and dated lines with running balances for one account
// @Produce      json
// @Tags         Report
// @Param        id     path      int     true   "Account ID"
// @Param        start  query     string  false  "RFC 3339 start of range"
// @Param        end    query     string  false  "RFC 3339 end of range"
// @Success      200    {object}  service.AccountLedgerReport
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      404    {object}  responses.ErrorResponse
// @Router       /reports/accounts/{id}/ledger [get]
// @Security     OAuth2Password
func (controller *ReportController) AccountLedger(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	report, err := controller.svc.AccountLedger(c.Request().Context(), companyID, accountID, start, end)
	if err != nil {
		c.Logger().Errorf("Failed to build account ledger: company_id:%v account_id:%v error: %v", companyID, accountID, err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// BankReport godoc
// @Summary      Bank account report
// @Description  A bank account with its movements over an optional date range
// @Produce      json
// @Tags         Report
// @Param        id     path      int     true   "Bank account ID"
// @Param        start  query     string  false  "RFC 3339 start of range"
// @Param        end    query     string  false  "RFC 3339 end of range"
// @Success      200    {object}  service.BankReport
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      404    {object}  responses.ErrorResponse
// @Router       /reports/bank-accounts/{id} [get]
// @Security     OAuth2Password
func (controller *ReportController) BankReport(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	bankAccountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	report, err := controller.svc.BankReport(c.Request().Context(), companyID, bankAccountID, start, end)
	if err != nil {
		c.Logger().Errorf("Failed to build bank report: company_id:%v bank_account_id:%v error: %v", companyID, bankAccountID, err)
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
