package controllers

import (
	"net/http"
	"strconv"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// AccountController : Chart of accounts controller struct
type AccountController struct {
	svc *service.LedgerService
}

func NewAccountController(svc *service.LedgerService) *AccountController {
	return &AccountController{svc: svc}
}

type CreateAccountRequestBody struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

type UpdateAccountRequestBody struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
}

type AccountResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func accountResponse(account *models.Account) AccountResponse {
	return AccountResponse{
		ID:   account.ID,
		Code: account.Code,
		Name: account.Name,
		Type: account.Type,
	}
}

// GetAccounts godoc
// @Summary      List the chart of accounts
// @Description  Returns the company's accounts ordered by code
// @Accept       json
// @Produce      json
// @Tags         Account
// @Success      200  {object}  []AccountResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /accounts [get]
// @Security     OAuth2Password
func (controller *AccountController) GetAccounts(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)

	accounts, err := controller.svc.AccountsFor(c.Request().Context(), companyID)
	if err != nil {
		return err
	}

	response := make([]AccountResponse, len(accounts))
	for i := range accounts {
		response[i] = accountResponse(&accounts[i])
	}
	return c.JSON(http.StatusOK, response)
}

// CreateAccount godoc
// @Summary      Create an account
// @Description  Adds an account to the chart. Codes are unique per company.
// @Accept       json
// @Produce      json
// @Tags         Account
// @Param        account  body      CreateAccountRequestBody  True  "Create Account"
// @Success      200      {object}  AccountResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /accounts [post]
// @Security     OAuth2Password
func (controller *AccountController) CreateAccount(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	var body CreateAccountRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create account request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	account, err := controller.svc.CreateAccount(c.Request().Context(), companyID, body.Code, body.Name, body.Type)
	if err != nil {
		c.Logger().Errorf("Failed to create account: company_id:%v code:%s error: %v", companyID, body.Code, err)
		return errorJSON(c, err)
	}

	response := accountResponse(account)
	return c.JSON(http.StatusOK, &response)
}

// UpdateAccount godoc
// @Summary      Update an account
// @Description  Renames an account. The type can only change while no lines are posted against it.
// @Accept       json
// @Produce      json
// @Tags         Account
// @Param        id       path      int                       true  "Account ID"
// @Param        account  body      UpdateAccountRequestBody  True  "Update Account"
// @Success      200      {object}  AccountResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /accounts/{id} [put]
// @Security     OAuth2Password
func (controller *AccountController) UpdateAccount(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body UpdateAccountRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load update account request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	account, err := controller.svc.UpdateAccount(c.Request().Context(), companyID, accountID, body.Name, body.Type)
	if err != nil {
		c.Logger().Errorf("Failed to update account: company_id:%v account_id:%v error: %v", companyID, accountID, err)
		return errorJSON(c, err)
	}

	response := accountResponse(account)
	return c.JSON(http.StatusOK, &response)
}
