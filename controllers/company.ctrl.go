package controllers

import (
	"net/http"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// CompanyController : Tenant bootstrap, admin only
type CompanyController struct {
	svc *service.LedgerService
}

func NewCompanyController(svc *service.LedgerService) *CompanyController {
	return &CompanyController{svc: svc}
}

type CreateCompanyRequestBody struct {
	Name     string `json:"name" validate:"required"`
	Currency string `json:"currency"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type CreateCompanyResponseBody struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateCompany godoc
// @Summary      Create a company
// @Description  Creates a new company with its owner user and default chart of accounts
// @Accept       json
// @Produce      json
// @Tags         Company
// @Param        company  body      CreateCompanyRequestBody  True  "Create Company"
// @Success      200      {object}  CreateCompanyResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /admin/companies [post]
func (controller *CompanyController) CreateCompany(c echo.Context) error {
	var body CreateCompanyRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create company request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create company request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	company, owner, err := controller.svc.CreateCompany(c.Request().Context(), body.Name, body.Currency, body.Login, body.Password)
	if err != nil {
		// duplicate login, weak password, bad currency code
		c.Logger().Errorf("Failed to create company: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateCompanyResponseBody{
		ID:       company.ID,
		Name:     company.Name,
		Currency: company.Currency,
		Login:    owner.Login,
		Password: owner.Password,
	})
}
