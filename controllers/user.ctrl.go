package controllers

import (
	"net/http"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// UserController : Add users to an existing company, admin only
type UserController struct {
	svc *service.LedgerService
}

func NewUserController(svc *service.LedgerService) *UserController {
	return &UserController{svc: svc}
}

type CreateUserRequestBody struct {
	CompanyID int64  `json:"company_id" validate:"required"`
	Login     string `json:"login"`
	Password  string `json:"password"`
	Role      string `json:"role" validate:"omitempty,oneof=owner accountant member"`
}

type CreateUserResponseBody struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Create a new user in a company. Login and password are generated when omitted.
// @Accept       json
// @Produce      json
// @Tags         User
// @Param        user  body      CreateUserRequestBody  false  "Create User"
// @Success      200   {object}  CreateUserResponseBody
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      500   {object}  responses.ErrorResponse
// @Router       /admin/users [post]
func (controller *UserController) CreateUser(c echo.Context) error {

	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), body.CompanyID, body.Login, body.Password, body.Role)
	if err != nil {
		c.Logger().Errorf("Failed to create user: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateUserResponseBody{
		ID:       user.ID,
		Login:    user.Login,
		Password: user.Password,
		Role:     user.Role,
	})
}
