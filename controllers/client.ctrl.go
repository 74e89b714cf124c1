package controllers

import (
	"net/http"
	"strconv"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// ClientController : Clients and their projects
type ClientController struct {
	svc *service.LedgerService
}

func NewClientController(svc *service.LedgerService) *ClientController {
	return &ClientController{svc: svc}
}

type CreateClientRequestBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ClientResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CreateProjectRequestBody struct {
	Name string `json:"name" validate:"required"`
}

type ProjectResponse struct {
	ID       int64  `json:"id"`
	ClientID int64  `json:"client_id"`
	Name     string `json:"name"`
}

func (controller *ClientController) GetClients(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)

	clients, err := controller.svc.ClientsFor(c.Request().Context(), companyID)
	if err != nil {
		return err
	}

	response := make([]ClientResponse, len(clients))
	for i, client := range clients {
		response[i] = ClientResponse{ID: client.ID, Name: client.Name, Email: client.Email}
	}
	return c.JSON(http.StatusOK, response)
}

func (controller *ClientController) CreateClient(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	var body CreateClientRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create client request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	client, err := controller.svc.CreateClient(c.Request().Context(), companyID, body.Name, body.Email)
	if err != nil {
		c.Logger().Errorf("Failed to create client: company_id:%v error: %v", companyID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &ClientResponse{ID: client.ID, Name: client.Name, Email: client.Email})
}

func (controller *ClientController) CreateProject(c echo.Context) error {
	companyID := c.Get("CompanyID").(int64)
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body CreateProjectRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create project request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	project, err := controller.svc.CreateProject(c.Request().Context(), companyID, clientID, body.Name)
	if err != nil {
		c.Logger().Errorf("Failed to create project: company_id:%v client_id:%v error: %v", companyID, clientID, err)
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, &ProjectResponse{ID: project.ID, ClientID: project.ClientID, Name: project.Name})
}
