package controllers

import (
	"errors"
	"net/http"

	"github.com/firmbooks/firmbooks/lib/responses"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

// errorJSON maps service sentinel errors onto their HTTP responses so every
// controller reports a given condition the same way.
func errorJSON(c echo.Context, err error) error {
	var response responses.ErrorResponse
	switch {
	case errors.Is(err, service.ErrNotFound):
		response = responses.NotFoundError
	case errors.Is(err, service.ErrUnbalancedTransaction):
		response = responses.UnbalancedTransactionError
	case errors.Is(err, service.ErrInsufficientTrust):
		response = responses.InsufficientTrustBalanceError
	case errors.Is(err, service.ErrInsufficientFunds):
		response = responses.InsufficientFundsError
	case errors.Is(err, service.ErrAlreadyPaid):
		response = responses.AlreadyPaidError
	case errors.Is(err, service.ErrDraftNotIssued):
		response = responses.DraftNotIssuedError
	case errors.Is(err, service.ErrNothingDue):
		response = responses.NothingDueError
	case errors.Is(err, service.ErrDuplicateAccountCode):
		response = responses.DuplicateAccountCodeError
	case errors.Is(err, service.ErrAccountInUse):
		response = responses.AccountInUseError
	case errors.Is(err, service.ErrInvalidLine),
		errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrCurrencyMismatch),
		errors.Is(err, service.ErrAlreadyIssued):
		response = responses.BadArgumentsError
	default:
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(response.HttpStatusCode, response)
}
