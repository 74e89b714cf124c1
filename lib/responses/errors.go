package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

// NotFoundError doubles as the response for cross-tenant access so that
// requests never learn whether a row exists in another company's books.
var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "not found",
	HttpStatusCode: 404,
}

var UnbalancedTransactionError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Unbalanced transaction",
	HttpStatusCode: 400,
}

var InsufficientTrustBalanceError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Insufficient trust balance",
	HttpStatusCode: 400,
}

var InsufficientFundsError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Insufficient funds",
	HttpStatusCode: 400,
}

var AlreadyPaidError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Invoice is already paid",
	HttpStatusCode: 400,
}

var DraftNotIssuedError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Draft invoice has not been issued",
	HttpStatusCode: 400,
}

var NothingDueError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Nothing due on this invoice",
	HttpStatusCode: 400,
}

var DuplicateAccountCodeError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Account code already exists",
	HttpStatusCode: 400,
}

var AccountInUseError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "Account has posted lines, its type can not be changed",
	HttpStatusCode: 400,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			scope.SetExtra("CompanyID", c.Get("CompanyID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}

// auth failures are expected noise, they don't belong in Sentry
func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	msg, ok := he.Message.(echo.Map)
	if !ok {
		return true
	}
	code, ok := msg["code"].(int)
	if !ok {
		return true
	}
	return code != BadAuthError.Code
}
