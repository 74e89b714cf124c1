package transport

import (
	"github.com/firmbooks/firmbooks/controllers"
	"github.com/firmbooks/firmbooks/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(svc *service.LedgerService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	e.POST("/auth", controllers.NewAuthController(svc).Auth, strictRateLimitMiddleware)
	e.GET("/health", controllers.NewHealthController().Check)

	if svc.Config.AllowCompanyCreation {
		e.POST("/admin/companies", controllers.NewCompanyController(svc).CreateCompany, strictRateLimitMiddleware, adminMw, logMw)
	}
	if svc.Config.AdminToken != "" {
		e.POST("/admin/users", controllers.NewUserController(svc).CreateUser, strictRateLimitMiddleware, adminMw)
	}

	accountCtrl := controllers.NewAccountController(svc)
	secured.GET("/accounts", accountCtrl.GetAccounts)
	secured.POST("/accounts", accountCtrl.CreateAccount)
	secured.PUT("/accounts/:id", accountCtrl.UpdateAccount)

	clientCtrl := controllers.NewClientController(svc)
	secured.GET("/clients", clientCtrl.GetClients)
	secured.POST("/clients", clientCtrl.CreateClient)
	secured.POST("/clients/:id/projects", clientCtrl.CreateProject)

	transactionCtrl := controllers.NewTransactionController(svc)
	securedWithStrictRateLimit.POST("/transactions", transactionCtrl.PostTransaction)
	securedWithStrictRateLimit.DELETE("/transactions/:id", transactionCtrl.DeleteTransaction)

	trustCtrl := controllers.NewTrustAccountController(svc)
	secured.GET("/trust-accounts", trustCtrl.GetTrustAccounts)
	secured.GET("/trust-accounts/:id/transactions", trustCtrl.GetTrustTransactions)
	securedWithStrictRateLimit.POST("/trust-accounts/:id/credit", trustCtrl.CreditTrust)
	securedWithStrictRateLimit.POST("/trust-accounts/:id/debit", trustCtrl.DebitTrust)
	securedWithStrictRateLimit.DELETE("/trust-transactions/:id", trustCtrl.DeleteTrustTransaction)

	advanceCtrl := controllers.NewAdvancePaymentController(svc)
	secured.GET("/advance-payments", advanceCtrl.GetAdvancePayments)
	securedWithStrictRateLimit.POST("/advance-payments", advanceCtrl.AddAdvancePayment)

	invoiceCtrl := controllers.NewInvoiceController(svc)
	secured.POST("/invoices", invoiceCtrl.CreateInvoice)
	secured.GET("/invoices", invoiceCtrl.GetInvoices)
	secured.GET("/invoices/:id", invoiceCtrl.GetInvoice)
	secured.POST("/invoices/:id/issue", invoiceCtrl.IssueInvoice)
	// settlements move money, they get the strict limiter
	securedWithStrictRateLimit.PUT("/invoices/:id/settlements/trust", invoiceCtrl.SettleFromTrust)
	securedWithStrictRateLimit.PUT("/invoices/:id/settlements/bank", invoiceCtrl.SettleFromBank)

	bankCtrl := controllers.NewBankAccountController(svc)
	secured.GET("/bank-accounts", bankCtrl.GetBankAccounts)
	secured.POST("/bank-accounts", bankCtrl.CreateBankAccount)
	securedWithStrictRateLimit.POST("/bank-accounts/:id/transactions", bankCtrl.RecordBankTransaction)
}

// RegisterReportEndpoints wires the read-only report routes, optionally
// behind the response cache.
func RegisterReportEndpoints(svc *service.LedgerService, secured *echo.Group, cacheMw echo.MiddlewareFunc) {
	reportCtrl := controllers.NewReportController(svc)
	mws := []echo.MiddlewareFunc{}
	if cacheMw != nil {
		// cache keys are URL-based, scope them to the tenant first
		mws = append(mws, TenantCacheKeyMiddleware(), cacheMw)
	}
	secured.GET("/reports/trial-balance", reportCtrl.TrialBalance, mws...)
	secured.GET("/reports/accounts/:id/ledger", reportCtrl.AccountLedger, mws...)
	secured.GET("/reports/bank-accounts/:id", reportCtrl.BankReport, mws...)
}
