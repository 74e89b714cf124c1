package transport

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// identifyCompany stands in for the JWT middleware and puts the tenant on
// the echo context.
func identifyCompany(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		companyID, _ := strconv.ParseInt(c.Request().Header.Get("X-Company"), 10, 64)
		c.Set("CompanyID", companyID)
		return next(c)
	}
}

func TestCachedReportsAreScopedPerCompany(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		companyID := c.Get("CompanyID").(int64)
		return c.String(http.StatusOK, "report-for-"+strconv.FormatInt(companyID, 10))
	}
	e.GET("/reports/trial-balance", handler, identifyCompany, TenantCacheKeyMiddleware(), CreateCacheClient().Middleware())

	fetch := func(company string) string {
		req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance", nil)
		req.Header.Set("X-Company", company)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Body.String()
	}

	assert.Equal(t, "report-for-1", fetch("1"))
	// a second tenant on the same URL within the TTL must not see the
	// first tenant's cached report
	assert.Equal(t, "report-for-2", fetch("2"))
	assert.Equal(t, "report-for-1", fetch("1"))
}

func TestTenantCacheKeyKeepsExistingQueryParams(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, c.QueryParam("start"))
	}
	e.GET("/reports/trial-balance", handler, identifyCompany, TenantCacheKeyMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/reports/trial-balance?start=2026-01-01T00:00:00Z", nil)
	req.Header.Set("X-Company", "7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "2026-01-01T00:00:00Z", rec.Body.String())
}
