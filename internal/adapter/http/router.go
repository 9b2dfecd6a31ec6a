package http

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Health    *Handler
	Customers *CustomerHandler
	Loans     *LoanHandler
	Payments  *PaymentHandler

	// Write is applied to every POST route, e.g. the idempotency middleware.
	Write []echo.MiddlewareFunc
}

func isOpsPath(path string) bool {
	return path == "/health" || path == "/ready" || path == "/metrics"
}

// Register mounts the API. Resource paths are canonicalised to a trailing
// slash before routing, so "/loans" and "/loans/" both resolve.
func (r Router) Register(e *echo.Echo) {
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return isOpsPath(strings.TrimSuffix(c.Request().URL.Path, "/"))
		},
	}))

	e.GET("/health", r.Health.Health)
	e.GET("/ready", r.Health.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	customers := e.Group("/customers")
	customers.POST("/", r.Customers.CreateCustomer, r.Write...)
	customers.GET("/:customer_id/", r.Customers.GetCustomer)
	customers.GET("/:customer_id/overview/", r.Loans.CustomerOverview)

	loans := e.Group("/loans")
	loans.POST("/", r.Loans.CreateLoan, r.Write...)
	loans.GET("/:loan_id/", r.Loans.GetLoan)
	loans.POST("/:loan_id/payments/", r.Payments.RecordPayment, r.Write...)
	loans.GET("/:loan_id/ledger/", r.Loans.Ledger)
	loans.GET("/:loan_id/ledger/export/", r.Loans.ExportLedger)
}
