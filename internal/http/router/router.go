package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/stock-ledger/docs"
	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	"github.com/rogerio-castellano/stock-ledger/internal/http/ban"
	"github.com/rogerio-castellano/stock-ledger/internal/http/handlers"
	mw "github.com/rogerio-castellano/stock-ledger/internal/http/middleware"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-ledger/internal/logging"
)

type Options struct {
	Issuer       *auth.TokenIssuer
	LoginLimiter *rl.Limiter
	BanGuard     *ban.Guard
	Logger       *zap.Logger

	// Database is probed by /health. Nil reports an in-memory store.
	Database handlers.Pinger

	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler
}

// NewRouter wires the HTTP surface. Handler dependencies are installed
// beforehand through the handlers.Set* functions.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := opts.LoginLimiter
	if limiter == nil {
		limiter = rl.New(1, 3)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", handlers.HealthHandler(opts.Database))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		r.Use(mw.Throttle(limiter, opts.BanGuard, logger))
		r.Post("/login", handlers.LoginHandler)
		r.Post("/refresh", handlers.RefreshHandler)
	})
	r.Post("/logout", handlers.LogoutHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/low-stock", handlers.GetLowStockHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Get("/products/{id}/reconcile", handlers.ReconcileProductHandler)
	r.Get("/products/{id}/transactions/export", handlers.ExportStockTransactionsHandler)
	r.Get("/stock-transactions", handlers.GetStockTransactionsHandler)
	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	r.Get("/alerts/low-stock", handlers.GetLowStockAlertsHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(opts.Issuer))
		r.Post("/products", handlers.CreateProductHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Put("/products/{id}", handlers.UpdateProductHandler)
		r.Post("/stock-transactions", handlers.CreateStockTransactionHandler)

		r.With(mw.RequireRole("admin")).Post("/admin/users", handlers.RegisterAsAdminHandler)
	})

	return r
}
