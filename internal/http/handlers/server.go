package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/alerts"
	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
	"github.com/rogerio-castellano/stock-ledger/internal/ledger"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

// AlertReader lists the most recent low-stock alerts, oldest first.
type AlertReader interface {
	Recent(ctx context.Context, n int64) ([]alerts.LowStockAlert, error)
}

var (
	productCatalog *catalog.Catalog
	stockLedger    *ledger.Engine
	metricsRepo    repo.MetricsRepository
	userRepo       repo.UserRepository
	alertReader    AlertReader

	tokenIssuer  *auth.TokenIssuer
	refreshStore auth.RefreshStore
	refreshTTL   = 7 * 24 * time.Hour

	logger = zap.NewNop()
)

func SetCatalog(c *catalog.Catalog) {
	productCatalog = c
}

func SetLedger(e *ledger.Engine) {
	stockLedger = e
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetAlertReader(r AlertReader) {
	alertReader = r
}

// SetAuth configures token issuing for login and refresh. ttl is the
// lifetime of refresh tokens.
func SetAuth(issuer *auth.TokenIssuer, store auth.RefreshStore, ttl time.Duration) {
	tokenIssuer = issuer
	refreshStore = store
	refreshTTL = ttl
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
