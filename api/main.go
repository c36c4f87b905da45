package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/alerts"
	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
	"github.com/rogerio-castellano/stock-ledger/internal/config"
	"github.com/rogerio-castellano/stock-ledger/internal/db"
	"github.com/rogerio-castellano/stock-ledger/internal/http/ban"
	"github.com/rogerio-castellano/stock-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-ledger/internal/http/router"
	"github.com/rogerio-castellano/stock-ledger/internal/ledger"
	"github.com/rogerio-castellano/stock-ledger/internal/logging"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/redissvc"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
	"github.com/rogerio-castellano/stock-ledger/internal/telemetry"
)

// inMemoryDatabase selects the process-local store instead of Postgres.
const inMemoryDatabase = "memory"

type storage struct {
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	users        repo.UserRepository
	metrics      repo.MetricsRepository
	database     *sql.DB
}

// @title Stock Ledger API
// @version 1.0
// @description REST API for products and their append-only stock ledger.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("❌ Could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Could not build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Could not open storage", zap.Error(err))
	}
	if store.database != nil {
		defer store.database.Close()
	}

	var (
		refreshStore auth.RefreshStore
		publisher    alerts.Publisher
		alertReader  handlers.AlertReader
		guard        *ban.Guard
	)
	rdb, err := redissvc.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("⚠️ Redis unavailable, using in-process refresh tokens and alerts; bans disabled", zap.Error(err))
		memRefresh := auth.NewMemoryRefreshStore()
		go cleanRefreshTokens(ctx, memRefresh, 30*time.Minute)
		memAlerts := alerts.NewMemoryPublisher()
		refreshStore, publisher, alertReader = memRefresh, memAlerts, memAlerts
	} else {
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		redisAlerts := alerts.NewRedisPublisher(rdb, cfg.LowStockAlertKey)
		refreshStore, publisher, alertReader = auth.NewRedisRefreshStore(rdb), redisAlerts, redisAlerts
		guard = ban.NewGuard(rdb, cfg.BanStrikes, cfg.BanDuration, logger)
		go guard.StartDailyBanSummary(ctx, 24*time.Hour)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewLedgerMetrics(reg)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	handlers.SetLogger(logger)
	handlers.SetCatalog(catalog.New(store.products, metrics, logger))
	handlers.SetLedger(ledger.NewEngine(store.products, store.transactions,
		ledger.WithAlerts(publisher),
		ledger.WithMetrics(metrics),
		ledger.WithLogger(logger),
	))
	handlers.SetMetricsRepo(store.metrics)
	handlers.SetUserRepo(store.users)
	handlers.SetAlertReader(alertReader)
	handlers.SetAuth(issuer, refreshStore, cfg.RefreshTTL)

	if err := seedAdmin(ctx, store.users, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatal("❌ Could not seed admin user", zap.Error(err))
	}

	limiter := rl.New(cfg.LoginRateLimit, cfg.LoginRateBurst)
	go limiter.StartCleanupLoop(ctx, 3*time.Minute)

	opts := router.Options{
		Issuer:       issuer,
		LoginLimiter: limiter,
		BanGuard:     guard,
		Logger:       logger,
		Metrics:      telemetry.Handler(reg),
	}
	if store.database != nil {
		opts.Database = store.database
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("✅ Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func openStorage(cfg *config.Config, logger *zap.Logger) (storage, error) {
	if cfg.DatabaseURL == inMemoryDatabase {
		logger.Warn("⚠️ Using in-memory storage; data is lost on restart")
		mem := repo.NewInMemoryStore()
		return storage{
			products:     mem,
			transactions: mem,
			users:        repo.NewInMemoryUserRepository(),
			metrics:      repo.NewInMemoryMetricsRepository(mem, mem),
		}, nil
	}

	repo.SetQueryTimeout(cfg.DBTimeout)
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return storage{}, err
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return storage{}, err
	}
	return storage{
		products:     repo.NewPostgresProductRepository(database),
		transactions: repo.NewPostgresTransactionRepository(database),
		users:        repo.NewPostgresUserRepository(database),
		metrics:      repo.NewPostgresMetricsRepository(database),
		database:     database,
	}, nil
}

func seedAdmin(ctx context.Context, users repo.UserRepository, username, password string) error {
	if password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash, Role: "admin"})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return nil
	}
	return err
}

func cleanRefreshTokens(ctx context.Context, s *auth.MemoryRefreshStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
