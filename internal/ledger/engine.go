// Package ledger is the only writer of product stock. Every change is an
// appended stock transaction; the product's stock_quantity is the running
// sum of its ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/alerts"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
	"github.com/rogerio-castellano/stock-ledger/internal/telemetry"
)

type CreateStockTransactionInput struct {
	ProductID int
	Type      models.TransactionType
	Quantity  int
}

type Engine struct {
	products     repo.ProductRepository
	transactions repo.TransactionRepository
	alerts       alerts.Publisher
	metrics      *telemetry.LedgerMetrics
	logger       *zap.Logger
}

type Option func(*Engine)

// WithAlerts publishes a low-stock alert after each committed stock_out that
// leaves the product at or below its threshold.
func WithAlerts(p alerts.Publisher) Option {
	return func(e *Engine) { e.alerts = p }
}

func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(products repo.ProductRepository, transactions repo.TransactionRepository, opts ...Option) *Engine {
	e := &Engine{
		products:     products,
		transactions: transactions,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateStockTransaction validates the input, checks the product exists and
// applies the movement. Rejected calls leave no ledger row and no aggregate
// change. Errors are returned unchanged for the caller to classify; nothing
// is retried here.
func (e *Engine) CreateStockTransaction(ctx context.Context, in CreateStockTransactionInput) (models.StockTransaction, error) {
	start := time.Now()
	tx, product, err := e.apply(ctx, in)
	e.metrics.ObserveTransaction(string(in.Type), outcome(err), time.Since(start))

	if err != nil {
		e.logRejection(in, err)
		return models.StockTransaction{}, err
	}

	e.logger.Info("✅ stock transaction committed",
		zap.Int("transaction_id", tx.ID),
		zap.Int("product_id", tx.ProductID),
		zap.String("type", string(tx.Type)),
		zap.Int("quantity", tx.Quantity),
		zap.Int("stock_quantity", product.StockQuantity),
	)

	if tx.Type == models.StockOut && product.LowStock() {
		e.alertLowStock(ctx, tx, product)
	}
	return tx, nil
}

func (e *Engine) apply(ctx context.Context, in CreateStockTransactionInput) (models.StockTransaction, models.Product, error) {
	if !in.Type.Valid() {
		return models.StockTransaction{}, models.Product{}, repo.ErrInvalidTransactionType
	}
	if in.Quantity <= 0 || in.Quantity > repo.MaxQuantity {
		return models.StockTransaction{}, models.Product{}, repo.ErrInvalidQuantity
	}
	if _, err := e.products.GetByID(ctx, in.ProductID); err != nil {
		return models.StockTransaction{}, models.Product{}, err
	}
	return e.transactions.Apply(ctx, in.ProductID, in.Type, in.Quantity)
}

func (e *Engine) logRejection(in CreateStockTransactionInput, err error) {
	fields := []zap.Field{
		zap.Int("product_id", in.ProductID),
		zap.String("type", string(in.Type)),
		zap.Int("quantity", in.Quantity),
		zap.Error(err),
	}
	if outcome(err) == telemetry.OutcomeFailed {
		e.logger.Error("❌ stock transaction failed", fields...)
		return
	}
	e.logger.Info("stock transaction rejected", fields...)
}

// alertLowStock runs after commit. A publishing failure is logged and never
// affects the committed transaction.
func (e *Engine) alertLowStock(ctx context.Context, tx models.StockTransaction, product models.Product) {
	e.logger.Warn("⚠️ product at or below threshold",
		zap.Int("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock_quantity", product.StockQuantity),
		zap.Int("threshold", product.Threshold),
	)
	if e.alerts == nil {
		return
	}

	err := e.alerts.PublishLowStock(context.WithoutCancel(ctx), alerts.LowStockAlert{
		ProductID:     product.ID,
		Name:          product.Name,
		Sku:           product.Sku,
		StockQuantity: product.StockQuantity,
		Threshold:     product.Threshold,
		TransactionID: tx.ID,
		Time:          tx.CreatedAt,
	})
	if err != nil {
		e.logger.Error("❌ failed to publish low stock alert", zap.Int("product_id", product.ID), zap.Error(err))
	}
}

// GetStockTransactions lists ledger entries in ascending id order together
// with the total number of entries matching the filter.
func (e *Engine) GetStockTransactions(ctx context.Context, filter repo.TransactionFilter) ([]models.StockTransaction, int, error) {
	if filter.ProductID != nil {
		if _, err := e.products.GetByID(ctx, *filter.ProductID); err != nil {
			return nil, 0, err
		}
	}
	return e.transactions.List(ctx, filter)
}

// GetLowStock returns products with stock_quantity <= threshold, ordered by name.
func (e *Engine) GetLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must be zero or positive", repo.ErrInvalidQuantity)
	}
	return e.products.LowStock(ctx, threshold)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeCommitted
	case errors.Is(err, repo.ErrInsufficientStock):
		return telemetry.OutcomeInsufficient
	case errors.Is(err, repo.ErrProductNotFound):
		return telemetry.OutcomeNotFound
	case errors.Is(err, repo.ErrInvalidQuantity), errors.Is(err, repo.ErrInvalidTransactionType):
		return telemetry.OutcomeInvalid
	default:
		return telemetry.OutcomeFailed
	}
}
