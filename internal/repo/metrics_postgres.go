package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM stock_transactions),
			(SELECT COUNT(*) FROM products WHERE stock_quantity <= threshold)
	`).Scan(&m.TotalProducts, &m.TotalTransactions, &m.LowStockCount)
	if err != nil {
		return m, fmt.Errorf("failed to count dashboard totals: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT p.name, COUNT(*) AS cnt
		FROM stock_transactions t
		JOIN products p ON t.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY cnt DESC, p.id
		LIMIT 1
	`).Scan(&m.MostMovedProduct.Name, &m.MostMovedProduct.TransactionCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("failed to find most moved product: %w", err)
	}

	return m, nil
}
