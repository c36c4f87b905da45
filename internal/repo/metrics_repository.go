package repo

import "context"

type MostMovedProduct struct {
	Name             string `json:"name"`
	TransactionCount int    `json:"transaction_count"`
}

type Metrics struct {
	TotalProducts     int              `json:"total_products"`
	TotalTransactions int              `json:"total_transactions"`
	LowStockCount     int              `json:"low_stock_count"`
	MostMovedProduct  MostMovedProduct `json:"most_moved_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
