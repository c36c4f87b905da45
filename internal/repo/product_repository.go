package repo

import (
	"context"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// ProductRepository defines the interface for product data operations.
//
// Create records product.StockQuantity as an opening stock_in transaction in
// the same unit of work as the product row. UpdateDetails only changes
// metadata; stock moves exclusively through TransactionRepository.Apply.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetBySku(ctx context.Context, sku string) (models.Product, error)
	UpdateDetails(ctx context.Context, product models.Product) (models.Product, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}
