package repo

import (
	"context"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// TransactionRepository owns the append-only stock ledger.
//
// Apply is the only writer of Product.StockQuantity after creation. It runs
// the read-validate-write sequence for one product as a single critical
// section and makes the ledger row and the new aggregate visible together,
// or not at all.
//
// History returns a product and its full ledger read from one consistent
// snapshot, in ascending id order.
type TransactionRepository interface {
	Apply(ctx context.Context, productID int, txType models.TransactionType, quantity int) (models.StockTransaction, models.Product, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.StockTransaction, int, error)
	History(ctx context.Context, productID int) (models.Product, []models.StockTransaction, error)
}
