package ledger

import (
	"context"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// Reconciliation compares a product's stored quantity with the quantity
// obtained by replaying its ledger from zero.
type Reconciliation struct {
	ProductID        int  `json:"product_id"`
	StockQuantity    int  `json:"stock_quantity"`
	LedgerQuantity   int  `json:"ledger_quantity"`
	TransactionCount int  `json:"transaction_count"`
	Consistent       bool `json:"consistent"`
}

// Replay folds transactions in the given order starting from zero.
func Replay(transactions []models.StockTransaction) int {
	total := 0
	for _, tx := range transactions {
		total += tx.Type.Delta(tx.Quantity)
	}
	return total
}

func (e *Engine) Reconcile(ctx context.Context, productID int) (Reconciliation, error) {
	product, history, err := e.transactions.History(ctx, productID)
	if err != nil {
		return Reconciliation{}, err
	}

	ledgerQuantity := Replay(history)
	return Reconciliation{
		ProductID:        product.ID,
		StockQuantity:    product.StockQuantity,
		LedgerQuantity:   ledgerQuantity,
		TransactionCount: len(history),
		Consistent:       ledgerQuantity == product.StockQuantity,
	}, nil
}
