package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

func validateTransaction(txType models.TransactionType, quantity int) error {
	if !txType.Valid() {
		return ErrInvalidTransactionType
	}
	if quantity <= 0 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

func (s *InMemoryStore) productLock(productID int) (*sync.Mutex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lock, ok := s.locks[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	return lock, nil
}

// Apply records a stock transaction and moves the product's quantity.
func (s *InMemoryStore) Apply(ctx context.Context, productID int, txType models.TransactionType, quantity int) (models.StockTransaction, models.Product, error) {
	if err := validateTransaction(txType, quantity); err != nil {
		return models.StockTransaction{}, models.Product{}, err
	}

	lock, err := s.productLock(productID)
	if err != nil {
		return models.StockTransaction{}, models.Product{}, err
	}
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return models.StockTransaction{}, models.Product{}, err
	}

	// The per-product lock keeps StockQuantity stable until publish. Metadata
	// may still change under mu, so only the quantity is read here.
	s.mu.RLock()
	stock := s.products[productID].StockQuantity
	hook := s.commitHook
	s.mu.RUnlock()

	candidate := stock + txType.Delta(quantity)
	if candidate < 0 {
		return models.StockTransaction{}, models.Product{}, ErrInsufficientStock
	}
	if candidate > MaxQuantity {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("%w: stock would exceed %d", ErrInvalidQuantity, MaxQuantity)
	}

	if hook != nil {
		if err := hook(); err != nil {
			return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to commit stock transaction: %w", err)
		}
	}

	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.appendTransaction(models.StockTransaction{
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
		CreatedAt: now,
	})
	product := s.products[productID]
	product.StockQuantity = candidate
	product.UpdatedAt = now
	s.products[productID] = product

	return tx, product, nil
}

// List returns ledger entries in ascending id order, optionally filtered by
// product and date range and paginated.
func (s *InMemoryStore) List(ctx context.Context, f TransactionFilter) ([]models.StockTransaction, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if f.Offset != nil && *f.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := []models.StockTransaction{}
	for _, tx := range s.transactions {
		if f.ProductID != nil && tx.ProductID != *f.ProductID {
			continue
		}
		if (f.Since != nil && tx.CreatedAt.Before(*f.Since)) ||
			(f.Until != nil && tx.CreatedAt.After(*f.Until)) {
			continue
		}
		filtered = append(filtered, tx)
	}

	page := paginate(filtered, f.Offset, f.Limit)
	out := make([]models.StockTransaction, len(page))
	copy(out, page)
	return out, len(filtered), nil
}

func (s *InMemoryStore) History(ctx context.Context, productID int) (models.Product, []models.StockTransaction, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return models.Product{}, nil, ErrProductNotFound
	}

	history := []models.StockTransaction{}
	for _, tx := range s.transactions {
		if tx.ProductID == productID {
			history = append(history, tx)
		}
	}
	return product, history, nil
}
