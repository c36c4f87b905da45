package repo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// Create adds a new product and its opening stock_in transaction.
func (s *InMemoryStore) Create(ctx context.Context, product models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	if product.StockQuantity < 0 || product.StockQuantity > MaxQuantity {
		return models.Product{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.skus[product.Sku]; taken {
		return models.Product{}, ErrDuplicateSku
	}

	now := time.Now().UTC()
	product.ID = s.nextProductID
	s.nextProductID++
	product.CreatedAt = now
	product.UpdatedAt = now

	s.products[product.ID] = product
	s.skus[product.Sku] = product.ID
	s.locks[product.ID] = &sync.Mutex{}

	if product.StockQuantity > 0 {
		s.appendTransaction(models.StockTransaction{
			ProductID: product.ID,
			Type:      models.StockIn,
			Quantity:  product.StockQuantity,
			CreatedAt: now,
		})
	}
	return product, nil
}

// GetAll retrieves all products ordered by name.
func (s *InMemoryStore) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sortByName(products)
	return products, nil
}

// GetByID retrieves a product by its ID.
func (s *InMemoryStore) GetByID(ctx context.Context, id int) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *InMemoryStore) GetBySku(ctx context.Context, sku string) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.skus[sku]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return s.products[id], nil
}

// UpdateDetails changes name, sku and threshold. The stored quantity is kept.
func (s *InMemoryStore) UpdateDetails(ctx context.Context, product models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	if owner, taken := s.skus[product.Sku]; taken && owner != product.ID {
		return models.Product{}, ErrDuplicateSku
	}

	delete(s.skus, current.Sku)
	s.skus[product.Sku] = product.ID

	current.Name = product.Name
	current.Sku = product.Sku
	current.Threshold = product.Threshold
	current.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = current
	return current, nil
}

// LowStock returns products whose quantity is at or below threshold.
func (s *InMemoryStore) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := []models.Product{}
	for _, p := range s.products {
		if p.StockQuantity <= threshold {
			products = append(products, p)
		}
	}
	sortByName(products)
	return products, nil
}

func sortByName(products []models.Product) {
	slices.SortFunc(products, func(a, b models.Product) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
}
