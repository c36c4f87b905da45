package repo

import "context"

// InMemoryMetricsRepository derives dashboard metrics from the product and
// transaction repositories it is given.
type InMemoryMetricsRepository struct {
	productRepo     ProductRepository
	transactionRepo TransactionRepository
}

func NewInMemoryMetricsRepository(productRepo ProductRepository, transactionRepo TransactionRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
	}
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)

	// Ties go to the lowest product id, as in the Postgres query.
	mostMovedID := 0
	for _, product := range products {
		id := product.ID
		_, count, err := i.transactionRepo.List(ctx, TransactionFilter{ProductID: &id})
		if err != nil {
			return m, err
		}
		m.TotalTransactions += count
		best := m.MostMovedProduct.TransactionCount
		if count > 0 && (count > best || (count == best && product.ID < mostMovedID)) {
			mostMovedID = product.ID
			m.MostMovedProduct.Name = product.Name
			m.MostMovedProduct.TransactionCount = count
		}
		if product.LowStock() {
			m.LowStockCount++
		}
	}

	return m, nil
}
