// Package catalog owns product identity and metadata. It never changes stock
// after creation; see package ledger.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
	"github.com/rogerio-castellano/stock-ledger/internal/telemetry"
)

type NewProduct struct {
	Name            string
	Sku             string
	InitialQuantity int
	Threshold       int
}

type ProductDetails struct {
	Name      string
	Sku       string
	Threshold int
}

type Catalog struct {
	products repo.ProductRepository
	metrics  *telemetry.LedgerMetrics
	logger   *zap.Logger
}

func New(products repo.ProductRepository, metrics *telemetry.LedgerMetrics, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{products: products, metrics: metrics, logger: logger}
}

// CreateProduct registers a product. A positive InitialQuantity is stored as
// the product's opening stock_in transaction.
func (c *Catalog) CreateProduct(ctx context.Context, in NewProduct) (models.Product, error) {
	name, sku := strings.TrimSpace(in.Name), strings.TrimSpace(in.Sku)
	if err := validateDetails(name, sku, in.Threshold); err != nil {
		return models.Product{}, err
	}
	if in.InitialQuantity < 0 {
		return models.Product{}, fmt.Errorf("%w: initial quantity cannot be negative", repo.ErrInvalidQuantity)
	}
	if in.InitialQuantity > repo.MaxQuantity {
		return models.Product{}, fmt.Errorf("%w: initial quantity cannot exceed %d", repo.ErrInvalidQuantity, repo.MaxQuantity)
	}

	created, err := c.products.Create(ctx, models.Product{
		Name:          name,
		Sku:           sku,
		StockQuantity: in.InitialQuantity,
		Threshold:     in.Threshold,
	})
	if err != nil {
		return models.Product{}, err
	}

	c.metrics.ProductCreated()
	c.logger.Info("📦 product created",
		zap.Int("product_id", created.ID),
		zap.String("sku", created.Sku),
		zap.Int("stock_quantity", created.StockQuantity),
	)
	return created, nil
}

func (c *Catalog) GetProducts(ctx context.Context) ([]models.Product, error) {
	return c.products.GetAll(ctx)
}

func (c *Catalog) GetProduct(ctx context.Context, id int) (models.Product, error) {
	return c.products.GetByID(ctx, id)
}

// UpdateProduct changes name, sku and threshold. Stock is left untouched.
func (c *Catalog) UpdateProduct(ctx context.Context, id int, in ProductDetails) (models.Product, error) {
	name, sku := strings.TrimSpace(in.Name), strings.TrimSpace(in.Sku)
	if err := validateDetails(name, sku, in.Threshold); err != nil {
		return models.Product{}, err
	}
	return c.products.UpdateDetails(ctx, models.Product{
		ID:        id,
		Name:      name,
		Sku:       sku,
		Threshold: in.Threshold,
	})
}

func validateDetails(name, sku string, threshold int) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", repo.ErrInvalidProduct)
	case sku == "":
		return fmt.Errorf("%w: sku is required", repo.ErrInvalidProduct)
	case threshold < 0:
		return fmt.Errorf("%w: threshold cannot be negative", repo.ErrInvalidProduct)
	case threshold > repo.MaxQuantity:
		return fmt.Errorf("%w: threshold cannot exceed %d", repo.ErrInvalidProduct, repo.MaxQuantity)
	}
	return nil
}
