package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// queryTimeout bounds every statement issued by the Postgres repositories.
var queryTimeout = 3 * time.Second

// SetQueryTimeout overrides the per-call database timeout.
func SetQueryTimeout(d time.Duration) {
	if d > 0 {
		queryTimeout = d
	}
}

const productColumns = `id, name, sku, stock_quantity, threshold, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Sku, &p.StockQuantity, &p.Threshold, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Create inserts the product and, for a positive opening quantity, its
// opening stock_in transaction inside one database transaction.
func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if p.StockQuantity < 0 {
		return models.Product{}, ErrInvalidQuantity
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	query := `INSERT INTO products (name, sku, stock_quantity, threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING ` + productColumns
	created, err := scanProduct(tx.QueryRowContext(ctx, query, p.Name, p.Sku, p.StockQuantity, p.Threshold, now))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Product{}, ErrDuplicateSku
		}
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	if created.StockQuantity > 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO stock_transactions (product_id, type, quantity, created_at) VALUES ($1, $2, $3, $4)`,
			created.ID, string(models.StockIn), created.StockQuantity, now)
		if err != nil {
			return models.Product{}, fmt.Errorf("failed to insert opening transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Product{}, fmt.Errorf("failed to commit product: %w", err)
	}
	return created, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *PostgresProductRepository) GetBySku(ctx context.Context, sku string) (models.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// UpdateDetails never writes stock_quantity.
func (r *PostgresProductRepository) UpdateDetails(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, sku = $2, threshold = $3, updated_at = $4
		WHERE id = $5 RETURNING ` + productColumns
	updated, err := r.queryProduct(ctx, query, p.Name, p.Sku, p.Threshold, time.Now().UTC(), p.ID)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicateSku
	}
	return updated, err
}

func (r *PostgresProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE stock_quantity <= $1 ORDER BY name, id`, threshold)
}

func (r *PostgresProductRepository) queryProduct(ctx context.Context, query string, args ...any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
