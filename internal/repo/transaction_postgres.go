package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

const transactionColumns = `id, product_id, type, quantity, created_at`

func scanTransaction(row rowScanner) (models.StockTransaction, error) {
	var st models.StockTransaction
	var storedType string
	if err := row.Scan(&st.ID, &st.ProductID, &storedType, &st.Quantity, &st.CreatedAt); err != nil {
		return models.StockTransaction{}, err
	}
	st.Type = models.TransactionType(storedType)
	return st, nil
}

type PostgresTransactionRepository struct {
	db *sql.DB

	commitHook func(tx *sql.Tx) error
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

// SetCommitHook installs a function that runs between the aggregate update
// and the ledger insert. A non-nil error rolls the whole write back.
func (r *PostgresTransactionRepository) SetCommitHook(hook func(tx *sql.Tx) error) {
	r.commitHook = hook
}

// Apply moves stock with a conditional UPDATE that only matches while the
// result stays non-negative. The row lock it takes is held until commit, so
// concurrent writers on the same product serialize and ledger ids follow the
// commit order. The ledger insert shares the same database transaction.
func (r *PostgresTransactionRepository) Apply(ctx context.Context, productID int, txType models.TransactionType, quantity int) (models.StockTransaction, models.Product, error) {
	if err := validateTransaction(txType, quantity); err != nil {
		return models.StockTransaction{}, models.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = $2
		WHERE id = $3 AND stock_quantity + $1 >= 0
		RETURNING ` + productColumns
	product, err := scanProduct(tx.QueryRowContext(ctx, query, txType.Delta(quantity), now, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StockTransaction{}, models.Product{}, r.rejection(ctx, tx, productID)
	}
	if isOutOfRange(err) {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("%w: stock would exceed %d", ErrInvalidQuantity, MaxQuantity)
	}
	if err != nil {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to update stock: %w", err)
	}

	if r.commitHook != nil {
		if err := r.commitHook(tx); err != nil {
			return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to commit stock transaction: %w", err)
		}
	}

	st, err := scanTransaction(tx.QueryRowContext(ctx,
		`INSERT INTO stock_transactions (product_id, type, quantity, created_at)
		VALUES ($1, $2, $3, $4) RETURNING `+transactionColumns,
		productID, string(txType), quantity, now))
	if err != nil {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to insert stock transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.StockTransaction{}, models.Product{}, fmt.Errorf("failed to commit stock transaction: %w", err)
	}
	return st, product, nil
}

// rejection tells a missing product apart from a stock_out that would go negative.
func (r *PostgresTransactionRepository) rejection(ctx context.Context, tx *sql.Tx, productID int) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

// List returns ledger entries in ascending id order.
func (r *PostgresTransactionRepository) List(ctx context.Context, f TransactionFilter) ([]models.StockTransaction, int, error) {
	if f.Offset != nil && *f.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	whereClause, args := r.buildWhereClause(f)

	total, err := r.getTotal(ctx, whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if f.Offset != nil && *f.Offset >= total {
		return []models.StockTransaction{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, f)
	transactions, err := r.executeQuery(ctx, query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return transactions, total, nil
}

// buildWhereClause constructs the WHERE clause and returns arguments
func (r *PostgresTransactionRepository) buildWhereClause(f TransactionFilter) (string, []any) {
	whereClause := "WHERE 1=1"
	args := []any{}

	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		whereClause += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		whereClause += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.Until != nil {
		args = append(args, *f.Until)
		whereClause += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	return whereClause, args
}

// buildMainQuery constructs the main SELECT query with pagination
func (r *PostgresTransactionRepository) buildMainQuery(whereClause string, baseArgs []any, f TransactionFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM stock_transactions %s ORDER BY id ASC", transactionColumns, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)

	if f.Limit != nil && *f.Limit > 0 {
		args = append(args, *f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset != nil && *f.Offset > 0 {
		args = append(args, *f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

func (r *PostgresTransactionRepository) getTotal(ctx context.Context, whereClause string, args []any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stock_transactions "+whereClause, args...).Scan(&total)
	return total, err
}

func (r *PostgresTransactionRepository) executeQuery(ctx context.Context, query string, args []any) ([]models.StockTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.StockTransaction{}
	for rows.Next() {
		st, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

// History reads the product row and its ledger inside one read-only
// REPEATABLE READ transaction so both come from the same snapshot.
func (r *PostgresTransactionRepository) History(ctx context.Context, productID int) (models.Product, []models.StockTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return models.Product{}, nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	product, err := scanProduct(tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, nil, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, nil, fmt.Errorf("failed to read product: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM stock_transactions WHERE product_id = $1 ORDER BY id ASC`, productID)
	if err != nil {
		return models.Product{}, nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	defer rows.Close()

	history := []models.StockTransaction{}
	for rows.Next() {
		st, err := scanTransaction(rows)
		if err != nil {
			return models.Product{}, nil, err
		}
		history = append(history, st)
	}
	if err := rows.Err(); err != nil {
		return models.Product{}, nil, err
	}

	return product, history, tx.Commit()
}
