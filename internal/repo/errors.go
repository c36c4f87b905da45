package repo

import (
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateSku is returned when a product is created or renamed with a sku that is already taken.
	ErrDuplicateSku = errors.New("sku already exists")

	// ErrInsufficientStock is returned when a stock_out would drive the quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for non-positive transaction quantities,
	// negative opening quantities and quantities above MaxQuantity.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidTransactionType is returned for a type outside stock_in/stock_out.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidProduct is returned when required product fields are blank.
	ErrInvalidProduct = errors.New("invalid product")

	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicatedValueUnique = errors.New("unique constraint violation")
)

// MaxQuantity is the largest quantity a transaction, an opening balance or
// a product's stock may hold. It matches the INTEGER columns in Postgres.
const MaxQuantity = math.MaxInt32

const (
	uniqueViolation   = "23505"
	numericOutOfRange = "22003"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == numericOutOfRange
}
