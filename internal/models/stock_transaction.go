package models

import "time"

type TransactionType string

const (
	StockIn  TransactionType = "stock_in"
	StockOut TransactionType = "stock_out"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == StockIn || t == StockOut
}

// Delta returns the signed change that a transaction of this type and
// quantity applies to a product's stock.
func (t TransactionType) Delta(quantity int) int {
	if t == StockOut {
		return -quantity
	}
	return quantity
}

type StockTransaction struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}
