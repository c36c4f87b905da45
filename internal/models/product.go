package models

import "time"

// Product represents a product entity tracked by the stock ledger.
// StockQuantity is derived from the stock transaction ledger.
type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Sku           string    `json:"sku"`
	StockQuantity int       `json:"stock_quantity"`
	Threshold     int       `json:"threshold"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.Threshold
}
