package handlers

import (
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

type ProductRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Sku       string `json:"sku" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=2147483647"`
	Threshold int    `json:"threshold" validate:"gte=0,lte=2147483647"`
}

// ProductUpdateRequest carries metadata only. Stock is changed through
// POST /stock-transactions.
type ProductUpdateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Sku       string `json:"sku" validate:"required,max=64"`
	Threshold int    `json:"threshold" validate:"gte=0,lte=2147483647"`
}

type ProductResponse struct {
	Id            int    `json:"id"`
	Name          string `json:"name"`
	Sku           string `json:"sku"`
	StockQuantity int    `json:"stock_quantity"`
	Threshold     int    `json:"threshold"`
	LowStock      bool   `json:"low_stock"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Id:            p.ID,
		Name:          p.Name,
		Sku:           p.Sku,
		StockQuantity: p.StockQuantity,
		Threshold:     p.Threshold,
		LowStock:      p.LowStock(),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type StockTransactionRequest struct {
	ProductID int    `json:"product_id"`
	Type      string `json:"type" validate:"required,oneof=stock_in stock_out"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=2147483647"`
}

type StockTransactionResponse struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

func toTransactionResponse(tx models.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:        tx.ID,
		ProductID: tx.ProductID,
		Type:      string(tx.Type),
		Quantity:  tx.Quantity,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339Nano),
	}
}

type StockTransactionsSearchResult struct {
	Data []StockTransactionResponse `json:"data"`
	Meta Meta                       `json:"meta"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors []ValidationError `json:"errors"`
}
