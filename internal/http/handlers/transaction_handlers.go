package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/stock-ledger/internal/ledger"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

// CreateStockTransactionHandler godoc
// @Summary Record a stock movement
// @Description Appends a stock_in or stock_out to the ledger and updates the product's stock in the same unit of work.
// @Tags stock-transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body StockTransactionRequest true "Movement to record"
// @Success 201 {object} StockTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 409 {object} ErrorResponse "Insufficient stock"
// @Failure 422 {object} ValidationErrorResponse "Invalid quantity or type"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /stock-transactions [post]
func CreateStockTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req StockTransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
		return
	}

	tx, err := stockLedger.CreateStockTransaction(r.Context(), ledger.CreateStockTransactionInput{
		ProductID: req.ProductID,
		Type:      models.TransactionType(req.Type),
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// GetStockTransactionsHandler godoc
// @Summary List ledger entries
// @Description Entries are ordered by ascending id. Without a limit every matching entry is returned.
// @Tags stock-transactions
// @Produce json
// @Param product_id query int false "Only this product"
// @Param since query string false "Entries from this timestamp (RFC3339)"
// @Param until query string false "Entries until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} StockTransactionsSearchResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /stock-transactions [get]
func GetStockTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, total, err := stockLedger.GetStockTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := StockTransactionsSearchResult{
		Data: make([]StockTransactionResponse, len(txs)),
		Meta: Meta{TotalCount: total},
	}
	for i, tx := range txs {
		resp.Data[i] = toTransactionResponse(tx)
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseTransactionFilter(r *http.Request) (repo.TransactionFilter, error) {
	var f repo.TransactionFilter
	var err error

	if f.ProductID, err = parseIntParam(r, "product_id"); err != nil {
		return f, err
	}
	if f.Since, err = parseTimeParam(r, "since"); err != nil {
		return f, err
	}
	if f.Until, err = parseTimeParam(r, "until"); err != nil {
		return f, err
	}
	if f.Offset, err = parseIntParam(r, "offset"); err != nil {
		return f, err
	}
	if f.Limit, err = parseIntParam(r, "limit"); err != nil {
		return f, err
	}

	if f.Limit != nil && *f.Limit <= 0 {
		return f, errLimit
	}
	if f.Offset != nil && *f.Offset < 0 {
		return f, errOffset
	}
	return f, nil
}

// ExportStockTransactionsHandler godoc
// @Summary Export a product's ledger
// @Tags stock-transactions
// @Produce text/csv,application/json
// @Param id path int true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Entries from this timestamp (RFC3339)"
// @Param until query string false "Entries until this timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /products/{id}/transactions/export [get]
func ExportStockTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		writeErrorMessage(w, http.StatusBadRequest, "format must be 'csv' or 'json'")
		return
	}

	filter := repo.TransactionFilter{ProductID: &id}
	if filter.Since, err = parseTimeParam(r, "since"); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Until, err = parseTimeParam(r, "until"); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, _, err := stockLedger.GetStockTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch format {
	case "json":
		resp := make([]StockTransactionResponse, len(txs))
		for i, tx := range txs {
			resp[i] = toTransactionResponse(tx)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="stock_transactions.json"`)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Warn("failed to write export", zap.Error(err))
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="stock_transactions.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "type", "quantity", "created_at"})
		for _, tx := range txs {
			_ = csvWriter.Write([]string{
				strconv.Itoa(tx.ID),
				strconv.Itoa(tx.ProductID),
				string(tx.Type),
				strconv.Itoa(tx.Quantity),
				tx.CreatedAt.Format(time.RFC3339Nano),
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			logger.Warn("failed to write export", zap.Error(err))
		}
	}
}
