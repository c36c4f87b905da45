package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. A positive quantity is recorded as the opening stock_in transaction.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Sku already exists"
// @Failure 422 {object} ValidationErrorResponse "Validation failed"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
		return
	}

	created, err := productCatalog.CreateProduct(r.Context(), catalog.NewProduct{
		Name:            req.Name,
		Sku:             req.Sku,
		InitialQuantity: req.Quantity,
		Threshold:       req.Threshold,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productCatalog.GetProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := productCatalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// UpdateProductHandler godoc
// @Summary Update product metadata
// @Description Changes name, sku and threshold. Stock is only moved through stock transactions.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Updated metadata"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Sku already exists"
// @Failure 422 {object} ValidationErrorResponse "Validation failed"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateRequest(req); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
		return
	}

	updated, err := productCatalog.UpdateProduct(r.Context(), id, catalog.ProductDetails{
		Name:      req.Name,
		Sku:       req.Sku,
		Threshold: req.Threshold,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// GetLowStockHandler godoc
// @Summary List products at or below a stock level
// @Tags products
// @Produce json
// @Param threshold query int true "Stock level"
// @Success 200 {array} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid threshold"
// @Failure 422 {object} ErrorResponse "Negative threshold"
// @Router /products/low-stock [get]
func GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	threshold, err := parseIntParam(r, "threshold")
	if err != nil || threshold == nil {
		writeErrorMessage(w, http.StatusBadRequest, "threshold query parameter is required")
		return
	}

	products, err := stockLedger.GetLowStock(r.Context(), *threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

// ReconcileProductHandler godoc
// @Summary Replay a product's ledger and compare it with its stock
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ledger.Reconciliation
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /products/{id}/reconcile [get]
func ReconcileProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := stockLedger.Reconcile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
