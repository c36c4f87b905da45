package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
)

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, sku, quantity and optional threshold. Existing skus are skipped, or have their metadata updated in update mode.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} catalog.ImportResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := catalog.ParseImportMode(r.URL.Query().Get("mode"))

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	result, err := productCatalog.ImportProducts(r.Context(), file, mode)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	writeJSON(w, http.StatusOK, result)
}
