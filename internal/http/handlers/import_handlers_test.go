package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
	handler "github.com/rogerio-castellano/stock-ledger/internal/http/handlers"
)

func postImport(s *testServer, csvContent, mode string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "products.csv")
	path := "/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestImportProductsHandler(t *testing.T) {
	s := newTestServer(t)
	s.createProduct(t, handler.ProductRequest{Name: "Mouse", Sku: "M-1", Quantity: 2})

	csvContent := "name,sku,quantity,threshold\nKeyboard,K-1,10,2\nMouse Pro,M-1,50,1\n,X-1,1,1\n"

	w := postImport(s, csvContent, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result catalog.ImportResult
	decode(t, w, &result)
	if result.Imported != 1 || len(result.Errors) != 2 {
		t.Errorf("skip mode: unexpected result %+v", result)
	}

	w = postImport(s, csvContent, "update")
	decode(t, w, &result)
	if result.Imported != 2 || len(result.Errors) != 1 {
		t.Errorf("update mode: unexpected result %+v", result)
	}

	mouse := s.getProduct(t, 1)
	if mouse.Name != "Mouse Pro" || mouse.StockQuantity != 2 {
		t.Errorf("expected metadata update without stock change, got %+v", mouse)
	}
	keyboard := s.getProduct(t, 2)
	if keyboard.StockQuantity != 10 {
		t.Errorf("expected imported stock 10, got %d", keyboard.StockQuantity)
	}
}

func TestImportProductsHandler_BadInput(t *testing.T) {
	s := newTestServer(t)

	if w := postImport(s, "name,quantity\nA,1\n", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing sku column, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/products/import", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", w.Code)
	}
}
