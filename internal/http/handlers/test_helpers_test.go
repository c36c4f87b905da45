package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/alerts"
	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	"github.com/rogerio-castellano/stock-ledger/internal/catalog"
	handler "github.com/rogerio-castellano/stock-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-ledger/internal/http/router"
	"github.com/rogerio-castellano/stock-ledger/internal/ledger"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

type testServer struct {
	router http.Handler
	store  *repo.InMemoryStore
	alerts *alerts.MemoryPublisher
	token  string
}

// newTestServer wires in-memory repositories into the handlers and logs in
// as the seeded admin user.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repo.NewInMemoryStore()
	publisher := alerts.NewMemoryPublisher()
	users := repo.NewInMemoryUserRepository()

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := users.CreateUser(context.Background(), models.User{Username: "admin", PasswordHash: hash, Role: "admin"}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute)
	handler.SetCatalog(catalog.New(store, nil, nil))
	handler.SetLedger(ledger.NewEngine(store, store, ledger.WithAlerts(publisher)))
	handler.SetMetricsRepo(repo.NewInMemoryMetricsRepository(store, store))
	handler.SetUserRepo(users)
	handler.SetAlertReader(publisher)
	handler.SetAuth(issuer, auth.NewMemoryRefreshStore(), time.Hour)

	s := &testServer{
		router: router.NewRouter(router.Options{Issuer: issuer, LoginLimiter: rl.New(100, 100)}),
		store:  store,
		alerts: publisher,
	}

	login := s.login(t, "admin", "secret")
	if login.Code != http.StatusOK {
		t.Fatalf("admin login failed: %d %s", login.Code, login.Body.String())
	}
	var resp handler.LoginResult
	decode(t, login, &resp)
	s.token = resp.Token
	return s
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(http.MethodPost, "/login", handler.CredentialsRequest{Username: username, Password: password}, "")
}

func (s *testServer) createProduct(t *testing.T, p handler.ProductRequest) handler.ProductResponse {
	t.Helper()
	w := s.do(http.MethodPost, "/products", p, s.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.ProductResponse
	decode(t, w, &resp)
	return resp
}

func (s *testServer) postTransaction(productID int, txType string, qty int) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/stock-transactions", handler.StockTransactionRequest{
		ProductID: productID,
		Type:      txType,
		Quantity:  qty,
	}, s.token)
}

func (s *testServer) getProduct(t *testing.T, id int) handler.ProductResponse {
	t.Helper()
	w := s.do(http.MethodGet, fmt.Sprintf("/products/%d", id), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get product: expected 200, got %d", w.Code)
	}
	var resp handler.ProductResponse
	decode(t, w, &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	_, _ = part.Write([]byte(csvContent))

	_ = writer.Close()
	return &buf, writer.FormDataContentType()
}
