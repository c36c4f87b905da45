package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	handler "github.com/rogerio-castellano/stock-ledger/internal/http/handlers"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-ledger/internal/http/router"
)

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"valid", "admin", "secret", http.StatusOK},
		{"wrong password", "admin", "nope", http.StatusUnauthorized},
		{"unknown user", "ghost", "secret", http.StatusUnauthorized},
		{"missing fields", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.login(t, tt.username, tt.password); w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)

	var first handler.LoginResult
	decode(t, s.login(t, "admin", "secret"), &first)
	if first.RefreshToken == "" || first.ExpiresIn != int((15*time.Minute).Seconds()) {
		t.Fatalf("unexpected login result %+v", first)
	}

	w := s.do(http.MethodPost, "/refresh", handler.RefreshRequest{RefreshToken: first.RefreshToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var second handler.LoginResult
	decode(t, w, &second)

	if w := s.do(http.MethodPost, "/refresh", handler.RefreshRequest{RefreshToken: first.RefreshToken}, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh token: expected 401, got %d", w.Code)
	}

	if w := s.do(http.MethodPost, "/logout", handler.RefreshRequest{RefreshToken: second.RefreshToken}, ""); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/refresh", handler.RefreshRequest{RefreshToken: second.RefreshToken}, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked refresh token: expected 401, got %d", w.Code)
	}
}

func TestRegisterAsAdminHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/admin/users", handler.RegisterAsAdminRequest{Username: "clerk", Password: "123456", Role: "user"}, s.token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if w := s.do(http.MethodPost, "/admin/users", handler.RegisterAsAdminRequest{Username: "clerk", Password: "123456", Role: "user"}, s.token); w.Code != http.StatusConflict {
		t.Errorf("duplicate user: expected 409, got %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/admin/users", handler.RegisterAsAdminRequest{Username: "x", Password: "1", Role: "root"}, s.token); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid user: expected 422, got %d", w.Code)
	}

	var clerk handler.LoginResult
	decode(t, s.login(t, "clerk", "123456"), &clerk)
	if w := s.do(http.MethodPost, "/admin/users", handler.RegisterAsAdminRequest{Username: "other", Password: "123456", Role: "user"}, clerk.Token); w.Code != http.StatusForbidden {
		t.Errorf("non-admin: expected 403, got %d", w.Code)
	}

	// regular users may still record stock movements
	p := s.createProduct(t, handler.ProductRequest{Name: "Widget", Sku: "W"})
	w = s.do(http.MethodPost, "/stock-transactions", handler.StockTransactionRequest{ProductID: p.Id, Type: "stock_in", Quantity: 1}, clerk.Token)
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.router = router.NewRouter(router.Options{
		Issuer:       auth.NewTokenIssuer("test-secret", time.Minute),
		LoginLimiter: rl.New(0.001, 2),
	})

	codes := []int{}
	for range 3 {
		codes = append(codes, s.login(t, "admin", "secret").Code)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third login to be limited, got %v", codes)
	}
}
