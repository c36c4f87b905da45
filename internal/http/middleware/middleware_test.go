package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/auth"
	rl "github.com/rogerio-castellano/stock-ledger/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Minute)
	token, _ := issuer.GenerateToken(models.User{ID: 1, Username: "alice", Role: "user"})

	var seen *auth.Claims
	h := RequireAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}

	if seen == nil || seen.Username != "alice" {
		t.Errorf("expected claims in context, got %+v", seen)
	}
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Minute)
	h := RequireAuth(issuer)(RequireRole("admin")(http.HandlerFunc(okHandler)))

	for role, want := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden} {
		token, _ := issuer.GenerateToken(models.User{ID: 1, Username: "u", Role: role})
		req := httptest.NewRequest(http.MethodPost, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("role %s: expected %d, got %d", role, want, rr.Code)
		}
	}
}

func TestThrottle(t *testing.T) {
	h := Throttle(rl.New(0.001, 2), nil, nil)(http.HandlerFunc(okHandler))

	codes := []int{}
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}
