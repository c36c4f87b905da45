package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	token, err := issuer.GenerateToken(models.User{ID: 7, Username: "alice", Role: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "7" || claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	token, _ := issuer.GenerateToken(models.User{ID: 1, Username: "bob", Role: "user"})

	other := NewTokenIssuer("other-secret", time.Minute)
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	expired := NewTokenIssuer("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := expired.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := issuer.ParseToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestMemoryRefreshStore(t *testing.T) {
	store := NewMemoryRefreshStore()
	ctx := context.Background()

	token, err := NewRefreshToken()
	if err != nil || len(token) != 64 {
		t.Fatalf("NewRefreshToken: %q, %v", token, err)
	}

	if err := store.Save(ctx, token, "alice", time.Minute); err != nil {
		t.Fatal(err)
	}
	username, err := store.Consume(ctx, token)
	if err != nil || username != "alice" {
		t.Fatalf("Consume: %q, %v", username, err)
	}
	if _, err := store.Consume(ctx, token); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Errorf("refresh tokens are single use, got %v", err)
	}

	_ = store.Save(ctx, "old", "bob", time.Second)
	store.now = func() time.Time { return time.Now().Add(time.Minute) }
	store.Cleanup()
	if _, err := store.Consume(ctx, "old"); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Errorf("expected expired token to be gone, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CheckPassword(hash, "s3cret!") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatch")
	}
}
