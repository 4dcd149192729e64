package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken("hush", 42, "admin", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if !at.Exp.After(time.Now()) {
		t.Fatalf("token already expired: %v", at.Exp)
	}

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("hush"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatalf("invalid token claims")
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Fatalf("role = %v, want admin", claims["role"])
	}
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("hush", 1, "standard", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
		return []byte("other"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatalf("token verified with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw token length = %d, want 96 hex chars", len(rt.Raw))
	}
	if rt.Exp.Before(time.Now().Add(6 * 24 * time.Hour)) {
		t.Fatalf("expiry too close: %v", rt.Exp)
	}

	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Fatalf("hashing is not deterministic")
	}
	if h1 == rt.Raw {
		t.Fatalf("hash equals the raw token")
	}

	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if HashRefreshRaw(other.Raw) == h1 {
		t.Fatalf("distinct tokens share a hash")
	}
}
