package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 0)
	if m.TTL() != DefaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTokenTTL, m.TTL())
	}

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected iat and exp claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultTokenTTL {
		t.Errorf("expected 7 day lifetime, got %v", got)
	}
}

func TestTokenParseRejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	valid, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	expired, err := NewTokenManager("test-secret", -time.Minute).Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	foreign, err := NewTokenManager("other-secret", time.Hour).Generate("user-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	sig := strings.LastIndex(valid, ".") + 1
	swap := "A"
	if valid[sig] == 'A' {
		swap = "B"
	}
	tampered := valid[:sig] + swap + valid[sig+1:]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong secret", foreign},
		{"tampered", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := CheckPassword(hash, "password123"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Error("expected mismatch error")
	}
}
