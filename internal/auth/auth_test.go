package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPasswordHash("correct horse", hash) {
		t.Fatal("matching password rejected")
	}
	if CheckPasswordHash("wrong horse", hash) {
		t.Fatal("mismatching password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	service, err := NewAuthService([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := service.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Subject != "42" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer, _ := NewAuthService([]byte("secret-a"), time.Hour)
	verifier, _ := NewAuthService([]byte("secret-b"), time.Hour)

	token, err := issuer.GenerateToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	service, err := NewAuthService([]byte("secret"), time.Nanosecond)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := service.GenerateToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := service.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestNewAuthServiceRejectsEmptySecret(t *testing.T) {
	if _, err := NewAuthService(nil, time.Hour); err == nil {
		t.Fatal("empty secret must be rejected")
	}
	if _, err := NewAuthService([]byte("secret"), 0); err == nil {
		t.Fatal("zero ttl must be rejected")
	}
}
