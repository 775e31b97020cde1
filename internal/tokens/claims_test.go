package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{
		"sub":     "42",
		"user_id": 42,
		"exp":     exp.Unix(),
		"iat":     exp.Add(-5 * time.Minute).Unix(),
	})

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("Inspect() failed: %v", err)
	}
	if claims.Subject != "42" || claims.UserID != "42" {
		t.Errorf("Inspect() subject=%q user=%q, want 42/42", claims.Subject, claims.UserID)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
	if claims.Expired(time.Now()) {
		t.Error("Expired() = true for a token valid for five more minutes")
	}
	if !claims.Expired(exp.Add(time.Second)) {
		t.Error("Expired() = false after exp")
	}
}

func TestInspectExpiredTokenStillDecodes(t *testing.T) {
	token := signed(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("Inspect() on expired token failed: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Error("Expired() = false for expired token")
	}
}

func TestInspectOpaqueToken(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	if !errors.Is(err, ErrOpaqueToken) {
		t.Errorf("Inspect() error = %v, want %v", err, ErrOpaqueToken)
	}

	claims := Claims{}
	if claims.Expired(time.Now()) {
		t.Error("Expired() without exp should be false")
	}
}
