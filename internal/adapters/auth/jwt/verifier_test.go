package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-herd-manager/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "a-long-enough-secret-for-hs256-tests"

func TestNewVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier("  ", ""); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}

func TestSignAndVerify(t *testing.T) {
	v, err := NewVerifier(testSecret, "dairy")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	t.Run("ValidToken", func(t *testing.T) {
		tok, err := v.Sign(auth.Claims{UserID: "u-1", FarmID: "farm-1", Role: "Manager"}, time.Minute)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		c, err := v.Verify(context.Background(), tok)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if c.UserID != "u-1" || c.FarmID != "farm-1" || c.Role != "manager" {
			t.Fatalf("unexpected claims %+v", c)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tok, _ := v.Sign(auth.Claims{UserID: "u-1", FarmID: "farm-1"}, -time.Minute)
		_, err := v.Verify(context.Background(), tok)
		if !errors.Is(err, gojwt.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, _ := NewVerifier("another-secret-entirely-different", "dairy")
		tok, _ := other.Sign(auth.Claims{UserID: "u-1", FarmID: "farm-1"}, time.Minute)
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, gojwt.ErrTokenSignatureInvalid) {
			t.Fatalf("expected signature error, got %v", err)
		}
	})

	t.Run("MissingFarm", func(t *testing.T) {
		tok, _ := v.Sign(auth.Claims{UserID: "u-1"}, time.Minute)
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrMissingClaims) {
			t.Fatalf("expected ErrMissingClaims, got %v", err)
		}
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other, _ := NewVerifier(testSecret, "someone-else")
		tok, _ := other.Sign(auth.Claims{UserID: "u-1", FarmID: "farm-1"}, time.Minute)
		if _, err := v.Verify(context.Background(), tok); !errors.Is(err, gojwt.ErrTokenInvalidIssuer) {
			t.Fatalf("expected issuer error, got %v", err)
		}
	})
}
