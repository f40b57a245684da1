package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dairy-herd-manager/internal/ports/auth"
)

type stubVerifier struct {
	claims auth.Claims
	err    error
}

func (v stubVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return v.claims, v.err
}

func captureClaims(t *testing.T, h func(http.Handler) http.Handler, req *http.Request) (auth.Claims, bool) {
	t.Helper()

	var (
		got auth.Claims
		ok  bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FarmClaims(r.Context())
	})
	h(next).ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestAuthContext_DevHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/animals", nil)
	req.Header.Set("X-Debug-User-ID", "user-1")
	req.Header.Set("X-Debug-Farm-ID", "farm-1")
	req.Header.Set("X-Debug-Role", " Manager ")

	c, ok := captureClaims(t, AuthContext(nil), req)
	if !ok {
		t.Fatalf("expected farm claims")
	}
	if c.UserID != "user-1" || c.FarmID != "farm-1" || c.Role != "manager" {
		t.Fatalf("unexpected claims %+v", c)
	}
}

func TestAuthContext_DevWithoutFarmIsNotFarmScoped(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/animals", nil)
	req.Header.Set("X-Debug-User-ID", "user-1")

	if _, ok := captureClaims(t, AuthContext(nil), req); ok {
		t.Fatalf("claims without farm must not pass FarmClaims")
	}
}

func TestAuthContext_Verifier(t *testing.T) {
	v := stubVerifier{claims: auth.Claims{UserID: "u", FarmID: "f"}}

	good := httptest.NewRequest(http.MethodGet, "/", nil)
	good.Header.Set("Authorization", "Bearer good")
	if _, ok := captureClaims(t, AuthContext(v), good); !ok {
		t.Fatalf("expected claims with valid token")
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	if _, ok := captureClaims(t, AuthContext(v), bad); ok {
		t.Fatalf("expected no claims with invalid token")
	}

	// Con verifier configurado los headers de debug se ignoran.
	debug := httptest.NewRequest(http.MethodGet, "/", nil)
	debug.Header.Set("X-Debug-User-ID", "u")
	debug.Header.Set("X-Debug-Farm-ID", "f")
	if _, ok := captureClaims(t, AuthContext(v), debug); ok {
		t.Fatalf("debug headers must be ignored in verifier mode")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"Bearer abc":   "abc",
		"bearer  xyz ": "xyz",
		"Basic abc":    "",
		"Bearer":       "",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
