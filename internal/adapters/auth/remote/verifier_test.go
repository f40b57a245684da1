package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/verify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		var req verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Token == "" {
			t.Errorf("missing token in body")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestVerify_OK(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, map[string]string{
		"user_id": "u-1",
		"farm_id": "farm-1",
		"role":    "Owner",
	})
	defer ts.Close()

	v, err := NewVerifier(Config{BaseURL: ts.URL, APIKey: "key", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	c, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if c.UserID != "u-1" || c.FarmID != "farm-1" || c.Role != "owner" {
		t.Fatalf("unexpected claims %+v", c)
	}
}

func TestVerify_Unauthorized(t *testing.T) {
	ts := newTestServer(t, http.StatusUnauthorized, map[string]string{"error": "nope"})
	defer ts.Close()

	v, _ := NewVerifier(Config{BaseURL: ts.URL, APIKey: "key"})
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerify_UpstreamAndMissingFarm(t *testing.T) {
	ts := newTestServer(t, http.StatusBadGateway, map[string]string{})
	defer ts.Close()

	v, _ := NewVerifier(Config{BaseURL: ts.URL, APIKey: "key"})
	if _, err := v.Verify(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	ts2 := newTestServer(t, http.StatusOK, map[string]string{"user_id": "u-1"})
	defer ts2.Close()

	v2, _ := NewVerifier(Config{BaseURL: ts2.URL, APIKey: "key"})
	if _, err := v2.Verify(context.Background(), "tok"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for missing farm, got %v", err)
	}
}

func TestNewVerifier_NotConfigured(t *testing.T) {
	if _, err := NewVerifier(Config{BaseURL: "https://id.example.com"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
