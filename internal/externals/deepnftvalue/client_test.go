package deepnftvalue

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return New(server.URL, "test-key", 2*time.Second, nil), server
}

func TestTokenValuation(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/azuki/42" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Fatalf("missing auth header")
		}
		w.Write([]byte(`{"valuation": {"price": "5.25", "currency": "eth"}}`))
	})
	defer server.Close()

	valuation, err := client.TokenValuation(context.Background(), "azuki", big.NewInt(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valuation == nil {
		t.Fatalf("expected valuation")
	}
	if valuation.Price != 5.25 {
		t.Fatalf("price mismatch: %v", valuation.Price)
	}
	if valuation.URL != "https://deepnftvalue.com/asset/azuki/42" {
		t.Fatalf("url mismatch: %s", valuation.URL)
	}
}

func TestTokenValuationMissingObjectIsAbsentNotError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"detail": "token not found"}`))
	})
	defer server.Close()

	valuation, err := client.TokenValuation(context.Background(), "azuki", big.NewInt(1))
	if err != nil {
		t.Fatalf("missing valuation must not be an error: %v", err)
	}
	if valuation != nil {
		t.Fatalf("expected absent valuation: %+v", valuation)
	}
}

func TestTokenValuationUnparseablePriceIsAbsent(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"valuation": {"price": "not-a-number"}}`))
	})
	defer server.Close()

	valuation, err := client.TokenValuation(context.Background(), "azuki", big.NewInt(1))
	if err != nil {
		t.Fatalf("bad price must degrade, not error: %v", err)
	}
	if valuation != nil {
		t.Fatalf("expected absent valuation: %+v", valuation)
	}
}

func TestTokenValuationErrorStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	if _, err := client.TokenValuation(context.Background(), "azuki", big.NewInt(1)); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}
