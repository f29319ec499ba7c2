package polymarket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cricsage/cricketwatch/internal/domain"
)

func TestGetMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/42" {
			t.Errorf("path = %q, want /markets/42", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "42",
			"question": "MI vs CSK?",
			"outcomes": "[\"Yes\",\"No\"]",
			"outcomePrices": "[\"0.65\",\"0.35\"]"
		}`))
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	m, err := client.GetMarket(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetMarket: %v", err)
	}
	if m.ID != "42" || m.Question != "MI vs CSK?" {
		t.Errorf("market = %+v", m)
	}
	if !m.HasBreakdown() {
		t.Error("breakdown missing after string-encoded decode")
	}
}

func TestGetRelatedMarketsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/7/related-markets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("limit = %q, want 50", got)
		}
		w.Write([]byte(`[{"id": "8"}, {"id": "9"}]`))
	}))
	defer srv.Close()

	client := NewGammaClient(srv.URL)
	markets, err := client.GetRelatedMarkets(context.Background(), "7", 50)
	if err != nil {
		t.Fatalf("GetRelatedMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("len = %d, want 2", len(markets))
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: domain.ErrNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: domain.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: domain.ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewGammaClient(srv.URL)
			_, err := client.GetMarket(context.Background(), "1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveAPIKeyWithoutSigner(t *testing.T) {
	client := NewClobClient("http://clob.invalid", nil, nil)
	if !client.ReadOnly() {
		t.Error("client with no credentials should be read-only")
	}
	err := client.DeriveAPIKey(context.Background())
	if !errors.Is(err, domain.ErrSigningFailed) {
		t.Fatalf("DeriveAPIKey = %v, want ErrSigningFailed", err)
	}
}
