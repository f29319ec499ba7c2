package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cricsage/cricketwatch/internal/config"
	"github.com/cricsage/cricketwatch/internal/discovery"
	"github.com/cricsage/cricketwatch/internal/domain"
	"github.com/cricsage/cricketwatch/internal/monitor"
	"github.com/cricsage/cricketwatch/internal/notify"
)

type stubSource struct {
	markets []domain.Market
}

func (s *stubSource) GetMarkets(context.Context, int, int) ([]domain.Market, error) {
	return s.markets, nil
}

func (s *stubSource) GetMarket(_ context.Context, id string) (domain.Market, error) {
	for _, m := range s.markets {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Market{}, domain.ErrNotFound
}

func (s *stubSource) GetRelatedMarkets(context.Context, string, int) ([]domain.Market, error) {
	return nil, nil
}

type nopAlerter struct{}

func (nopAlerter) Notify(context.Context, notify.Event, string, string) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// A cancelled monitor run must still read as a graceful shutdown in main,
// where the error arrives wrapped with mode context.
func TestMonitorModeCancellationUnwrapsToContextCanceled(t *testing.T) {
	src := &stubSource{
		markets: []domain.Market{
			{
				ID:            "42",
				Question:      "MI vs CSK winner?",
				Outcomes:      []string{"MI", "CSK"},
				OutcomePrices: []float64{0.85, 0.15},
			},
		},
	}

	logger := testLogger()
	deps := &Dependencies{
		Discovery: discovery.NewService(src, discovery.Config{
			ListLimit:    100,
			RelatedLimit: 50,
		}, logger),
		Monitor: monitor.New(src, nopAlerter{}, nil, 0.60, 10*time.Millisecond, logger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(&config.Config{}, "", logger)
	err := a.MonitorMode(ctx, deps)
	if err == nil {
		t.Fatal("MonitorMode on cancelled context returned nil error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("errors.Is(err, context.Canceled) = false for %v", err)
	}
}
