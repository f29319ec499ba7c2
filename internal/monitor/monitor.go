// Package monitor implements the threshold watch loop. An initial scan moves
// markets whose best outcome price exceeds the alert threshold into a watch
// set; the loop then re-polls each watched market on a fixed interval,
// notifying while it stays high and emitting a final resolved notification
// when it drops back, until the watch set is empty.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cricsage/cricketwatch/internal/domain"
	"github.com/cricsage/cricketwatch/internal/notify"
)

// DefaultThreshold is the alert trigger: a market is watched while any
// outcome price strictly exceeds it. The legacy alert text said ">70%" but
// the comparison has always been against 0.60; the value is configurable so
// either reading is selectable.
const DefaultThreshold = 0.60

// DefaultPollInterval is the sleep between poll cycles.
const DefaultPollInterval = 30 * time.Second

// MarketFetcher fetches the current state of a single market.
type MarketFetcher interface {
	GetMarket(ctx context.Context, id string) (domain.Market, error)
}

// Alerter delivers threshold notifications.
type Alerter interface {
	Notify(ctx context.Context, event notify.Event, title, body string) error
}

// Monitor tracks markets above the alert threshold. It is single-threaded:
// Scan, RunCycle, and Run must be called from one goroutine.
type Monitor struct {
	fetcher   MarketFetcher
	alerter   Alerter
	cache     domain.AlertCache // may be nil
	threshold float64
	interval  time.Duration
	logger    *slog.Logger
	runID     string

	watch map[string]*domain.WatchEntry
}

// New creates a Monitor. cache may be nil, in which case alerts are not
// deduplicated across restarts. Non-positive threshold or interval fall back
// to the defaults.
func New(fetcher MarketFetcher, alerter Alerter, cache domain.AlertCache, threshold float64, interval time.Duration, logger *slog.Logger) *Monitor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	runID := uuid.NewString()
	return &Monitor{
		fetcher:   fetcher,
		alerter:   alerter,
		cache:     cache,
		threshold: threshold,
		interval:  interval,
		logger:    logger.With(slog.String("component", "monitor"), slog.String("run_id", runID)),
		runID:     runID,
		watch:     make(map[string]*domain.WatchEntry),
	}
}

// Watching returns the number of markets currently in the watch set.
func (m *Monitor) Watching() int {
	return len(m.watch)
}

// Scan performs the initial pass over discovered markets. Every market whose
// best outcome price strictly exceeds the threshold enters the watch set and
// triggers an alert notification. Markets without a usable breakdown are
// skipped. If an alert cache is present, markets alerted within the cache TTL
// re-enter the watch set silently.
func (m *Monitor) Scan(ctx context.Context, markets []domain.Market) {
	for i := range markets {
		mkt := &markets[i]
		if !mkt.HasBreakdown() {
			continue
		}
		if mkt.MaxOutcomePrice() <= m.threshold {
			continue
		}

		entry := &domain.WatchEntry{
			MarketID:         mkt.ID,
			Question:         mkt.Question,
			InitialBreakdown: mkt.Breakdown(),
			LatestBreakdown:  mkt.Breakdown(),
			AlertedAt:        time.Now().UTC(),
		}
		m.watch[mkt.ID] = entry

		m.logger.InfoContext(ctx, "market above threshold",
			slog.String("market_id", mkt.ID),
			slog.String("question", mkt.Question),
			slog.Float64("max_price", mkt.MaxOutcomePrice()),
			slog.Float64("threshold", m.threshold),
		)

		if m.alreadyAlerted(ctx, mkt.ID) {
			continue
		}

		title := fmt.Sprintf("HIGH PROBABILITY ALERT (>%.0f%%)", m.threshold*100)
		body := fmt.Sprintf("%s\nGame start: %s\nProbabilities:\n%s",
			mkt.Question, mkt.GameStartText(time.Now().UTC()), mkt.Breakdown())
		if err := m.alerter.Notify(ctx, notify.EventAlert, title, body); err != nil {
			m.logger.WarnContext(ctx, "alert notification failed",
				slog.String("market_id", mkt.ID),
				slog.String("error", err.Error()),
			)
		}
		m.markAlerted(ctx, mkt.ID)
	}
}

// RunCycle re-polls every watched market once. A fetch failure keeps the
// entry for the next cycle; this is the only retry path in the system. A
// market still above the threshold updates its latest breakdown and emits a
// still-high notification. A market at or below the threshold emits a
// resolved notification carrying both the initial and final breakdowns and
// leaves the watch set.
func (m *Monitor) RunCycle(ctx context.Context) {
	// Stable iteration order so notifications are deterministic per cycle.
	ids := make([]string, 0, len(m.watch))
	for id := range m.watch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry := m.watch[id]

		mkt, err := m.fetcher.GetMarket(ctx, id)
		if err != nil {
			m.logger.WarnContext(ctx, "poll fetch failed, retrying next cycle",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}

		if mkt.HasBreakdown() && mkt.MaxOutcomePrice() > m.threshold {
			entry.LatestBreakdown = mkt.Breakdown()
			entry.Question = mkt.Question

			body := fmt.Sprintf("%s\nStill above %.0f%%:\n%s",
				entry.Question, m.threshold*100, entry.LatestBreakdown)
			if err := m.alerter.Notify(ctx, notify.EventStillHigh, "Market still high", body); err != nil {
				m.logger.WarnContext(ctx, "still-high notification failed",
					slog.String("market_id", id),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		final := entry.LatestBreakdown
		if mkt.HasBreakdown() {
			final = mkt.Breakdown()
		}
		body := fmt.Sprintf("%s\nInitial probabilities:\n%s\nFinal probabilities:\n%s",
			entry.Question, entry.InitialBreakdown, final)
		if err := m.alerter.Notify(ctx, notify.EventResolved, "Market dropped below threshold", body); err != nil {
			m.logger.WarnContext(ctx, "resolved notification failed",
				slog.String("market_id", id),
				slog.String("error", err.Error()),
			)
		}

		delete(m.watch, id)
		m.logger.InfoContext(ctx, "market resolved",
			slog.String("market_id", id),
			slog.Int("remaining", len(m.watch)),
		)
	}
}

// Run polls until the watch set is empty or the context is cancelled. Each
// iteration sleeps for the configured interval and then runs one cycle.
// Returns ctx.Err() on cancellation, nil when all markets resolve.
func (m *Monitor) Run(ctx context.Context) error {
	if len(m.watch) == 0 {
		m.logger.InfoContext(ctx, "no markets above threshold, nothing to monitor")
		return nil
	}

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for len(m.watch) > 0 {
		m.logger.InfoContext(ctx, "sleeping until next cycle",
			slog.Duration("interval", m.interval),
			slog.Int("watching", len(m.watch)),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		m.RunCycle(ctx)
		timer.Reset(m.interval)
	}

	m.logger.InfoContext(ctx, "all watched markets resolved")
	return nil
}

// alreadyAlerted consults the alert cache. Cache errors are soft: log and
// treat the market as not yet alerted.
func (m *Monitor) alreadyAlerted(ctx context.Context, marketID string) bool {
	if m.cache == nil {
		return false
	}
	sent, err := m.cache.WasAlerted(ctx, marketID)
	if err != nil {
		m.logger.WarnContext(ctx, "alert cache lookup failed",
			slog.String("market_id", marketID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return sent
}

func (m *Monitor) markAlerted(ctx context.Context, marketID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.MarkAlerted(ctx, marketID); err != nil {
		m.logger.WarnContext(ctx, "alert cache store failed",
			slog.String("market_id", marketID),
			slog.String("error", err.Error()),
		)
	}
}
