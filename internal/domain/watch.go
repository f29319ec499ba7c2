package domain

import "time"

// WatchEntry is the monitor's per-market state. It is created when a market
// first exceeds the alert threshold, updated with a fresh breakdown each poll
// cycle, and deleted when the probability falls back to or under the
// threshold.
type WatchEntry struct {
	MarketID string
	Question string

	// InitialBreakdown is the probability breakdown captured when the alert
	// fired; it is included in the final "resolved" notification so operators
	// can see the delta.
	InitialBreakdown string

	// LatestBreakdown is the breakdown from the most recent successful poll.
	LatestBreakdown string

	AlertedAt time.Time
}
