package domain

import (
	"fmt"
	"strings"
	"time"
)

// Market is a snapshot of a Polymarket prediction market as returned by the
// Gamma API. Records are read-only: the system never mutates a market, only
// re-fetches it.
type Market struct {
	ID           string
	Question     string
	Slug         string
	EventSlug    string
	ConditionID  string
	ClobTokenIDs []string

	// Outcomes and OutcomePrices are index-aligned: Outcomes[i] is priced at
	// OutcomePrices[i]. Either may be empty when the API omitted or mangled
	// the field; callers must treat that as "no breakdown available".
	Outcomes      []string
	OutcomePrices []float64

	GameStartTime *time.Time
	StartDate     string
	EndDate       string

	Closed    bool
	Active    bool
	Volume    float64
	Liquidity float64
}

// HasBreakdown reports whether the market carries a usable outcome/price
// breakdown (both lists present and aligned).
func (m *Market) HasBreakdown() bool {
	return len(m.Outcomes) > 0 && len(m.Outcomes) == len(m.OutcomePrices)
}

// MaxOutcomePrice returns the highest outcome price, or 0 when the market has
// no usable breakdown.
func (m *Market) MaxOutcomePrice() float64 {
	if !m.HasBreakdown() {
		return 0
	}
	max := 0.0
	for _, p := range m.OutcomePrices {
		if p > max {
			max = p
		}
	}
	return max
}

// SearchText returns the lowercased concatenation of the market's question,
// slug, and event slug. Keyword classification and search-term filtering both
// match against this text.
func (m *Market) SearchText() string {
	return strings.ToLower(m.Question + " " + m.Slug + " " + m.EventSlug)
}

// NoBreakdown is the degraded breakdown text used when outcome or price data
// is missing or unparsable. Parse failures are non-fatal.
const NoBreakdown = "no breakdown available"

// Breakdown renders the outcome probabilities as one line per outcome, e.g.
//
//	  - Mumbai Indians: 65.0%
//	  - Chennai Super Kings: 35.0%
//
// It returns NoBreakdown when the market has no usable breakdown.
func (m *Market) Breakdown() string {
	if !m.HasBreakdown() {
		return NoBreakdown
	}
	lines := make([]string, 0, len(m.Outcomes))
	for i, outcome := range m.Outcomes {
		lines = append(lines, fmt.Sprintf("  - %s: %.1f%%", outcome, m.OutcomePrices[i]*100))
	}
	return strings.Join(lines, "\n")
}

// GameStartText renders the game start time for alerts and summaries,
// annotated with how long ago the match started (or that it has not started).
func (m *Market) GameStartText(now time.Time) string {
	if m.GameStartTime == nil {
		return "unknown"
	}
	start := *m.GameStartTime
	elapsed := now.Sub(start)
	switch {
	case elapsed < 0:
		return fmt.Sprintf("%s (hasn't started yet)", start.Format(time.RFC3339))
	case elapsed < time.Hour:
		return fmt.Sprintf("%s (started %d minutes ago)", start.Format(time.RFC3339), int(elapsed.Minutes()))
	default:
		return fmt.Sprintf("%s (started %.1f hours ago)", start.Format(time.RFC3339), elapsed.Hours())
	}
}

// Summary renders a multi-line human-readable description of the market:
// question, ID, game start, probabilities, dates, volume/liquidity, and the
// public event link when an event slug is known.
func (m *Market) Summary(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Market: %s\n", m.Question)
	fmt.Fprintf(&b, "Market ID: %s\n", m.ID)
	if m.GameStartTime != nil {
		fmt.Fprintf(&b, "Game Start Time: %s\n", m.GameStartText(now))
	}
	if m.HasBreakdown() {
		b.WriteString("Current probabilities:\n")
		for i, outcome := range m.Outcomes {
			fmt.Fprintf(&b, "  %s: %.2f%%\n", outcome, m.OutcomePrices[i]*100)
		}
	} else {
		b.WriteString("Current probability: not available\n")
	}
	if m.StartDate != "" {
		fmt.Fprintf(&b, "Market Start Date: %s\n", m.StartDate)
	}
	if m.EndDate != "" {
		fmt.Fprintf(&b, "Market End Date: %s\n", m.EndDate)
	}
	if m.Volume > 0 {
		fmt.Fprintf(&b, "Volume: $%.2f\n", m.Volume)
	}
	if m.Liquidity > 0 {
		fmt.Fprintf(&b, "Liquidity: $%.2f\n", m.Liquidity)
	}
	if m.EventSlug != "" {
		fmt.Fprintf(&b, "Link: https://polymarket.com/event/%s\n", m.EventSlug)
	}
	return b.String()
}
