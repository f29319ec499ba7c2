// Package discovery finds active cricket markets on Polymarket. It merges
// two sources (related-markets walks from known cricket market IDs, plus a
// keyword-classified scan of the flat market listing), deduplicates by market
// ID, and enriches each candidate with its detail record.
package discovery

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cricsage/cricketwatch/internal/domain"
)

// cricketKeywords classifies a market as cricket-related when any entry
// appears as a case-insensitive substring of the market's question, slug, or
// event slug. The list mixes IPL team nicknames with generic cricket terms.
var cricketKeywords = []string{
	"vs", "knight riders", "super kings", "capitals",
	"indians", "royals", "sunrisers", "kings", "titans",
	"super giants", "ipl", "cricket", "t20",
}

// MarketSource is the subset of the Gamma client that discovery needs.
type MarketSource interface {
	GetMarkets(ctx context.Context, limit, offset int) ([]domain.Market, error)
	GetMarket(ctx context.Context, id string) (domain.Market, error)
	GetRelatedMarkets(ctx context.Context, id string, limit int) ([]domain.Market, error)
}

// Config holds discovery parameters.
type Config struct {
	// ReferenceIDs are known cricket market IDs used to seed the
	// related-markets walk.
	ReferenceIDs []string
	// ListLimit is the page size for the direct market listing.
	ListLimit int
	// RelatedLimit is the page size for each related-markets request.
	RelatedLimit int
}

// Service discovers and filters cricket markets.
type Service struct {
	source MarketSource
	cfg    Config
	logger *slog.Logger
}

// NewService creates a discovery Service.
func NewService(source MarketSource, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "discovery")),
	}
}

// Discover returns the deduplicated set of active cricket markets, enriched
// with detail records, ordered with in-window matches (game start time
// present and not yet past) before undated ones. Individual fetch failures
// are logged and skipped; discovery only fails when nothing could be
// fetched at all. Results are never cached across runs.
func (s *Service) Discover(ctx context.Context) ([]domain.Market, error) {
	var candidates []domain.Market

	// 1. Walk related markets for each reference ID.
	for _, refID := range s.cfg.ReferenceIDs {
		related, err := s.source.GetRelatedMarkets(ctx, refID, s.cfg.RelatedLimit)
		if err != nil {
			s.logger.WarnContext(ctx, "related markets fetch failed",
				slog.String("reference_id", refID),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.logger.InfoContext(ctx, "related markets fetched",
			slog.String("reference_id", refID),
			slog.Int("count", len(related)),
		)
		candidates = append(candidates, related...)
	}

	// 2. Keyword scan of the flat listing.
	listed, err := s.source.GetMarkets(ctx, s.cfg.ListLimit, 0)
	if err != nil {
		s.logger.WarnContext(ctx, "market listing fetch failed",
			slog.String("error", err.Error()),
		)
	} else {
		matched := 0
		for _, m := range listed {
			if ClassifyCricket(&m) {
				candidates = append(candidates, m)
				matched++
			}
		}
		s.logger.InfoContext(ctx, "market listing scanned",
			slog.Int("listed", len(listed)),
			slog.Int("cricket", matched),
		)
	}

	// 3. Dedupe by ID preserving first-seen order, drop closed markets, and
	// enrich each survivor with its detail record (the listing omits
	// gameStartTime).
	seen := make(map[string]bool, len(candidates))
	var started, undated []domain.Market
	now := time.Now().UTC()

	for _, m := range candidates {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		if m.Closed {
			continue
		}

		detail, err := s.source.GetMarket(ctx, m.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "market detail fetch failed, keeping listing record",
				slog.String("market_id", m.ID),
				slog.String("error", err.Error()),
			)
			undated = append(undated, m)
			continue
		}

		if detail.GameStartTime != nil {
			if !detail.GameStartTime.Before(now) {
				started = append(started, detail)
			}
			// Matches already past their window are dropped.
			continue
		}
		undated = append(undated, detail)
	}

	out := append(started, undated...)
	s.logger.InfoContext(ctx, "discovery complete",
		slog.Int("in_window", len(started)),
		slog.Int("undated", len(undated)),
	)
	return out, nil
}

// ClassifyCricket reports whether a market looks cricket-related: any fixed
// keyword appears as a case-insensitive substring of the concatenated
// question, slug, and event slug.
func ClassifyCricket(m *domain.Market) bool {
	text := m.SearchText()
	for _, kw := range cricketKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// FilterByTerm narrows markets to those matching the search term. A market
// matches when the lowercased term is a substring of its searchable text. If
// the term contains a " vs " separator, a market also matches when both
// trimmed halves appear independently, so either team order matches.
//
// When a non-empty term matches nothing, FilterByTerm returns the input set
// unchanged and reports fellBack=true so callers can tell the user the term
// was ignored. Callers prefer seeing everything over seeing nothing.
func FilterByTerm(markets []domain.Market, term string) (results []domain.Market, fellBack bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return markets, false
	}

	var teamA, teamB string
	if i := strings.Index(term, " vs "); i >= 0 {
		teamA = strings.TrimSpace(term[:i])
		teamB = strings.TrimSpace(term[i+len(" vs "):])
	}

	var matched []domain.Market
	for _, m := range markets {
		text := m.SearchText()
		if strings.Contains(text, term) {
			matched = append(matched, m)
			continue
		}
		if teamA != "" && teamB != "" &&
			strings.Contains(text, teamA) && strings.Contains(text, teamB) {
			matched = append(matched, m)
		}
	}

	if len(matched) == 0 {
		return markets, true
	}
	return matched, false
}

// SortByGameStart orders markets most-recently-started first. Markets without
// a game start time sort ahead of dated ones (a missing timestamp is treated
// as the maximum value, matching the legacy ordering).
func SortByGameStart(markets []domain.Market) {
	sort.SliceStable(markets, func(i, j int) bool {
		ti, tj := startOrMax(&markets[i]), startOrMax(&markets[j])
		return ti.After(tj)
	})
}

func startOrMax(m *domain.Market) time.Time {
	if m.GameStartTime == nil {
		// Far-future sentinel.
		return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return *m.GameStartTime
}
