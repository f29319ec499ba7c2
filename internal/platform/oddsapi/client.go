package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cricsage/cricketwatch/internal/domain"
	"github.com/cricsage/cricketwatch/internal/odds"
)

// Client fetches head-to-head odds from The Odds API. It implements the
// quote source contract used by the odds analyzer.
type Client struct {
	baseURL    string
	apiKey     string
	sportKey   string
	regions    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds The Odds API parameters.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.the-odds-api.com".
	BaseURL string
	// APIKey authenticates requests. An empty key disables the source.
	APIKey string
	// SportKey selects the competition, e.g. "cricket_ipl".
	SportKey string
	// Regions is the comma-separated bookmaker regions filter.
	Regions string
}

// NewClient creates a Client for The Odds API.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		sportKey:   cfg.SportKey,
		regions:    cfg.Regions,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With(slog.String("component", "oddsapi")),
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return "the-odds-api"
}

// Collect fetches h2h odds for the sport and returns one quote per bookmaker
// covering the fixture. Team names are canonicalized before comparison, and
// either home/away order matches. Only events commencing on the match date
// count.
func (c *Client) Collect(ctx context.Context, teamA, teamB string, date time.Time) ([]domain.OddsQuote, error) {
	if c.apiKey == "" {
		c.logger.DebugContext(ctx, "no api key configured, skipping")
		return nil, nil
	}

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", "h2h")

	reqURL := fmt.Sprintf("%s/v4/sports/%s/odds/?%s", c.baseURL, url.PathEscape(c.sportKey), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("oddsapi: %w: %s", domain.ErrUnauthorized, string(body))
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("oddsapi: %w: %s", domain.ErrRateLimited, string(body))
	default:
		return nil, fmt.Errorf("oddsapi: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var events []apiEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("oddsapi: decode response: %w", err)
	}

	return c.quotesForFixture(events, teamA, teamB, date), nil
}

func (c *Client) quotesForFixture(events []apiEvent, teamA, teamB string, date time.Time) []domain.OddsQuote {
	var quotes []domain.OddsQuote
	for _, ev := range events {
		home := odds.CanonicalTeamName(ev.HomeTeam)
		away := odds.CanonicalTeamName(ev.AwayTeam)
		if !((home == teamA && away == teamB) || (home == teamB && away == teamA)) {
			continue
		}

		commence, err := time.Parse(time.RFC3339, ev.CommenceTime)
		if err != nil || !sameDate(commence.UTC(), date) {
			continue
		}

		for _, bm := range ev.Bookmakers {
			for _, market := range bm.Markets {
				if market.Key != "h2h" {
					continue
				}

				var oddsA, oddsB float64
				for _, outcome := range market.Outcomes {
					switch odds.CanonicalTeamName(outcome.Name) {
					case teamA:
						oddsA = outcome.Price
					case teamB:
						oddsB = outcome.Price
					}
				}
				if oddsA == 0 || oddsB == 0 {
					continue
				}

				quotes = append(quotes, domain.OddsQuote{
					Bookmaker:   bm.Title,
					TeamA:       teamA,
					TeamAOdds:   strconv.FormatFloat(oddsA, 'f', -1, 64),
					TeamAFormat: domain.OddsFormatDecimal,
					TeamB:       teamB,
					TeamBOdds:   strconv.FormatFloat(oddsB, 'f', -1, 64),
					TeamBFormat: domain.OddsFormatDecimal,
				})
			}
		}
	}
	return quotes
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
