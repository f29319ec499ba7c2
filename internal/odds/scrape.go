package odds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cricsage/cricketwatch/internal/domain"
)

// browserUserAgent keeps bookmaker sites from serving the bot-blocked page.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Site is one bookmaker page to scrape.
type Site struct {
	Name string
	URL  string
}

// ScrapeSource collects quotes by scraping bookmaker match listings. Each
// site is fetched and parsed in turn; any failure is local to that site.
// Scraped odds are treated as decimal format.
type ScrapeSource struct {
	sites  []Site
	client *http.Client
	logger *slog.Logger
}

// NewScrapeSource creates a ScrapeSource over the given sites.
func NewScrapeSource(sites []Site, logger *slog.Logger) *ScrapeSource {
	return &ScrapeSource{
		sites:  sites,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With(slog.String("component", "odds_scrape")),
	}
}

// Name returns the source identifier.
func (s *ScrapeSource) Name() string {
	return "scrape"
}

// Collect scrapes every configured site for the fixture and returns at most
// one quote per site: the first match listing naming both teams.
func (s *ScrapeSource) Collect(ctx context.Context, teamA, teamB string, _ time.Time) ([]domain.OddsQuote, error) {
	var quotes []domain.OddsQuote
	for _, site := range s.sites {
		q, err := s.scrapeSite(ctx, site, teamA, teamB)
		if err != nil {
			s.logger.WarnContext(ctx, "site scrape failed",
				slog.String("site", site.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// scrapeSite fetches one bookmaker page and looks for a match listing
// containing both team names. Returns nil when the fixture is not listed.
func (s *ScrapeSource) scrapeSite(ctx context.Context, site Site, teamA, teamB string) (*domain.OddsQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, site.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", site.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", site.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", site.URL, err)
	}

	var quote *domain.OddsQuote
	doc.Find("div[class*='event-item']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".event-name").Text())
		if !strings.Contains(title, teamA) || !strings.Contains(title, teamB) {
			return true
		}

		oddsEls := sel.Find(".odds")
		if oddsEls.Length() < 2 {
			return true
		}

		quote = &domain.OddsQuote{
			Bookmaker:   site.Name,
			TeamA:       teamA,
			TeamAOdds:   strings.TrimSpace(oddsEls.Eq(0).Text()),
			TeamAFormat: domain.OddsFormatDecimal,
			TeamB:       teamB,
			TeamBOdds:   strings.TrimSpace(oddsEls.Eq(1).Text()),
			TeamBFormat: domain.OddsFormatDecimal,
		}
		return false
	})

	return quote, nil
}
