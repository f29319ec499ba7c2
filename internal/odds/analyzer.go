package odds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cricsage/cricketwatch/internal/domain"
)

// QuoteSource collects head-to-head odds quotes for a fixture. Sources are
// queried strictly in order; each call completes before the next begins.
type QuoteSource interface {
	Collect(ctx context.Context, teamA, teamB string, date time.Time) ([]domain.OddsQuote, error)
	Name() string
}

// Prediction is the aggregated result for one fixture.
type Prediction struct {
	TeamA           string
	TeamB           string
	Date            time.Time
	TeamAWinPct     float64
	TeamBWinPct     float64
	PredictedWinner string
	WinPct          float64
	Quotes          []domain.OddsQuote
	// Synthetic is true when no real quotes could be collected and the
	// fixed sample set was substituted. Sample data never mixes with
	// genuine quotes.
	Synthetic bool
}

// Analyzer aggregates quotes from multiple sources into a Prediction.
type Analyzer struct {
	sources []QuoteSource
	logger  *slog.Logger
}

// NewAnalyzer creates an Analyzer querying the given sources in order.
func NewAnalyzer(sources []QuoteSource, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		sources: sources,
		logger:  logger.With(slog.String("component", "odds")),
	}
}

// Analyze collects quotes for the fixture, converts each side to an implied
// probability, and averages per side. The side with the higher average is
// the predicted winner; percentages are rounded to two decimal places. A
// source failure is logged and skipped. When no source yields quotes, the
// synthetic sample set is substituted and the result is flagged.
func (a *Analyzer) Analyze(ctx context.Context, teamA, teamB string, date time.Time) (Prediction, error) {
	var quotes []domain.OddsQuote
	for _, src := range a.sources {
		collected, err := src.Collect(ctx, teamA, teamB, date)
		if err != nil {
			a.logger.WarnContext(ctx, "quote source failed",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}
		quotes = append(quotes, collected...)
	}

	pred := Prediction{TeamA: teamA, TeamB: teamB, Date: date}

	if len(quotes) == 0 {
		a.logger.WarnContext(ctx, "no quotes collected, substituting sample data",
			slog.String("team_a", teamA),
			slog.String("team_b", teamB),
		)
		quotes = SampleQuotes(teamA, teamB)
		pred.Synthetic = true
	}
	pred.Quotes = quotes

	var sumA, sumB float64
	var nA, nB int
	for _, q := range quotes {
		if dec, err := ToDecimal(q.TeamAOdds, q.TeamAFormat); err == nil {
			if p, ok := ImpliedProbability(dec); ok {
				sumA += p
				nA++
			}
		}
		if dec, err := ToDecimal(q.TeamBOdds, q.TeamBFormat); err == nil {
			if p, ok := ImpliedProbability(dec); ok {
				sumB += p
				nB++
			}
		}
	}

	if nA == 0 && nB == 0 {
		return Prediction{}, fmt.Errorf("odds: %s vs %s: %w", teamA, teamB, domain.ErrNoQuotes)
	}

	if nA > 0 {
		pred.TeamAWinPct = round2(sumA / float64(nA) * 100)
	}
	if nB > 0 {
		pred.TeamBWinPct = round2(sumB / float64(nB) * 100)
	}

	if pred.TeamAWinPct > pred.TeamBWinPct {
		pred.PredictedWinner = teamA
		pred.WinPct = pred.TeamAWinPct
	} else {
		pred.PredictedWinner = teamB
		pred.WinPct = pred.TeamBWinPct
	}

	return pred, nil
}

// SampleQuotes returns the fixed synthetic quote set used when no real odds
// could be collected. Callers must surface the Synthetic flag so sample data
// is never mistaken for live market odds.
func SampleQuotes(teamA, teamB string) []domain.OddsQuote {
	return []domain.OddsQuote{
		{
			Bookmaker:   "Sample Bookmaker 1",
			TeamA:       teamA,
			TeamAOdds:   "1.90",
			TeamAFormat: domain.OddsFormatDecimal,
			TeamB:       teamB,
			TeamBOdds:   "2.10",
			TeamBFormat: domain.OddsFormatDecimal,
		},
		{
			Bookmaker:   "Sample Bookmaker 2",
			TeamA:       teamA,
			TeamAOdds:   "4/5",
			TeamAFormat: domain.OddsFormatFractional,
			TeamB:       teamB,
			TeamBOdds:   "11/10",
			TeamBFormat: domain.OddsFormatFractional,
		},
		{
			Bookmaker:   "Sample Bookmaker 3",
			TeamA:       teamA,
			TeamAOdds:   "1.85",
			TeamAFormat: domain.OddsFormatDecimal,
			TeamB:       teamB,
			TeamBOdds:   "2.05",
			TeamBFormat: domain.OddsFormatDecimal,
		},
	}
}
