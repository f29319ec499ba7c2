// Package odds normalizes bookmaker odds to decimal format, derives implied
// win probabilities, and aggregates quotes from multiple sources into a
// simple match prediction.
package odds

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cricsage/cricketwatch/internal/domain"
)

var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// ToDecimal converts a raw odds string to decimal odds. The declared format
// routes the parse; an empty format falls back to sniffing the string shape
// (plain number, "num/denom", or "+N"/"-N"). An unrecognized or malformed
// value returns a wrapped domain.ErrUnknownOddsFormat, which callers treat as
// a missing data point rather than a batch failure.
func ToDecimal(raw string, format domain.OddsFormat) (float64, error) {
	raw = strings.TrimSpace(raw)

	switch format {
	case domain.OddsFormatDecimal:
		return parseDecimal(raw)
	case domain.OddsFormatFractional:
		return parseFractional(raw)
	case domain.OddsFormatAmerican:
		return parseAmerican(raw)
	case "":
		// Sniff.
		if decimalPattern.MatchString(raw) {
			return parseDecimal(raw)
		}
		if strings.Contains(raw, "/") {
			return parseFractional(raw)
		}
		if strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-") {
			return parseAmerican(raw)
		}
		return 0, fmt.Errorf("odds: %q: %w", raw, domain.ErrUnknownOddsFormat)
	default:
		return 0, fmt.Errorf("odds: format %q: %w", format, domain.ErrUnknownOddsFormat)
	}
}

// ImpliedProbability converts decimal odds to an implied win probability.
// Odds at or below 1.0 carry no meaningful probability; ok is false.
func ImpliedProbability(decimalOdds float64) (float64, bool) {
	if decimalOdds > 1.0 {
		return 1 / decimalOdds, true
	}
	return 0, false
}

func parseDecimal(raw string) (float64, error) {
	if !decimalPattern.MatchString(raw) {
		return 0, fmt.Errorf("odds: decimal %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("odds: decimal %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	return v, nil
}

func parseFractional(raw string) (float64, error) {
	num, denom, ok := strings.Cut(raw, "/")
	if !ok {
		return 0, fmt.Errorf("odds: fractional %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	n, nerr := strconv.Atoi(strings.TrimSpace(num))
	d, derr := strconv.Atoi(strings.TrimSpace(denom))
	if nerr != nil || derr != nil || d == 0 {
		return 0, fmt.Errorf("odds: fractional %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	return 1 + float64(n)/float64(d), nil
}

func parseAmerican(raw string) (float64, error) {
	if len(raw) < 2 {
		return 0, fmt.Errorf("odds: american %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	v, err := strconv.Atoi(raw[1:])
	if err != nil || v == 0 {
		return 0, fmt.Errorf("odds: american %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
	switch raw[0] {
	case '+':
		return 1 + float64(v)/100, nil
	case '-':
		return 1 + 100/float64(v), nil
	default:
		return 0, fmt.Errorf("odds: american %q: %w", raw, domain.ErrUnknownOddsFormat)
	}
}

// round2 rounds to two decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
