package domain

// OddsFormat tags the notation a bookmaker quoted its odds in. The tag
// determines which parsing rule converts the raw value to decimal odds.
type OddsFormat string

const (
	OddsFormatDecimal    OddsFormat = "decimal"    // e.g. "1.90"
	OddsFormatFractional OddsFormat = "fractional" // e.g. "4/5"
	OddsFormatAmerican   OddsFormat = "american"   // e.g. "+150", "-200"
)

// OddsQuote is one bookmaker's quoted odds for a two-outcome match. Quotes
// are collected per analysis run and discarded afterwards.
type OddsQuote struct {
	Bookmaker string

	TeamA       string
	TeamAOdds   string
	TeamAFormat OddsFormat

	TeamB       string
	TeamBOdds   string
	TeamBFormat OddsFormat
}

// OrderbookSnapshot is a point-in-time view of a CLOB order book for one
// outcome token, used by the interactive market inspector.
type OrderbookSnapshot struct {
	TokenID string
	Bids    []PriceLevel
	Asks    []PriceLevel
}

// PriceLevel is a single bid or ask level.
type PriceLevel struct {
	Price float64
	Size  float64
}
