package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cricsage/cricketwatch/internal/domain"
)

// The Gamma API is loose about field encodings: booleans arrive as bools or
// strings, numbers as numbers or strings, and list fields either as raw JSON
// arrays or as JSON-encoded strings of arrays ("[\"Yes\",\"No\"]"). The flex*
// types below absorb all of that at the decode boundary so the rest of the
// code only ever sees typed values. Malformed fields decode to their zero
// value rather than failing the whole record.

// flexBool unmarshals from JSON bool or string ("true"/"false"/"1").
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// flexFloat unmarshals from a JSON number or a numeric string. Anything else
// decodes to 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*f = flexFloat(n)
		}
	}
	return nil
}

// flexStrings unmarshals a list field that may be a raw JSON array of strings
// or a JSON-encoded string containing such an array. Order of attempts:
// direct use, then string-decode, then empty.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	var direct []string
	if err := json.Unmarshal(data, &direct); err == nil {
		*f = direct
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var nested []string
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			*f = nested
			return nil
		}
	}
	*f = nil
	return nil
}

// flexPrices unmarshals a price list that may be an array of numeric strings,
// an array of numbers, or a JSON-encoded string of either. Elements that do
// not parse as floats void the whole list (a partial breakdown is worse than
// none).
type flexPrices []float64

func (f *flexPrices) UnmarshalJSON(data []byte) error {
	raw := data
	// Unwrap a string-encoded payload first.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = []byte(s)
	}

	var nums []float64
	if err := json.Unmarshal(raw, &nums); err == nil {
		*f = nums
		return nil
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		out := make([]float64, 0, len(strs))
		for _, v := range strs {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				*f = nil
				return nil
			}
			out = append(out, n)
		}
		*f = out
		return nil
	}

	*f = nil
	return nil
}

// APIMarket represents a market as returned by the Polymarket Gamma API.
type APIMarket struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Slug          string      `json:"slug"`
	EventSlug     string      `json:"eventSlug"`
	ConditionID   string      `json:"conditionId"`
	Outcomes      flexStrings `json:"outcomes"`      // raw array or JSON-encoded string
	OutcomePrices flexPrices  `json:"outcomePrices"` // raw array or JSON-encoded string
	ClobTokenIDs  flexStrings `json:"clobTokenIds"`  // raw array or JSON-encoded string
	GameStartTime string      `json:"gameStartTime"` // ISO-8601, Z-suffixed UTC
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	Closed        flexBool    `json:"closed"`
	Active        flexBool    `json:"active"`
	Volume        flexFloat   `json:"volume"`
	Liquidity     flexFloat   `json:"liquidity"`
}

// ToDomainMarket converts a Gamma APIMarket to a domain.Market. A breakdown
// whose outcome and price lists disagree in length is dropped entirely so the
// index-aligned invariant always holds downstream.
func (m *APIMarket) ToDomainMarket() domain.Market {
	dm := domain.Market{
		ID:           m.ID,
		Question:     m.Question,
		Slug:         m.Slug,
		EventSlug:    m.EventSlug,
		ConditionID:  m.ConditionID,
		ClobTokenIDs: []string(m.ClobTokenIDs),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Closed:       bool(m.Closed),
		Active:       bool(m.Active),
		Volume:       float64(m.Volume),
		Liquidity:    float64(m.Liquidity),
	}

	if len(m.Outcomes) > 0 && len(m.Outcomes) == len(m.OutcomePrices) {
		dm.Outcomes = []string(m.Outcomes)
		dm.OutcomePrices = []float64(m.OutcomePrices)
	}

	if m.GameStartTime != "" {
		if t, err := time.Parse(time.RFC3339, m.GameStartTime); err == nil {
			utc := t.UTC()
			dm.GameStartTime = &utc
		}
	}

	return dm
}

// --------------------------------------------------------------------------
// CLOB API DTOs
// --------------------------------------------------------------------------

// APIBook is an order book snapshot as returned by the CLOB /book endpoint.
type APIBook struct {
	Market  string          `json:"market"`
	AssetID string          `json:"asset_id"`
	Bids    []APIPriceLevel `json:"bids"`
	Asks    []APIPriceLevel `json:"asks"`
}

// APIPriceLevel is a single bid/ask level in the order book response.
type APIPriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// ToDomainSnapshot converts an APIBook to a domain.OrderbookSnapshot.
// Levels with unparsable prices or sizes are skipped.
func (b *APIBook) ToDomainSnapshot() domain.OrderbookSnapshot {
	snap := domain.OrderbookSnapshot{TokenID: b.AssetID}
	for _, lvl := range b.Bids {
		p, perr := strconv.ParseFloat(lvl.Price, 64)
		s, serr := strconv.ParseFloat(lvl.Size, 64)
		if perr != nil || serr != nil {
			continue
		}
		snap.Bids = append(snap.Bids, domain.PriceLevel{Price: p, Size: s})
	}
	for _, lvl := range b.Asks {
		p, perr := strconv.ParseFloat(lvl.Price, 64)
		s, serr := strconv.ParseFloat(lvl.Size, 64)
		if perr != nil || serr != nil {
			continue
		}
		snap.Asks = append(snap.Asks, domain.PriceLevel{Price: p, Size: s})
	}
	return snap
}
