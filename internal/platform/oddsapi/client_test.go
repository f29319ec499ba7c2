package oddsapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleEvents = `[
  {
    "id": "ev1",
    "sport_key": "cricket_ipl",
    "commence_time": "2026-04-12T14:00:00Z",
    "home_team": "Mumbai Indians",
    "away_team": "Chennai Super Kings",
    "bookmakers": [
      {
        "key": "bookie",
        "title": "Bookie",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Mumbai Indians", "price": 1.8},
              {"name": "Chennai Super Kings", "price": 2.1}
            ]
          },
          {
            "key": "totals",
            "outcomes": [{"name": "Over", "price": 1.9}]
          }
        ]
      }
    ]
  },
  {
    "id": "ev2",
    "sport_key": "cricket_ipl",
    "commence_time": "2026-04-19T14:00:00Z",
    "home_team": "Mumbai Indians",
    "away_team": "Chennai Super Kings",
    "bookmakers": []
  }
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:  srv.URL,
		APIKey:   "test-key",
		SportKey: "cricket_ipl",
		Regions:  "us,uk,eu,au",
	}, testLogger())
}

func TestCollectMatchesFixtureAndDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/v4/sports/cricket_ipl/odds/" {
			t.Errorf("path = %q", got)
		}
		if got := r.URL.Query().Get("markets"); got != "h2h" {
			t.Errorf("markets = %q, want h2h", got)
		}
		w.Write([]byte(sampleEvents))
	})

	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	quotes, err := client.Collect(context.Background(), "Mumbai Indians", "Chennai Super Kings", date)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// Only the h2h market of the event on the right date counts.
	if len(quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(quotes))
	}
	q := quotes[0]
	if q.Bookmaker != "Bookie" {
		t.Errorf("Bookmaker = %q", q.Bookmaker)
	}
	if q.TeamAOdds != "1.8" || q.TeamBOdds != "2.1" {
		t.Errorf("odds = %q / %q, want 1.8 / 2.1", q.TeamAOdds, q.TeamBOdds)
	}
}

func TestCollectReversedTeamOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sampleEvents))
	})

	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	quotes, err := client.Collect(context.Background(), "Chennai Super Kings", "Mumbai Indians", date)
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 1 {
		t.Fatalf("len(quotes) = %d, want 1", len(quotes))
	}
	// Sides follow the caller's ordering, not the API's home/away.
	if quotes[0].TeamA != "Chennai Super Kings" || quotes[0].TeamAOdds != "2.1" {
		t.Errorf("TeamA = %q @ %q, want Chennai Super Kings @ 2.1", quotes[0].TeamA, quotes[0].TeamAOdds)
	}
}

func TestCollectWithoutAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://api.invalid"}, testLogger())
	quotes, err := client.Collect(context.Background(), "A", "B", time.Now())
	if err != nil {
		t.Fatalf("Collect without key = %v, want nil", err)
	}
	if quotes != nil {
		t.Fatalf("quotes = %v, want none", quotes)
	}
}
