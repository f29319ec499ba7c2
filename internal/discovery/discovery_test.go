package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/cricsage/cricketwatch/internal/domain"
)

type fakeSource struct {
	listed     []domain.Market
	related    map[string][]domain.Market
	details    map[string]domain.Market
	detailErrs map[string]error
	listErr    error
}

func (f *fakeSource) GetMarkets(context.Context, int, int) ([]domain.Market, error) {
	return f.listed, f.listErr
}

func (f *fakeSource) GetMarket(_ context.Context, id string) (domain.Market, error) {
	if err := f.detailErrs[id]; err != nil {
		return domain.Market{}, err
	}
	if m, ok := f.details[id]; ok {
		return m, nil
	}
	return domain.Market{}, domain.ErrNotFound
}

func (f *fakeSource) GetRelatedMarkets(_ context.Context, id string, _ int) ([]domain.Market, error) {
	return f.related[id], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func futureTime(t *testing.T) *time.Time {
	t.Helper()
	ts := time.Now().UTC().Add(2 * time.Hour)
	return &ts
}

func marketIDs(markets []domain.Market) []string {
	ids := make([]string, 0, len(markets))
	for _, m := range markets {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestDiscoverDeduplicates(t *testing.T) {
	shared := domain.Market{ID: "531894", Question: "MI vs CSK winner?", Slug: "mi-vs-csk"}

	src := &fakeSource{
		listed: []domain.Market{shared},
		related: map[string][]domain.Market{
			"531894": {shared},
			"531899": {shared},
		},
		details: map[string]domain.Market{
			"531894": shared,
		},
	}
	svc := NewService(src, Config{
		ReferenceIDs: []string{"531894", "531899"},
		ListLimit:    100,
		RelatedLimit: 50,
	}, testLogger())

	got, err := svc.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	count := 0
	for _, m := range got {
		if m.ID == "531894" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("market 531894 appears %d times, want exactly 1", count)
	}
}

func TestDiscoverDropsClosedAndPastMarkets(t *testing.T) {
	past := time.Now().UTC().Add(-3 * time.Hour)

	src := &fakeSource{
		listed: []domain.Market{
			{ID: "1", Question: "MI vs CSK", Closed: true},
			{ID: "2", Question: "RCB vs KKR cricket"},
			{ID: "3", Question: "DC vs RR t20"},
		},
		details: map[string]domain.Market{
			"2": {ID: "2", Question: "RCB vs KKR cricket", GameStartTime: &past},
			"3": {ID: "3", Question: "DC vs RR t20", GameStartTime: futureTime(t)},
		},
	}
	svc := NewService(src, Config{ListLimit: 100, RelatedLimit: 50}, testLogger())

	got, err := svc.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}

	if want := []string{"3"}; !reflect.DeepEqual(marketIDs(got), want) {
		t.Errorf("ids = %v, want %v", marketIDs(got), want)
	}
}

func TestDiscoverKeepsListingRecordOnDetailFailure(t *testing.T) {
	src := &fakeSource{
		listed: []domain.Market{
			{ID: "10", Question: "Sunrisers vs Titans"},
		},
		detailErrs: map[string]error{
			"10": errors.New("timeout"),
		},
	}
	svc := NewService(src, Config{ListLimit: 100, RelatedLimit: 50}, testLogger())

	got, err := svc.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "10" {
		t.Fatalf("got %v, want the listing record for market 10", marketIDs(got))
	}
}

func TestDiscoverIsIdempotent(t *testing.T) {
	src := &fakeSource{
		listed: []domain.Market{
			{ID: "1", Question: "MI vs CSK"},
			{ID: "2", Question: "RCB vs KKR"},
		},
		details: map[string]domain.Market{
			"1": {ID: "1", Question: "MI vs CSK"},
			"2": {ID: "2", Question: "RCB vs KKR"},
		},
	}
	svc := NewService(src, Config{ListLimit: 100, RelatedLimit: 50}, testLogger())

	first, err := svc.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated discovery differs:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestClassifyCricket(t *testing.T) {
	tests := []struct {
		name     string
		question string
		slug     string
		want     bool
	}{
		{name: "vs keyword", question: "Will MI vs CSK go to a super over?", want: true},
		{name: "team nickname", question: "Knight Riders to win the cup?", want: true},
		{name: "slug only", question: "Match winner?", slug: "ipl-2026-final", want: true},
		{name: "t20", question: "England T20 series winner", want: true},
		{name: "unrelated", question: "Will it rain in London tomorrow?", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.Market{Question: tt.question, Slug: tt.slug}
			if got := ClassifyCricket(&m); got != tt.want {
				t.Errorf("ClassifyCricket(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

func TestFilterByTerm(t *testing.T) {
	markets := []domain.Market{
		{ID: "1", Question: "Chennai Super Kings vs Mumbai Indians winner?"},
		{ID: "2", Question: "Royal Challengers Bangalore vs Kolkata Knight Riders"},
		{ID: "3", Question: "Delhi Capitals season total"},
	}

	tests := []struct {
		name         string
		term         string
		want         []string
		wantFellBack bool
	}{
		{name: "empty term returns all", term: "", want: []string{"1", "2", "3"}},
		{name: "substring match", term: "delhi", want: []string{"3"}},
		{name: "vs term either order", term: "Mumbai Indians vs Chennai Super Kings", want: []string{"1"}},
		{name: "no match falls back to all", term: "Perth Scorchers", want: []string{"1", "2", "3"}, wantFellBack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := FilterByTerm(markets, tt.term)
			if !reflect.DeepEqual(marketIDs(got), tt.want) {
				t.Errorf("FilterByTerm(%q) = %v, want %v", tt.term, marketIDs(got), tt.want)
			}
			if fellBack != tt.wantFellBack {
				t.Errorf("FilterByTerm(%q) fellBack = %v, want %v", tt.term, fellBack, tt.wantFellBack)
			}
		})
	}
}

func TestSortByGameStart(t *testing.T) {
	early := time.Now().UTC().Add(1 * time.Hour)
	late := time.Now().UTC().Add(5 * time.Hour)

	markets := []domain.Market{
		{ID: "early", GameStartTime: &early},
		{ID: "late", GameStartTime: &late},
		{ID: "undated"},
	}
	SortByGameStart(markets)

	want := []string{"undated", "late", "early"}
	if !reflect.DeepEqual(marketIDs(markets), want) {
		t.Errorf("order = %v, want %v", marketIDs(markets), want)
	}
}
