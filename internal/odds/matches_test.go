package odds

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMatchesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadMatches(t *testing.T) {
	path := writeMatchesFile(t, `Mumbai Indians vs. Chennai Super Kings 2026.04.12
Delhi Capitals vs. Rajasthan Royals 2026.04.16

not a valid line
Teams Without Date vs. Someone
`)

	matches, err := ReadMatches(path)
	if err != nil {
		t.Fatalf("ReadMatches returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}

	first := matches[0]
	if first.TeamA != "Mumbai Indians" || first.TeamB != "Chennai Super Kings" {
		t.Errorf("first match teams = %q vs %q", first.TeamA, first.TeamB)
	}
	wantDate := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(wantDate) {
		t.Errorf("first match date = %v, want %v", first.Date, wantDate)
	}

	if matches[1].TeamA != "Delhi Capitals" || matches[1].TeamB != "Rajasthan Royals" {
		t.Errorf("second match teams = %q vs %q", matches[1].TeamA, matches[1].TeamB)
	}
}

func TestReadMatchesMissingFile(t *testing.T) {
	if _, err := ReadMatches(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("ReadMatches on missing file returned nil error")
	}
}

func TestCanonicalTeamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MI", "Mumbai Indians"},
		{"Mumbai", "Mumbai Indians"},
		{"Chennai Super Kings", "Chennai Super Kings"},
		{"CSK", "Chennai Super Kings"},
		{"Kings XI Punjab", "Punjab Kings"},
		{"Somerset", "Somerset"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CanonicalTeamName(tt.in); got != tt.want {
				t.Errorf("CanonicalTeamName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
