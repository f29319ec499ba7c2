package odds

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Match is one fixture read from the matches file.
type Match struct {
	TeamA string
	TeamB string
	Date  time.Time
}

// String renders the fixture for menus and logs.
func (m Match) String() string {
	return fmt.Sprintf("%s vs %s on %s", m.TeamA, m.TeamB, m.Date.Format("2006-01-02"))
}

// teamVariations maps IPL team short forms and nicknames to the canonical
// full name used by bookmakers and The Odds API.
var teamVariations = map[string][]string{
	"Mumbai Indians":              {"MI", "Mumbai", "Mumbai I"},
	"Chennai Super Kings":         {"CSK", "Chennai", "Chennai SK"},
	"Royal Challengers Bangalore": {"RCB", "Bangalore", "Royal Challengers"},
	"Kolkata Knight Riders":       {"KKR", "Kolkata", "Knight Riders"},
	"Delhi Capitals":              {"DC", "Delhi", "Capitals"},
	"Sunrisers Hyderabad":         {"SRH", "Hyderabad", "Sunrisers"},
	"Punjab Kings":                {"PBKS", "Punjab", "Kings XI Punjab"},
	"Rajasthan Royals":            {"RR", "Rajasthan", "Royals"},
	"Lucknow Super Giants":        {"LSG", "Lucknow", "Super Giants"},
	"Gujarat Titans":              {"GT", "Gujarat", "Titans"},
}

// CanonicalTeamName maps a team name variation to its canonical full name.
// Unknown names pass through unchanged.
func CanonicalTeamName(name string) string {
	for full, variations := range teamVariations {
		if name == full {
			return full
		}
		for _, v := range variations {
			if name == v {
				return full
			}
		}
	}
	return name
}

// ReadMatches parses the matches file. Each line is
// "Team A vs. Team B YYYY.MM.DD": the date is everything after the last
// space, and teams are split on " vs. ". Dots in the date are accepted in
// place of dashes. Malformed lines are skipped.
func ReadMatches(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("odds: open matches file: %w", err)
	}
	defer f.Close()

	var matches []Match
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lastSpace := strings.LastIndex(line, " ")
		if lastSpace < 0 {
			continue
		}
		teams := strings.TrimSpace(line[:lastSpace])
		rawDate := strings.TrimSpace(line[lastSpace+1:])

		teamA, teamB, ok := strings.Cut(teams, " vs. ")
		if !ok {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.ReplaceAll(rawDate, ".", "-"))
		if err != nil {
			continue
		}

		matches = append(matches, Match{
			TeamA: strings.TrimSpace(teamA),
			TeamB: strings.TrimSpace(teamB),
			Date:  date,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("odds: read matches file: %w", err)
	}

	return matches, nil
}
