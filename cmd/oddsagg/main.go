// Command oddsagg aggregates bookmaker odds for an IPL fixture and prints a
// probability-weighted prediction. The fixture is selected by its 1-based
// position in the matches file:
//
//	oddsagg 1
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cricsage/cricketwatch/internal/app"
	"github.com/cricsage/cricketwatch/internal/config"
	"github.com/cricsage/cricketwatch/internal/odds"
	"github.com/cricsage/cricketwatch/internal/platform/oddsapi"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	defer func() {
		if r := recover(); r != nil {
			app.RecoverPanic(slog.Default(), r)
			os.Exit(2)
		}
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	matches, err := odds.ReadMatches(cfg.Odds.MatchesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading matches: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("No matches found. Please check the matches file.")
		os.Exit(1)
	}

	if flag.NArg() < 1 {
		fmt.Println("Please provide the match number as a command line argument.")
		fmt.Println("For example: oddsagg 1")
		fmt.Println("\nAvailable matches:")
		for i, m := range matches {
			fmt.Printf("  %d. %s\n", i+1, m)
		}
		os.Exit(1)
	}

	matchNumber, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Println("Invalid match number. Please provide an integer.")
		os.Exit(1)
	}
	if matchNumber < 1 || matchNumber > len(matches) {
		fmt.Printf("Invalid match number. Please provide a number between 1 and %d.\n", len(matches))
		os.Exit(1)
	}
	match := matches[matchNumber-1]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sites := make([]odds.Site, 0, len(cfg.Odds.Sites))
	for _, s := range cfg.Odds.Sites {
		sites = append(sites, odds.Site{Name: s.Name, URL: s.URL})
	}

	analyzer := odds.NewAnalyzer([]odds.QuoteSource{
		odds.NewScrapeSource(sites, logger),
		oddsapi.NewClient(oddsapi.Config{
			BaseURL:  cfg.Odds.ApiHost,
			APIKey:   cfg.Odds.ApiKey,
			SportKey: cfg.Odds.SportKey,
			Regions:  cfg.Odds.Regions,
		}, logger),
	}, logger)

	fmt.Printf("Analyzing odds for %s vs %s on %s\n",
		match.TeamA, match.TeamB, match.Date.Format("2006-01-02"))

	pred, err := analyzer.Analyze(ctx, match.TeamA, match.TeamB, match.Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	printPrediction(pred)
}

func printPrediction(pred odds.Prediction) {
	banner := "=================================================="
	fmt.Println()
	fmt.Println(banner)
	fmt.Printf("MATCH ANALYSIS: %s vs %s on %s\n",
		pred.TeamA, pred.TeamB, pred.Date.Format("2006-01-02"))
	fmt.Println(banner)

	if pred.Synthetic {
		fmt.Println("\nWARNING: no live odds could be collected; the figures below")
		fmt.Println("are based on fixed sample data, not real bookmaker quotes.")
	}

	fmt.Printf("\nPlatforms analyzed: %d\n", len(pred.Quotes))

	fmt.Println("\nOdds Summary:")
	for _, q := range pred.Quotes {
		fmt.Printf("  %s: %s @ %s vs %s @ %s\n",
			q.Bookmaker, q.TeamA, q.TeamAOdds, q.TeamB, q.TeamBOdds)
	}

	fmt.Println("\nImplied Win Probabilities:")
	fmt.Printf("  %s: %.2f%%\n", pred.TeamA, pred.TeamAWinPct)
	fmt.Printf("  %s: %.2f%%\n", pred.TeamB, pred.TeamBWinPct)

	losePct := pred.TeamBWinPct
	if pred.PredictedWinner == pred.TeamB {
		losePct = pred.TeamAWinPct
	}
	fmt.Println("\nPREDICTION:")
	fmt.Printf("Based on the analysis of betting odds, %s has a %.2f%% chance of winning, while the opponent has a %.2f%% chance.\n",
		pred.PredictedWinner, pred.WinPct, losePct)
}
