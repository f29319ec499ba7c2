package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cricsage/cricketwatch/internal/discovery"
	"github.com/cricsage/cricketwatch/internal/domain"
)

// DiscoverMode runs discovery once and prints a formatted summary of every
// matching market.
func (a *App) DiscoverMode(ctx context.Context, deps *Dependencies) error {
	markets, err := a.findMarkets(ctx, deps)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	fmt.Printf("Found %d cricket markets\n", len(markets))
	for i := range markets {
		fmt.Println()
		fmt.Println(markets[i].Summary(now))
	}

	return nil
}

// MonitorMode runs discovery, scans the result against the alert threshold,
// and polls the watch set until every market resolves or the context is
// cancelled. A final summary is printed on clean completion.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	markets, err := a.findMarkets(ctx, deps)
	if err != nil {
		return err
	}

	deps.Monitor.Scan(ctx, markets)
	a.logger.InfoContext(ctx, "initial scan complete",
		slog.Int("markets", len(markets)),
		slog.Int("watching", deps.Monitor.Watching()),
	)

	if err := deps.Monitor.Run(ctx); err != nil {
		return fmt.Errorf("app: monitor: %w", err)
	}

	now := time.Now().UTC()
	fmt.Printf("\nMonitoring complete. %d markets checked:\n", len(markets))
	for i := range markets {
		fmt.Println()
		fmt.Println(markets[i].Summary(now))
	}

	return nil
}

// InspectMode runs discovery, lists the matching markets, and interactively
// shows the full summary and order book for a selected market. Invalid input
// reprompts; "q" or end of input exits.
func (a *App) InspectMode(ctx context.Context, deps *Dependencies) error {
	markets, err := a.findMarkets(ctx, deps)
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		fmt.Println("No cricket markets found.")
		return nil
	}

	fmt.Printf("Found %d cricket markets:\n", len(markets))
	for i := range markets {
		fmt.Printf("  %d. %s\n", i+1, markets[i].Question)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Printf("\nSelect a market number (1-%d, q to quit): ", len(markets))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "q") {
			return nil
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(markets) {
			fmt.Println("Invalid selection.")
			continue
		}

		a.inspectMarket(ctx, deps, &markets[n-1])
	}
}

// findMarkets runs discovery and applies the search term filter and ordering
// shared by all modes.
func (a *App) findMarkets(ctx context.Context, deps *Dependencies) ([]domain.Market, error) {
	markets, err := deps.Discovery.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: discover: %w", err)
	}

	filtered, fellBack := discovery.FilterByTerm(markets, a.search)
	if fellBack {
		a.logger.InfoContext(ctx, "search term matched nothing, showing all markets",
			slog.String("search", a.search),
		)
	}
	discovery.SortByGameStart(filtered)

	return filtered, nil
}

// inspectMarket prints the market summary and the top of the order book for
// each outcome token. Order book failures are reported and skipped.
func (a *App) inspectMarket(ctx context.Context, deps *Dependencies, mkt *domain.Market) {
	fmt.Println()
	fmt.Println(mkt.Summary(time.Now().UTC()))

	for i, tokenID := range mkt.ClobTokenIDs {
		outcome := fmt.Sprintf("outcome %d", i+1)
		if i < len(mkt.Outcomes) {
			outcome = mkt.Outcomes[i]
		}

		book, err := deps.Clob.GetOrderBook(ctx, tokenID)
		if err != nil {
			fmt.Printf("\n%s: order book unavailable (%v)\n", outcome, err)
			continue
		}

		fmt.Printf("\n%s order book:\n", outcome)
		printLevels("  Bids", book.Bids)
		printLevels("  Asks", book.Asks)
	}
}

// printLevels prints the top three levels of one side of the book.
func printLevels(label string, levels []domain.PriceLevel) {
	fmt.Printf("%s:\n", label)
	if len(levels) == 0 {
		fmt.Println("    (empty)")
		return
	}
	for i, lvl := range levels {
		if i == 3 {
			break
		}
		fmt.Printf("    %.3f x %.2f\n", lvl.Price, lvl.Size)
	}
}
