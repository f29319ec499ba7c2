// Package notify delivers threshold alerts to one or more channels. The
// console sender is always useful for an operator watching the terminal;
// Discord and Telegram senders are wired in when credentials are configured.
// Delivery is best effort: a failed send never interrupts monitoring.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Event identifies the kind of alert being sent, so operators can subscribe
// to a subset.
type Event string

const (
	// EventAlert fires when a market first crosses the alert threshold.
	EventAlert Event = "alert"
	// EventStillHigh fires on each poll while a watched market stays above
	// the threshold.
	EventStillHigh Event = "still_high"
	// EventResolved fires when a watched market drops back below the
	// threshold and leaves the watch list.
	EventResolved Event = "resolved"
)

// Sender is a single delivery channel.
type Sender interface {
	// Send delivers a notification with the given title and body.
	Send(ctx context.Context, title, body string) error
	// Name identifies the channel in logs ("console", "discord", ...).
	Name() string
}

// Notifier fans a notification out to every registered sender, filtered by
// event type. An empty event list means all events pass.
type Notifier struct {
	senders []Sender
	allowed map[Event]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders. Only events
// named in events are forwarded; an empty slice allows everything.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[Event]bool, len(events))
	for _, e := range events {
		allowed[Event(strings.TrimSpace(e))] = true
	}
	return &Notifier{
		senders: senders,
		allowed: allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify delivers to all senders when the event type is allowed. Sender
// failures are logged and joined into the returned error; one channel failing
// never blocks the others.
func (n *Notifier) Notify(ctx context.Context, event Event, title, body string) error {
	if len(n.allowed) > 0 && !n.allowed[event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", string(event)),
		)
		return nil
	}

	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, title, body); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("event", string(event)),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %w", errors.Join(errs...))
	}
	return nil
}
