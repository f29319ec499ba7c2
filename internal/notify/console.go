package notify

import (
	"context"
	"fmt"
	"io"
)

// ConsoleSender writes notifications to a writer, normally stdout. It is the
// default channel so alerts are visible even with no webhook configured.
type ConsoleSender struct {
	w io.Writer
}

// NewConsoleSender creates a ConsoleSender writing to w.
func NewConsoleSender(w io.Writer) *ConsoleSender {
	return &ConsoleSender{w: w}
}

// Send prints the title and body separated by a blank line.
func (c *ConsoleSender) Send(_ context.Context, title, body string) error {
	if _, err := fmt.Fprintf(c.w, "\n%s\n%s\n", title, body); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (c *ConsoleSender) Name() string {
	return "console"
}
