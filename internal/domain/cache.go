package domain

import "context"

// AlertCache records which markets have already triggered an initial
// high-probability alert so a restarted monitor does not re-send them.
// Implementations must be safe to disable: a nil-backed implementation
// reports nothing as alerted and never fails the caller.
type AlertCache interface {
	// WasAlerted reports whether an initial alert was already sent for the
	// market within the cache's retention window.
	WasAlerted(ctx context.Context, marketID string) (bool, error)
	// MarkAlerted records that an initial alert has been sent.
	MarkAlerted(ctx context.Context, marketID string) error
}
