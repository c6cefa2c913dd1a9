package runner

import "context"

// Terminal status codes and the error sentinel used by the order-status store.
const (
	// StatusComplete marks an order line whose status propagation finished.
	StatusComplete = "C"
	// StatusFailed marks an order line that failed deterministically.
	StatusFailed = "F"
	// NoErrorCode is the sentinel the store writes when a line carries no
	// error. Any other non-empty code is a hard failure.
	NoErrorCode = "OGWERR-0000"
)

// StatusRow is one order line row from the status store.
type StatusRow struct {
	Status    string
	LineID    string
	ErrorCode string
}

// StatusSource is the status-check collaborator boundary. Implementations
// query the external order-status store for all lines tracked under a
// correlation identifier.
type StatusSource interface {
	OrderLineStatuses(ctx context.Context, correlationID string) ([]StatusRow, error)
}

// ValueQuerier is an optional extension of StatusSource for scenarios that
// read a single auxiliary value (auftragId, barcode) from the store. Sources
// that cannot run arbitrary queries simply don't implement it and the engine
// falls back to a simulated value.
type ValueQuerier interface {
	QueryValue(ctx context.Context, query string) (string, error)
}

// PollOutcome is the result of one completion-polling cycle.
type PollOutcome struct {
	Success  bool
	Message  string
	Attempts int
	// LineIDs is present on success and seeds later per-line steps.
	LineIDs []string
}
