package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"go.uber.org/zap"
)

// Default retry budget for completion polling. The status store converges in
// a roughly uniform time, so the interval is fixed rather than backed off.
const (
	DefaultMaxAttempts  = 50
	DefaultPollInterval = 5 * time.Second
)

// Poller waits for the order-status store to reflect a terminal state for
// every line tracked under a correlation identifier.
type Poller struct {
	maxAttempts int
	interval    time.Duration
	log         *zap.Logger
	sleep       func(time.Duration)
}

// NewPoller creates a poller with the given retry budget. Zero values fall
// back to the defaults.
func NewPoller(maxAttempts int, interval time.Duration, log *zap.Logger) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		maxAttempts: maxAttempts,
		interval:    interval,
		log:         log,
		sleep:       time.Sleep,
	}
}

// WaitForCompletion polls source until every tracked order line reaches the
// complete status, a hard failure is observed, or the retry budget runs out.
// Transient query errors and empty result sets consume an attempt and are
// retried; they are never surfaced to the caller on their own.
func (p *Poller) WaitForCompletion(ctx context.Context, source runner.StatusSource, correlationID, label string) runner.PollOutcome {
	log := p.log.With(
		zap.String("correlation_id", correlationID),
		zap.String("label", label),
	)

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		rows, err := source.OrderLineStatuses(ctx, correlationID)
		if err != nil {
			log.Warn("Status query failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			p.wait(attempt)
			continue
		}

		if len(rows) == 0 {
			log.Debug("No status rows yet", zap.Int("attempt", attempt))
			p.wait(attempt)
			continue
		}

		allComplete := true
		lineIDs := make([]string, 0, len(rows))
		for _, row := range rows {
			if isNumeric(row.LineID) {
				lineIDs = append(lineIDs, row.LineID)
			}

			if row.Status == runner.StatusFailed {
				return runner.PollOutcome{
					Success:  false,
					Message:  fmt.Sprintf("SetOrderStatus failed for OrderLineID %s", row.LineID),
					Attempts: attempt,
				}
			}
			if row.ErrorCode != "" && row.ErrorCode != runner.NoErrorCode {
				return runner.PollOutcome{
					Success:  false,
					Message:  fmt.Sprintf("Error for OrderLineID %s: %s", row.LineID, row.ErrorCode),
					Attempts: attempt,
				}
			}
			if row.Status != runner.StatusComplete {
				allComplete = false
			}
		}

		if allComplete && len(lineIDs) > 0 {
			log.Info("All order lines completed",
				zap.Int("attempt", attempt),
				zap.Int("lines", len(lineIDs)),
			)
			return runner.PollOutcome{
				Success:  true,
				Message:  fmt.Sprintf("All %d order lines completed successfully", len(lineIDs)),
				Attempts: attempt,
				LineIDs:  lineIDs,
			}
		}

		p.wait(attempt)
	}

	return runner.PollOutcome{
		Success:  false,
		Message:  fmt.Sprintf("Timeout: Not all order lines reached status %s after %d attempts", runner.StatusComplete, p.maxAttempts),
		Attempts: p.maxAttempts,
	}
}

// wait sleeps the fixed interval between attempts. Nothing waits after the
// final attempt.
func (p *Poller) wait(attempt int) {
	if attempt < p.maxAttempts {
		p.sleep(p.interval)
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
