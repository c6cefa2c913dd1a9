package statusstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/ogw/sanity-backend/internal/domain/runner"
)

// SimulatedSource stands in when neither a proxy nor a direct connection is
// configured. It converges like the real store does: the first checks report
// lines in flight, later checks report them complete. Runs against it
// exercise the full workflow without a backing store.
type SimulatedSource struct {
	lines            int
	callsUntilDone   int
	mu               sync.Mutex
	callsPerCorrelID map[string]int
}

// NewSimulatedSource creates a simulated store that reports the given number
// of order lines, completing on the callsUntilDone-th check.
func NewSimulatedSource(lines, callsUntilDone int) *SimulatedSource {
	if lines < 1 {
		lines = 2
	}
	if callsUntilDone < 1 {
		callsUntilDone = 2
	}
	return &SimulatedSource{
		lines:            lines,
		callsUntilDone:   callsUntilDone,
		callsPerCorrelID: make(map[string]int),
	}
}

func (s *SimulatedSource) OrderLineStatuses(_ context.Context, correlationID string) ([]runner.StatusRow, error) {
	s.mu.Lock()
	s.callsPerCorrelID[correlationID]++
	calls := s.callsPerCorrelID[correlationID]
	s.mu.Unlock()

	status := "P"
	if calls >= s.callsUntilDone {
		status = runner.StatusComplete
	}
	rows := make([]runner.StatusRow, 0, s.lines)
	for i := 1; i <= s.lines; i++ {
		rows = append(rows, runner.StatusRow{
			Status:    status,
			LineID:    strconv.Itoa(i),
			ErrorCode: runner.NoErrorCode,
		})
	}
	return rows, nil
}
