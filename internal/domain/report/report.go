package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ogw/sanity-backend/internal/domain/runner"
)

// RunReport is one persisted sanity-run result. The engine itself does not
// persist anything; the dashboard layer stores the RunResult it receives as
// one of these.
type RunReport struct {
	ID            uuid.UUID
	ScenarioID    string
	ScenarioName  string
	Environment   string
	Success       bool
	OrderID       string
	CorrelationID string
	CustomerID    string
	Error         string
	Steps         []runner.StepResult
	CreatedAt     time.Time
}

// NewRunReport builds a report from the result of one engine invocation.
func NewRunReport(scenarioID, scenarioName, environment string, result runner.RunResult) *RunReport {
	return &RunReport{
		ID:            uuid.New(),
		ScenarioID:    scenarioID,
		ScenarioName:  scenarioName,
		Environment:   environment,
		Success:       result.Success,
		OrderID:       result.OrderID,
		CorrelationID: result.CorrelationID,
		CustomerID:    result.CustomerID,
		Error:         result.Error,
		Steps:         result.Steps,
		CreatedAt:     time.Now(),
	}
}

// Filter narrows report listings.
type Filter struct {
	ScenarioID  string
	Environment string
	Page        int
	PageSize    int
}

// Repository is the persistence boundary for run reports.
type Repository interface {
	Save(ctx context.Context, report *RunReport) error
	FindByID(ctx context.Context, id uuid.UUID) (*RunReport, error)
	FindAll(ctx context.Context, filter Filter) ([]RunReport, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecentRun is the lightweight entry kept in the recent-runs cache for the
// dashboard's recent-tests view.
type RecentRun struct {
	ReportID    uuid.UUID `json:"reportId"`
	ScenarioID  string    `json:"scenarioId"`
	Environment string    `json:"environment"`
	Success     bool      `json:"success"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// RecentCache keeps the most recent run outcomes in arrival order.
type RecentCache interface {
	Push(ctx context.Context, entry RecentRun) error
	List(ctx context.Context, limit int) ([]RecentRun, error)
}
