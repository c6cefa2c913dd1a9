package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
)

// RunReportModel is the persistence model for a stored sanity-run result.
// The step trail is kept as one jsonb document; steps are only ever read
// back as a whole, never queried individually.
type RunReportModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ScenarioID    string    `gorm:"type:varchar(100);not null;index"`
	ScenarioName  string    `gorm:"type:varchar(200);not null"`
	Environment   string    `gorm:"type:varchar(100);not null;index"`
	Success       bool      `gorm:"not null;index"`
	OrderID       string    `gorm:"type:varchar(50)"`
	CorrelationID string    `gorm:"column:ogw_order_id;type:varchar(100);index"`
	CustomerID    string    `gorm:"type:varchar(50)"`
	Error         string    `gorm:"type:text"`
	StepsJSON     string    `gorm:"column:steps;type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (RunReportModel) TableName() string {
	return "run_reports"
}

// RunReportModelFromDomain converts a domain report into its persistence model.
func RunReportModelFromDomain(rep *report.RunReport) (*RunReportModel, error) {
	steps, err := json.Marshal(rep.Steps)
	if err != nil {
		return nil, err
	}
	return &RunReportModel{
		ID:            rep.ID,
		ScenarioID:    rep.ScenarioID,
		ScenarioName:  rep.ScenarioName,
		Environment:   rep.Environment,
		Success:       rep.Success,
		OrderID:       rep.OrderID,
		CorrelationID: rep.CorrelationID,
		CustomerID:    rep.CustomerID,
		Error:         rep.Error,
		StepsJSON:     string(steps),
		CreatedAt:     rep.CreatedAt,
	}, nil
}

// ToDomain converts the persistence model to a domain report.
func (m *RunReportModel) ToDomain() (*report.RunReport, error) {
	steps := make([]runner.StepResult, 0)
	if m.StepsJSON != "" {
		if err := json.Unmarshal([]byte(m.StepsJSON), &steps); err != nil {
			return nil, err
		}
	}
	return &report.RunReport{
		ID:            m.ID,
		ScenarioID:    m.ScenarioID,
		ScenarioName:  m.ScenarioName,
		Environment:   m.Environment,
		Success:       m.Success,
		OrderID:       m.OrderID,
		CorrelationID: m.CorrelationID,
		CustomerID:    m.CustomerID,
		Error:         m.Error,
		Steps:         steps,
		CreatedAt:     m.CreatedAt,
	}, nil
}
