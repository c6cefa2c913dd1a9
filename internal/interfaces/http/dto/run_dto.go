package dto

import (
	"time"

	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
)

// RunRequest is the payload for starting one scenario run. Config may be
// omitted when the server carries a default environment; fields given here
// override the server defaults per run.
type RunRequest struct {
	ScenarioID  string            `json:"scenarioId" binding:"required"`
	Environment string            `json:"environment"`
	Config      *RunConfig        `json:"config"`
	Overrides   map[string]string `json:"customTemplates"`
}

// RunConfig carries per-run connection parameters.
type RunConfig struct {
	Auth        *RunAuth        `json:"auth"`
	Endpoint    *RunEndpoint    `json:"endpoint"`
	StatusStore *RunStatusStore `json:"statusStore"`
}

// RunAuth is the basic-auth pair for the gateway.
type RunAuth struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RunEndpoint locates the transaction gateway.
type RunEndpoint struct {
	Host string `json:"host" binding:"required,url"`
}

// RunStatusStore carries order-status store connection parameters.
type RunStatusStore struct {
	ProxyURL       string `json:"proxyUrl" binding:"omitempty,url"`
	Hostname       string `json:"hostname"`
	Port           string `json:"port"`
	ConnectionType string `json:"connectionType" binding:"omitempty,oneof=SID SERVICE_NAME"`
	SID            string `json:"sid"`
	ServiceName    string `json:"serviceName"`
	Username       string `json:"username"`
	Password       string `json:"password"`
}

// ApplyTo folds the request's config over a base environment config. Absent
// sections leave the base values untouched.
func (rc *RunConfig) ApplyTo(base runner.EnvironmentConfig) runner.EnvironmentConfig {
	if rc == nil {
		return base
	}
	if rc.Auth != nil {
		base.Auth = runner.Credentials{Username: rc.Auth.Username, Password: rc.Auth.Password}
	}
	if rc.Endpoint != nil {
		base.Endpoint = runner.EndpointConfig{Host: rc.Endpoint.Host}
	}
	if rc.StatusStore != nil {
		base.StatusStore = runner.StatusStoreConfig{
			ProxyURL:       rc.StatusStore.ProxyURL,
			Hostname:       rc.StatusStore.Hostname,
			Port:           rc.StatusStore.Port,
			ConnectionType: rc.StatusStore.ConnectionType,
			SID:            rc.StatusStore.SID,
			ServiceName:    rc.StatusStore.ServiceName,
			Username:       rc.StatusStore.Username,
			Password:       rc.StatusStore.Password,
		}
	}
	return base
}

// RunResponse is the outcome of one scenario run plus the stored report ID.
type RunResponse struct {
	ReportID    string           `json:"reportId,omitempty"`
	ScenarioID  string           `json:"scenarioId"`
	Environment string           `json:"environment"`
	Result      runner.RunResult `json:"result"`
}

// ReportResponse is the API shape of one stored run report.
type ReportResponse struct {
	ID            string              `json:"id"`
	ScenarioID    string              `json:"scenarioId"`
	ScenarioName  string              `json:"scenarioName"`
	Environment   string              `json:"environment"`
	Success       bool                `json:"success"`
	OrderID       string              `json:"orderId,omitempty"`
	CorrelationID string              `json:"ogwOrderId,omitempty"`
	CustomerID    string              `json:"customerId,omitempty"`
	Error         string              `json:"error,omitempty"`
	Steps         []runner.StepResult `json:"steps"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// NewReportResponse converts a domain report to its API shape.
func NewReportResponse(r *report.RunReport) ReportResponse {
	return ReportResponse{
		ID:            r.ID.String(),
		ScenarioID:    r.ScenarioID,
		ScenarioName:  r.ScenarioName,
		Environment:   r.Environment,
		Success:       r.Success,
		OrderID:       r.OrderID,
		CorrelationID: r.CorrelationID,
		CustomerID:    r.CustomerID,
		Error:         r.Error,
		Steps:         r.Steps,
		CreatedAt:     r.CreatedAt,
	}
}

// NewReportResponseList converts a page of domain reports.
func NewReportResponseList(reports []report.RunReport) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, NewReportResponse(&reports[i]))
	}
	return out
}
