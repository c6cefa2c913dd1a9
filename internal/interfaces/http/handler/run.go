package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	runnerapp "github.com/ogw/sanity-backend/internal/application/runner"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/infrastructure/logger"
	"github.com/ogw/sanity-backend/internal/interfaces/http/dto"
	"github.com/ogw/sanity-backend/internal/interfaces/http/middleware"
)

// Runner executes sanity scenarios against a configured environment.
type Runner interface {
	Execute(ctx context.Context, scenarioID string, cfg runner.EnvironmentConfig, overrides map[string]string) (runner.RunResult, error)
	Scenarios() []runnerapp.ScenarioInfo
}

// ReportSaver persists finished run results.
type ReportSaver interface {
	SaveResult(ctx context.Context, scenarioID, scenarioName, environment string, result runner.RunResult) (*report.RunReport, error)
}

// RunHandler handles scenario execution endpoints.
type RunHandler struct {
	BaseHandler
	runner      Runner
	reports     ReportSaver
	baseConfig  runner.EnvironmentConfig
	environment string
	log         *zap.Logger
}

// NewRunHandler creates a new RunHandler. baseConfig and environment come from
// the server configuration and are used when a run request omits them.
func NewRunHandler(r Runner, reports ReportSaver, baseConfig runner.EnvironmentConfig, environment string, log *zap.Logger) *RunHandler {
	return &RunHandler{
		runner:      r,
		reports:     reports,
		baseConfig:  baseConfig,
		environment: environment,
		log:         log,
	}
}

// Execute runs one scenario end to end and stores the resulting report.
// The call blocks until the scenario finishes or the request context is
// cancelled, so response times are dominated by completion polling.
func (h *RunHandler) Execute(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	scenario, ok := h.findScenario(req.ScenarioID)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeUnknownScenario, "Unknown scenario: "+req.ScenarioID)
		return
	}

	environment := req.Environment
	if environment == "" {
		environment = h.environment
	}
	cfg := req.Config.ApplyTo(h.baseConfig)

	ctx, log := logger.WithScenarioID(c.Request.Context(), h.log, req.ScenarioID)
	log.Info("starting scenario run",
		zap.String("environment", environment),
		zap.String("host", cfg.Endpoint.Host))

	result, err := h.runner.Execute(ctx, req.ScenarioID, cfg, req.Overrides)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.RunResponse{
		ScenarioID:  req.ScenarioID,
		Environment: environment,
		Result:      result,
	}

	saved, err := h.reports.SaveResult(ctx, req.ScenarioID, scenario.Name, environment, result)
	if err != nil {
		// The run itself finished; losing the report is not a reason to
		// report the run as failed.
		log.Warn("failed to persist run report", zap.Error(err))
	} else {
		resp.ReportID = saved.ID.String()
	}

	log.Info("scenario run finished",
		zap.Bool("success", result.Success),
		zap.Int("steps", len(result.Steps)))

	h.Success(c, resp)
}

// ListScenarios returns all registered scenarios with their step plans.
func (h *RunHandler) ListScenarios(c *gin.Context) {
	h.Success(c, h.runner.Scenarios())
}

func (h *RunHandler) findScenario(id string) (runnerapp.ScenarioInfo, bool) {
	for _, s := range h.runner.Scenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return runnerapp.ScenarioInfo{}, false
}
