package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	runnerapp "github.com/ogw/sanity-backend/internal/application/runner"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/domain/shared"
	"github.com/ogw/sanity-backend/internal/interfaces/http/middleware"
)

// MockRunner implements Runner for testing
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Execute(ctx context.Context, scenarioID string, cfg runner.EnvironmentConfig, overrides map[string]string) (runner.RunResult, error) {
	args := m.Called(ctx, scenarioID, cfg, overrides)
	return args.Get(0).(runner.RunResult), args.Error(1)
}

func (m *MockRunner) Scenarios() []runnerapp.ScenarioInfo {
	args := m.Called()
	return args.Get(0).([]runnerapp.ScenarioInfo)
}

// MockReportSaver implements ReportSaver for testing
type MockReportSaver struct {
	mock.Mock
}

func (m *MockReportSaver) SaveResult(ctx context.Context, scenarioID, scenarioName, environment string, result runner.RunResult) (*report.RunReport, error) {
	args := m.Called(ctx, scenarioID, scenarioName, environment, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.RunReport), args.Error(1)
}

func defaultEnvironmentConfig() runner.EnvironmentConfig {
	return runner.EnvironmentConfig{
		Auth:     runner.Credentials{Username: "sanity", Password: "secret"},
		Endpoint: runner.EndpointConfig{Host: "https://gateway.example.com:7443"},
	}
}

func scenarioList() []runnerapp.ScenarioInfo {
	return []runnerapp.ScenarioInfo{
		{ID: "cable-submit-order", Name: "Cable Submit Order", Steps: []string{"SubmitOrder (GenerateContract)"}},
		{ID: "legacy-search", Name: "Legacy Search", Steps: []string{"LegacySearch"}},
	}
}

func setupRunHandler(t *testing.T, r Runner, saver ReportSaver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	h := NewRunHandler(r, saver, defaultEnvironmentConfig(), "staging", zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/runs", h.Execute)
	router.GET("/api/v1/scenarios", h.ListScenarios)
	return router
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRunHandlerExecuteSuccess(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	result := runner.RunResult{
		Success:       true,
		OrderID:       "123456789",
		CorrelationID: "OGW-42",
		Message:       "Cable Submit Order completed successfully.",
	}
	reportID := uuid.New()

	mockRunner.On("Scenarios").Return(scenarioList())
	mockRunner.On("Execute", mock.Anything, "cable-submit-order",
		mock.MatchedBy(func(cfg runner.EnvironmentConfig) bool {
			// Run request overrides auth, keeps the server's endpoint.
			return cfg.Auth.Username == "override" &&
				cfg.Endpoint.Host == "https://gateway.example.com:7443"
		}),
		mock.Anything).Return(result, nil)
	mockSaver.On("SaveResult", mock.Anything, "cable-submit-order", "Cable Submit Order", "staging", result).
		Return(&report.RunReport{ID: reportID, CreatedAt: time.Now()}, nil)

	w := performRequest(router, http.MethodPost, "/api/v1/runs", map[string]any{
		"scenarioId": "cable-submit-order",
		"config": map[string]any{
			"auth": map[string]string{"username": "override", "password": "pw"},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, reportID.String(), gjson.Get(body, "data.reportId").String())
	assert.Equal(t, "staging", gjson.Get(body, "data.environment").String())
	assert.Equal(t, "OGW-42", gjson.Get(body, "data.result.ogwOrderId").String())
	mockRunner.AssertExpectations(t)
	mockSaver.AssertExpectations(t)
}

func TestRunHandlerExecuteUnknownScenario(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	mockRunner.On("Scenarios").Return(scenarioList())

	w := performRequest(router, http.MethodPost, "/api/v1/runs", map[string]any{
		"scenarioId": "unknown-scenario",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_UNKNOWN_SCENARIO", gjson.Get(w.Body.String(), "error.code").String())
	mockSaver.AssertNotCalled(t, "SaveResult")
}

func TestRunHandlerExecuteMissingScenarioID(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	w := performRequest(router, http.MethodPost, "/api/v1/runs", map[string]any{
		"environment": "staging",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", gjson.GetBytes(w.Body.Bytes(), "error.code").String())
	assert.Equal(t, "scenarioId", gjson.GetBytes(w.Body.Bytes(), "error.details.0.field").String())
	mockRunner.AssertNotCalled(t, "Execute")
}

func TestRunHandlerExecuteEngineError(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	mockRunner.On("Scenarios").Return(scenarioList())
	mockRunner.On("Execute", mock.Anything, "cable-submit-order", mock.Anything, mock.Anything).
		Return(runner.RunResult{}, shared.NewDomainError("INVALID_INPUT", "endpoint host is required"))

	w := performRequest(router, http.MethodPost, "/api/v1/runs", map[string]any{
		"scenarioId": "cable-submit-order",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_INVALID_INPUT", gjson.Get(w.Body.String(), "error.code").String())
	mockSaver.AssertNotCalled(t, "SaveResult")
}

func TestRunHandlerExecuteSaveFailureStillSucceeds(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	result := runner.RunResult{Success: false, Error: "SetOrderStatus failed for OrderLineID 2"}

	mockRunner.On("Scenarios").Return(scenarioList())
	mockRunner.On("Execute", mock.Anything, "legacy-search", mock.Anything, mock.Anything).
		Return(result, nil)
	mockSaver.On("SaveResult", mock.Anything, "legacy-search", "Legacy Search", "qa", result).
		Return(nil, errors.New("connection refused"))

	w := performRequest(router, http.MethodPost, "/api/v1/runs", map[string]any{
		"scenarioId":  "legacy-search",
		"environment": "qa",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Empty(t, gjson.Get(body, "data.reportId").String())
	assert.False(t, gjson.Get(body, "data.result.success").Bool())
}

func TestRunHandlerListScenarios(t *testing.T) {
	mockRunner := new(MockRunner)
	mockSaver := new(MockReportSaver)
	router := setupRunHandler(t, mockRunner, mockSaver)

	mockRunner.On("Scenarios").Return(scenarioList())

	w := performRequest(router, http.MethodGet, "/api/v1/scenarios", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(2), gjson.Get(body, "data.#").Int())
	assert.Equal(t, "cable-submit-order", gjson.Get(body, "data.0.id").String())
}
