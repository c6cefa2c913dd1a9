package logger

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveLogged(t *testing.T, handler gin.HandlerFunc, pre ...gin.HandlerFunc) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()

	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	for _, mw := range pre {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/scenarios", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scenarios", nil)
	router.ServeHTTP(w, req)
	return w, recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	w, recorded := serveLogged(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	entry := requestEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/scenarios", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddlewareCarriesRequestID(t *testing.T) {
	_, recorded := serveLogged(t,
		func(c *gin.Context) { c.Status(http.StatusOK) },
		func(c *gin.Context) {
			c.Set("X-Request-ID", "test-req-123")
			c.Next()
		},
	)

	entry := requestEntry(t, recorded)
	assert.Equal(t, "test-req-123", entry.ContextMap()["request_id"])
}

func TestGinMiddlewareLevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"success", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, recorded := serveLogged(t, func(c *gin.Context) {
				c.Status(tt.status)
			})

			entry := requestEntry(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddlewareIncludesGinErrors(t *testing.T) {
	_, recorded := serveLogged(t, func(c *gin.Context) {
		_ = c.Error(assertableError("order status poll timed out"))
		c.Status(http.StatusBadGateway)
	})

	entry := requestEntry(t, recorded)
	errs := entry.ContextMap()["errors"]
	require.NotNil(t, errs)
	assert.Contains(t, fmt.Sprintf("%v", errs), "poll timed out")
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("template lookup failed")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "template lookup failed", entries[0].ContextMap()["error"])
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns request-scoped logger", func(t *testing.T) {
		_, recorded := serveLogged(t, func(c *gin.Context) {
			GetGinLogger(c).Info("scenario lookup", zap.String("scenario_id", "get-order"))
			c.Status(http.StatusOK)
		})

		entries := recorded.FilterMessage("scenario lookup").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "get-order", entries[0].ContextMap()["scenario_id"])
	})

	t.Run("nop logger outside middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		assert.NotNil(t, GetGinLogger(c))
	})
}
