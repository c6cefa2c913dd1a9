package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func reportQuery() (string, int64) {
	return "SELECT * FROM run_reports WHERE scenario_id = $1", 3
}

func TestGormLoggerLogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	derived := gormLog.LogMode(gormlogger.Warn)

	// Original is unchanged
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)

	derivedGorm, ok := derived.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, derivedGorm.logLevel)
}

func TestGormLoggerLevelGating(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

	gormLog.Info(context.Background(), "migrating %s", "run_reports")
	gormLog.Warn(context.Background(), "warning")
	gormLog.Error(context.Background(), "error")

	assert.Empty(t, recorded.All())

	gormLog, recorded = newObservedGormLogger(gormlogger.Info)
	gormLog.Info(context.Background(), "migrating %s", "run_reports")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "migrating run_reports")
}

func TestGormLoggerTraceError(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), reportQuery, errors.New("connection reset"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLoggerTraceRecordNotFoundSuppressed(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), reportQuery, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceSlowQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Warn)

	// Pretend the query started well past the slow threshold
	begin := time.Now().Add(-time.Second)
	gormLog.Trace(context.Background(), begin, reportQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLoggerTraceNormalQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	gormLog.Trace(context.Background(), time.Now(), reportQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
}

func TestGormLoggerTraceSilent(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

	gormLog.Trace(context.Background(), time.Now(), reportQuery, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceCorrelationFields(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")
	ctx, _ = WithScenarioID(ctx, zap.NewNop(), "get-order")

	gormLog.Trace(ctx, time.Now(), reportQuery, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	fields := map[string]string{}
	for _, f := range logs[0].Context {
		if f.Type == zapcore.StringType {
			fields[f.Key] = f.String
		}
	}
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "get-order", fields["scenario_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
