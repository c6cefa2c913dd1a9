package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "nil config falls back to defaults", cfg: nil},
		{name: "empty config", cfg: &Config{}},
		{name: "debug console", cfg: &Config{Level: "debug", Format: "console", Output: "stdout"}},
		{name: "json to stderr", cfg: &Config{Level: "info", Format: "json", Output: "stderr"}},
		{name: "custom time format", cfg: &Config{Level: "warn", Format: "json", TimeFormat: "15:04:05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanity.log")

	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("run finished", zap.String("scenario", "get-order"))
	_ = Sync(log)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run finished")
	assert.Contains(t, string(data), "get-order")
}

func TestNewFileSinkUnwritable(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "sanity.log")})
	assert.Error(t, err)
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{Level: tt.level}
			assert.Equal(t, tt.expected, cfg.level())
		})
	}
}

func TestJSONOutputShape(t *testing.T) {
	var buf bytes.Buffer

	cfg := &Config{Level: "debug", Format: "json"}
	core := zapcore.NewCore(cfg.encoder(), zapcore.AddSync(&buf), cfg.level())
	log := zap.New(core)

	log.Info("submitting order", zap.String("orderId", "123456789"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "submitting order", out["msg"])
	assert.Equal(t, "info", out["level"])
	assert.Equal(t, "123456789", out["orderId"])
	assert.Contains(t, out, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	cfg := &Config{Level: "info", Format: "json"}
	core := zapcore.NewCore(cfg.encoder(), zapcore.AddSync(&buf), cfg.level())
	log := zap.New(core)

	log.Debug("polling attempt")
	assert.Empty(t, buf.String())

	log.Info("poll complete")
	assert.Contains(t, buf.String(), "poll complete")
}
