package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/routable/internal/util"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultLogConfig()},
		{name: "empty", cfg: LogConfig{}},
		{name: "console stderr", cfg: LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "bad level", cfg: LogConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: LogConfig{Format: "xml"}, wantErr: true},
		{name: "bad output", cfg: LogConfig{Output: "/dev/void"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.With(String("class", "Catalog")).Info("navigation finished", String("to", "products"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "navigation finished", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Catalog", entry["class"])
	assert.Equal(t, "products", entry["to"])
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromZap(zap.New(core))

	ctx := util.ContextWithNavigationID(context.Background(), "nav-1")
	ctx = util.ContextWithPhase(ctx, "guardEnter")
	logger.WithContext(ctx).Info("guard blocked")
	logger.WithContext(context.Background()).Info("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "nav-1", fields["navigation_id"])
	assert.Equal(t, "guardEnter", fields["phase"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NopLogger()
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	assert.NotNil(t, logger.With(String("k", "v")))
	assert.NoError(t, logger.Sync())
}

func TestGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetGlobalLogger(NewLoggerFromZap(zap.New(core)))
	t.Cleanup(func() { SetGlobalLogger(nil) })

	GetGlobalLogger().Info("hello")
	assert.Equal(t, 1, logs.Len())

	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}
