package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melmove/parking-viewer/services/api/logging"
)

// These tests reconfigure the global logger and therefore do not run in parallel.

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	logging.Ctx(ctx).Info().Str("source", "local").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line should be JSON")
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "local", entry["source"])
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	tests := map[string]struct {
		level string

		wantDebug bool
		wantWarn  bool
	}{
		"debug shows everything":  {level: "debug", wantDebug: true, wantWarn: true},
		"default is info":         {level: "", wantDebug: false, wantWarn: true},
		"error hides warnings":    {level: "error", wantDebug: false, wantWarn: false},
		"unknown level uses info": {level: "loud", wantDebug: false, wantWarn: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			logging.Init(logging.Config{Level: tc.level, Output: &buf})
			t.Cleanup(func() { logging.Init(logging.Config{}) })

			logging.Debug().Msg("debug-line")
			logging.Warn().Msg("warn-line")

			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug-line")))
			assert.Equal(t, tc.wantWarn, bytes.Contains(buf.Bytes(), []byte("warn-line")))
		})
	}
}

func TestRequestIDFromContextWhenMissing(t *testing.T) {
	assert.Empty(t, logging.RequestIDFromContext(context.Background()))
}
