package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestInitLogsJSONWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	obs := Init(Config{ServiceName: "league-night", Environment: "test", LogLevel: "info", Output: &buf})

	require.NotNil(t, obs.Tracer)
	require.NotNil(t, obs.Registry)

	obs.Logger.Debug("hidden")
	obs.Logger.Info("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["msg"])
	assert.Equal(t, "league-night", line["service"])
	assert.Equal(t, "test", line["environment"])
}
