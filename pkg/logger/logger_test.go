package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerInit(t *testing.T) {
	require.NoError(t, Init())
	defer func() {
		assert.NoError(t, Sync())
	}()

	assert.NotNil(t, Get())
}

func TestLoggerInit_UnknownFormat(t *testing.T) {
	err := Init(WithFormat("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(WithWriter(&buf)))
	SetLevel(slog.LevelInfo)

	Get().Info(context.Background(), "loaded records", Int("records", 3), String("driver", "csv"))

	out := buf.String()
	assert.Contains(t, out, "loaded records")
	assert.Contains(t, out, "records=3")
	assert.Contains(t, out, "driver=csv")
	assert.Contains(t, out, "logger_test.go", "source should point at the calling file")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(WithFormat(FormatJSON), WithWriter(&buf)))
	SetLevel(slog.LevelInfo)

	Get().Warn(context.Background(), "slow filter", Float64("ms", 12.5), Error(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "slow filter", entry["msg"])
	assert.InDelta(t, 12.5, entry["ms"], 0.0001)
}

func TestLoggerTint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(WithFormat("TINT"), WithWriter(&buf)))
	SetLevel(slog.LevelInfo)

	Get().Info(context.Background(), "serving dashboard")
	assert.Contains(t, buf.String(), "serving dashboard")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(WithWriter(&buf)))
	require.NoError(t, SetLevelString("warn"))
	defer SetLevel(slog.LevelInfo)

	ctx := context.Background()
	Get().Info(ctx, "hidden")
	Get().Debug(ctx, "hidden too")
	Get().Error(ctx, "visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Equal(t, slog.LevelWarn, Level())
}

func TestSetLevelString(t *testing.T) {
	defer SetLevel(slog.LevelInfo)

	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		require.NoError(t, SetLevelString(in), in)
		assert.Equal(t, want, Level(), in)
	}

	assert.Error(t, SetLevelString("verbose"))
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(WithWriter(&buf)))
	SetLevel(slog.LevelInfo)

	Named("source").Info(context.Background(), "opened", String("path", "athlete_events.csv"))
	assert.True(t, strings.Contains(buf.String(), "source.path=athlete_events.csv"))
}
