package logr

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink(t *testing.T) {
	tests := []struct {
		name string
		min  slog.Leveler
		log  func(logger logr.Logger)
		want string
	}{
		{
			"info",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Info("resolved", "job", "deploy")
			},
			"level=INFO msg=resolved job=deploy\n",
		},
		{
			"error",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.Error(errors.New("woops"), "fetching config", "job", "deploy")
			},
			"level=ERROR msg=\"fetching config\" error=woops job=deploy\n",
		},
		{
			"debug",
			slog.LevelDebug,
			func(logger logr.Logger) {
				logger.V(1).Info("no strategy", "job", "deploy")
			},
			"level=DEBUG msg=\"no strategy\" job=deploy\n",
		},
		{
			"hide debug",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.V(1).Info("should not see this", "job", "deploy")
			},
			"",
		},
		{
			"with values",
			slog.LevelInfo,
			func(logger logr.Logger) {
				logger.WithValues("registry", "finder").Info("miss", "job", "deploy")
			},
			"level=INFO msg=miss registry=finder job=deploy\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bytes.Buffer
			logger := logr.New(newLogSink(slog.NewTextHandler(&got, newTestOptions(tt.min))))
			tt.log(logger)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var got bytes.Buffer
	logger, err := New(&Config{Format: string(JSONFormat), Verbosity: 1, Output: &got})
	require.NoError(t, err)

	logger.V(1).Info("resolved", "repo", "user/repo")

	var line map[string]any
	require.NoError(t, json.Unmarshal(got.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.Equal(t, "user/repo", line["repo"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(&Config{Format: "xml"})
	assert.Error(t, err)
}

func TestLoadConfigFromFlags(t *testing.T) {
	var cfg Config
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	LoadConfigFromFlags(flags, &cfg)

	require.NoError(t, flags.Parse([]string{"-v", "2", "--log-format", "json"}))
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, "json", cfg.Format)
}

func TestToSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, toSlogLevel(0))
	assert.Equal(t, slog.LevelDebug, toSlogLevel(1))
	assert.Equal(t, slog.Level(-5), toSlogLevel(2))
}

func newTestOptions(min slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: min,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
}
