package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "https://browser.engineering/", cfg.Home)
	assert.Equal(t, ViewportConfig{Width: 800, Height: 600}, cfg.Viewport)
	assert.Equal(t, LayoutConfig{HStep: 13, VStep: 18, ScrollStep: 100}, cfg.Layout)
	assert.Equal(t, "normal", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "none", cfg.Logging.FileLogger.Level)

	opts := cfg.BrowserOptions()
	assert.Equal(t, 800.0, opts.Width)
	assert.Equal(t, 600.0, opts.Height)
	assert.Equal(t, 100.0, opts.ScrollStep)
	assert.Empty(t, cfg.FontConfig().Regular)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
viewport:
  width: 1024
layout:
  scroll_step: 40
logging:
  console:
    level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Viewport.Width)
	assert.Equal(t, 600, cfg.Viewport.Height, "unset fields keep their defaults")
	assert.Equal(t, 40.0, cfg.Layout.ScrollStep)
	assert.Equal(t, 18.0, cfg.Layout.VStep)
	assert.Equal(t, "debug", cfg.Logging.ConsoleLogger.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown field":      "viewport:\n  depth: 3\n",
		"bad version":        "version: 2\n",
		"tiny viewport":      "viewport:\n  width: 10\n",
		"zero scroll step":   "layout:\n  scroll_step: 0\n",
		"bad level":          "logging:\n  console:\n    level: loud\n",
		"file without path":  "logging:\n  file:\n    level: debug\n",
		"missing font file":  "fonts:\n  regular: /no/such/font.ttf\n",
		"not yaml":           "viewport: [",
		"empty home locator": "home: \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDump_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Viewport.Width = 640

	data, err := Dump(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "width: 640")

	again, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestDefault_IsACopy(t *testing.T) {
	data := Default()
	data[0] = '#'
	assert.True(t, bytes.HasPrefix(Default(), []byte("version")))
}

type buffer struct{ bytes.Buffer }

func (*buffer) Sync() error { return nil }

func TestLoggingConfig_Console(t *testing.T) {
	var stdout, stderr buffer
	conf := LoggingConfig{
		ConsoleLogger: ConsoleLoggerConfig{Level: "normal"},
		FileLogger:    FileLoggerConfig{Level: "none"},
	}
	log := conf.build(&stdout, &stderr)
	log.Debug("hidden")
	log.Info("shown")
	log.Error("failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "shown")
	assert.NotContains(t, stdout.String(), "failed")
	assert.Contains(t, stderr.String(), "failed")
}

func TestLoggingConfig_None(t *testing.T) {
	var stdout, stderr buffer
	conf := LoggingConfig{
		ConsoleLogger: ConsoleLoggerConfig{Level: "none"},
		FileLogger:    FileLoggerConfig{Level: "none"},
	}
	log := conf.build(&stdout, &stderr)
	log.Error("dropped")
	assert.Zero(t, stdout.Len()+stderr.Len())
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestLoggingConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browser.log")
	var stdout, stderr buffer
	conf := LoggingConfig{
		ConsoleLogger: ConsoleLoggerConfig{Level: "none"},
		FileLogger:    FileLoggerConfig{Level: "debug", Destination: path, MaxSize: 1},
	}
	log := conf.build(&stdout, &stderr)
	log.Named("tab").Debug("Loaded page")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "Loaded page", entry["msg"])
	assert.Equal(t, "minibrowser.tab", entry["logger"])
	assert.Zero(t, stdout.Len())
}
