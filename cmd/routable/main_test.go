package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routable/internal/observability"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ROUTABLE_TEST_VALUE", "set")

	assert.Equal(t, "set", getEnvOrDefault("ROUTABLE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("ROUTABLE_TEST_UNSET", "fallback"))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"on", false, true},
		{"false", true, false},
		{"off", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ROUTABLE_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, getEnvBool("ROUTABLE_TEST_BOOL", tt.def))
		})
	}
}

func TestParseFlags(t *testing.T) {
	t.Setenv("ROUTABLE_CONFIG_PATH", "/etc/routable.yaml")
	t.Setenv("ROUTABLE_WATCH", "true")

	flags := parseFlags(nil)
	assert.Equal(t, "/etc/routable.yaml", flags.configPath)
	assert.True(t, flags.watch)
	assert.Empty(t, flags.logLevel)

	flags = parseFlags([]string{"-config", "local.yaml", "-log-level", "warn", "-watch=false", "-version"})
	assert.Equal(t, "local.yaml", flags.configPath)
	assert.Equal(t, "warn", flags.logLevel)
	assert.False(t, flags.watch)
	assert.True(t, flags.showVersion)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, simulatorConfigYAML)

	cfg, err := loadConfig(cliFlags{configPath: path, logLevel: "error", logFormat: "console"})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Observability.Logging.Level)
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
	assert.Len(t, cfg.Navigations, 4)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(cliFlags{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	path := writeConfig(t, simulatorConfigYAML)
	_, err = loadConfig(cliFlags{configPath: path, logLevel: "chatty"})
	assert.Error(t, err)
}

func TestFatalWithSync(t *testing.T) {
	var code int
	original := exitFunc
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = original })

	fatalWithSync(observability.NopLogger(), "boom")
	assert.Equal(t, 1, code)
}

func TestShutdown_WithoutServers(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	assert.NotPanics(t, func() { shutdown(app, nil, observability.NopLogger()) })
}
