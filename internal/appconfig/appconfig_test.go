// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// clearEnv makes the test independent of the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "http://ai-api.hubble-rpc.xyz", cfg.HubbleBaseURL())
	assert.Equal(t, "hubbleWorkflow", cfg.Workflow())
	assert.Equal(t, "https://quickchart-proxy.vercel.app/api/chart", cfg.ChartEndpoint())
	assert.Equal(t, "hubble-tool.log", cfg.LogFilePath())
	assert.NoError(t, cfg.Validate())
}

func TestAccessorsUseConfiguredValues(t *testing.T) {
	cfg := Config{
		HubbleURL:      "http://localhost:4111/",
		HubbleWorkflow: "custom",
		ChartURL:       "http://charts.local/chart",
		TimeoutSeconds: 5,
		LogFile:        "logs/x.log",
	}
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "http://localhost:4111", cfg.HubbleBaseURL())
	assert.Equal(t, "custom", cfg.Workflow())
	assert.Equal(t, "http://charts.local/chart", cfg.ChartEndpoint())
	assert.Equal(t, "logs/x.log", cfg.LogFilePath())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		cfg   Config
		field string
	}{
		"hubble url":   {Config{HubbleURL: "not a url"}, "HubbleURL"},
		"chart url":    {Config{ChartURL: "::"}, "ChartURL"},
		"timeout":      {Config{TimeoutSeconds: -1}, "TimeoutSeconds"},
		"chart width":  {Config{ChartWidth: -5}, "ChartWidth"},
		"chart format": {Config{ChartFormat: "gif"}, "ChartFormat"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tc.field)
		})
	}

	ok := Config{HubbleURL: "http://127.0.0.1:8080", ChartURL: "https://x.test/c", ChartFormat: "svg", ChartWidth: 500}
	assert.NoError(t, ok.Validate())
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		"hubbleUrl": "http://localhost:4111",
		"hubbleWorkflow": "wf",
		"hubbleApiKey": "from-file",
		"chartWidth": 640,
		"chartHeight": 480,
		"chartFormat": "png",
		"timeout": 12,
		"debug": true
	}`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "http://localhost:4111", cfg.HubbleURL)
	assert.Equal(t, "wf", cfg.Workflow())
	assert.Equal(t, "from-file", cfg.HubbleAPIKey)
	assert.Equal(t, 640, cfg.ChartWidth)
	assert.Equal(t, 480, cfg.ChartHeight)
	assert.Equal(t, "png", cfg.ChartFormat)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.Debug)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"hubbleApiKey": "from-file", "hubbleUrl": "http://file.local"}`)
	t.Setenv("HUBBLE_API_KEY", "from-env")
	t.Setenv("HUBBLE_CHART_URL", "http://charts.env/api")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.HubbleAPIKey)
	assert.Equal(t, "http://file.local", cfg.HubbleURL)
	assert.Equal(t, "http://charts.env/api", cfg.ChartEndpoint())
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HUBBLE_URL", "http://env.local")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigPath)
	assert.Equal(t, "http://env.local", cfg.HubbleBaseURL())
}

func TestLoadMissingDefaultFileIsTolerated(t *testing.T) {
	clearEnv(t)
	{
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}

	cfg, err := Load(viper.New(), DefaultConfigPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigPath)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(viper.New(), writeConfig(t, `{not json`))
	assert.Error(t, err)

	_, err = Load(viper.New(), writeConfig(t, `{"timeout": -3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TimeoutSeconds")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("abc"))
	assert.Equal(t, "******7890", MaskSecret("1234567890"))
}

func TestShowConfig(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	ShowConfig(&buf, Config{HubbleAPIKey: "supersecretkey", ConfigPath: "config/config.json", TimeoutSeconds: 5})
	out := buf.String()

	assert.Contains(t, out, "Config file: config/config.json")
	assert.Contains(t, out, "http://ai-api.hubble-rpc.xyz (default)")
	assert.Contains(t, out, "**********tkey")
	assert.NotContains(t, out, "supersecretkey")
	assert.Contains(t, out, "5s")
	assert.NotContains(t, out, "5s (default)")

	buf.Reset()
	ShowConfig(&buf, Config{})
	assert.Contains(t, buf.String(), "No config file loaded (using defaults).")
	assert.Contains(t, buf.String(), "(not set)")
}
