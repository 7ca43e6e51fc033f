// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mwiater/hubble-tool/internal/chart"
	"github.com/mwiater/hubble-tool/internal/hubble"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for outbound HTTP requests.
	defaultRequestTimeout = 60 * time.Second
	// defaultLogFile is used when the config omits logFile.
	defaultLogFile = "hubble-tool.log"
)

// Config represents the top-level application configuration.
type Config struct {
	HubbleURL      string `json:"hubbleUrl,omitempty" mapstructure:"hubbleUrl" validate:"omitempty,url"`
	HubbleWorkflow string `json:"hubbleWorkflow,omitempty" mapstructure:"hubbleWorkflow"`
	HubbleAPIKey   string `json:"hubbleApiKey,omitempty" mapstructure:"hubbleApiKey"`
	ChartURL       string `json:"chartUrl,omitempty" mapstructure:"chartUrl" validate:"omitempty,url"`
	ChartWidth     int    `json:"chartWidth,omitempty" mapstructure:"chartWidth" validate:"gte=0"`
	ChartHeight    int    `json:"chartHeight,omitempty" mapstructure:"chartHeight" validate:"gte=0"`
	ChartFormat    string `json:"chartFormat,omitempty" mapstructure:"chartFormat" validate:"omitempty,oneof=png jpg webp svg pdf"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"hubbleApiKey": "HUBBLE_API_KEY",
	"hubbleUrl":    "HUBBLE_URL",
	"chartUrl":     "HUBBLE_CHART_URL",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HubbleBaseURL returns the workflow service base URL.
func (c Config) HubbleBaseURL() string {
	if u := strings.TrimSpace(c.HubbleURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return hubble.DefaultBaseURL
}

// Workflow returns the Hubble workflow id.
func (c Config) Workflow() string {
	if w := strings.TrimSpace(c.HubbleWorkflow); w != "" {
		return w
	}
	return hubble.DefaultWorkflow
}

// ChartEndpoint returns the chart rendering endpoint.
func (c Config) ChartEndpoint() string {
	if u := strings.TrimSpace(c.ChartURL); u != "" {
		return u
	}
	return chart.DefaultEndpoint
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// Validate checks field constraints and reports every failing field at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "invalid configuration")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return errors.Newf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Load materializes a Config from v. Environment bindings are registered on v,
// and the JSON file at path is read when it exists. A missing file is only an
// error when path is not the default location.
func Load(v *viper.Viper, path string) (Config, error) {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "bind %s", env)
		}
	}

	used := ""
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			if !isNotFound(err) || path != DefaultConfigPath {
				return Config{}, errors.Wrapf(err, "could not read config file %q", path)
			}
		} else {
			used = path
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	cfg.ConfigPath = used
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, os.ErrNotExist) || errors.As(err, &nf)
}
