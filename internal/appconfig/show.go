package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	labelColor   = color.New(color.FgCyan).SprintFunc()
	defaultColor = color.New(color.Faint).SprintFunc()
)

// MaskSecret hides all but the last four characters of s.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// ShowConfig prints the effective configuration. Values that fall back to a
// default are marked as such; the API key is masked.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	row := func(label, value string, isDefault bool) {
		if isDefault {
			value += " " + defaultColor("(default)")
		}
		fmt.Fprintf(out, "  %s %s\n", labelColor(fmt.Sprintf("%-16s", label+":")), value)
	}

	row("Hubble URL", cfg.HubbleBaseURL(), strings.TrimSpace(cfg.HubbleURL) == "")
	row("Hubble Workflow", cfg.Workflow(), strings.TrimSpace(cfg.HubbleWorkflow) == "")
	apiKey := MaskSecret(cfg.HubbleAPIKey)
	if apiKey == "" {
		apiKey = "(not set)"
	}
	row("Hubble API Key", apiKey, false)
	row("Chart URL", cfg.ChartEndpoint(), strings.TrimSpace(cfg.ChartURL) == "")
	if cfg.ChartWidth > 0 || cfg.ChartHeight > 0 {
		row("Chart Size", fmt.Sprintf("%dx%d", cfg.ChartWidth, cfg.ChartHeight), false)
	}
	if cfg.ChartFormat != "" {
		row("Chart Format", cfg.ChartFormat, false)
	}
	row("Timeout", cfg.RequestTimeout().String(), cfg.TimeoutSeconds <= 0)
	row("Log File", cfg.LogFilePath(), strings.TrimSpace(cfg.LogFile) == "")
	row("Debug", fmt.Sprintf("%v", cfg.Debug), false)
}
