package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/minutedesk/mins-cli/config"
)

// renderOutput writes v to w in the requested format. The text form is
// produced by the caller-supplied renderer so each command controls its own
// human-readable layout.
func renderOutput(w io.Writer, format config.OutputFormat, v interface{}, text func(io.Writer) error) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return text(w)
	}
}

// truncate shortens s to maxLen characters for table display.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatFor resolves the effective output format: the --output flag when
// set, otherwise the configured default.
func formatFor(cfg *config.CLIConfig, flagValue string) (config.OutputFormat, error) {
	if flagValue == "" {
		if cfg != nil && cfg.OutputFormat != "" {
			return cfg.OutputFormat, nil
		}
		return config.OutputFormatText, nil
	}
	format := config.OutputFormat(flagValue)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format %q (valid: text, json, yaml)", flagValue)
	}
	return format, nil
}
