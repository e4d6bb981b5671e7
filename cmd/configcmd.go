package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/config"
)

// NewConfigCommand creates the 'config' command group.
func NewConfigCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the mins configuration",
	}

	cmd.AddCommand(newConfigShowCommand(deps))
	cmd.AddCommand(newConfigInitCommand(deps))

	return cmd
}

var configShowOutput string

func newConfigShowCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration after defaults, the config file, and
environment variables have been applied. Passwords are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	}
	cmd.Flags().StringVarP(&configShowOutput, "output", "o", "", "Output format: text, json, yaml")
	return cmd
}

func runConfigShow(deps *Deps) error {
	format, err := formatFor(deps.Config, configShowOutput)
	if err != nil {
		return err
	}

	cfg := deps.Config
	return renderOutput(deps.output(), format, cfg, func(w io.Writer) error {
		path, _ := config.ConfigPath()
		fmt.Fprintf(w, "config file:     %s\n", path)
		fmt.Fprintf(w, "output format:   %s\n", cfg.OutputFormat)
		fmt.Fprintf(w, "debug:           %t\n", cfg.Debug)
		fmt.Fprintf(w, "restart delay:   %s\n", cfg.RestartDelay)
		if cfg.SessionLogDir != "" {
			fmt.Fprintf(w, "session logs:    %s\n", cfg.SessionLogDir)
		}
		fmt.Fprintf(w, "database:        %s\n", databaseTarget(cfg))
		if cfg.Redis != nil {
			fmt.Fprintf(w, "redis:           %s (channel %s)\n", cfg.Redis.Addr, cfg.Redis.Channel)
		}
		return nil
	})
}

func newConfigInitCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  `Write the current configuration to the config file, creating ~/.mins if needed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(deps.Config); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			path, err := config.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.output(), "Wrote %s\n", path)
			return nil
		},
	}
}
