// Package main provides the mins CLI entry point.
// mins records meetings via live dictation and compiles the transcripts
// into structured meeting minutes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/cmd"
	"github.com/minutedesk/mins-cli/config"
	"github.com/minutedesk/mins-cli/pkg/buildinfo"
	"github.com/minutedesk/mins-cli/pkg/logging"
)

// Global flags.
var (
	debug        bool
	outputFormat string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the mins root command and wires every subcommand
// against a shared dependency set that is populated once the configuration
// has loaded.
func newRootCommand() *cobra.Command {
	deps := &cmd.Deps{}

	rootCmd := &cobra.Command{
		Use:   "mins",
		Short: "Record meetings and compile structured minutes",
		Long: `mins records meetings through live dictation and compiles the
transcripts into structured markdown minutes.

A recording session deduplicates the unreliable dictation stream into one
stable transcript, survives engine restarts, and captures timestamped
markers. The compiler classifies the transcript into action items,
decisions, and discussion points, and renders formal minutes with an HR
addendum for disciplinary and investigation meetings.

Quick start:
  mins record --title "Weekly sync" --type team
  mins list
  mins compile <meeting-id>
  mins actions <meeting-id>`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if skipsInit(c) {
				return nil
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			if debug {
				cfg.Debug = true
			}
			if outputFormat != "" {
				format := config.OutputFormat(outputFormat)
				if !format.IsValid() {
					return fmt.Errorf("invalid output format %q (valid: text, json, yaml)", outputFormat)
				}
				cfg.OutputFormat = format
			}

			level := logging.LevelInfo
			if cfg.Debug {
				level = logging.LevelDebug
			}
			log := logging.NewLogger(&logging.Config{
				Level:      level,
				Component:  "mins",
				JSONFormat: cfg.OutputFormat == config.OutputFormatJSON,
			})

			*deps = *cmd.DefaultDeps(cfg, log)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Default output format: text, json, yaml")

	rootCmd.AddCommand(cmd.NewRecordCommand(deps))
	rootCmd.AddCommand(cmd.NewCompileCommand(deps))
	rootCmd.AddCommand(cmd.NewListCommand(deps))
	rootCmd.AddCommand(cmd.NewShowCommand(deps))
	rootCmd.AddCommand(cmd.NewActionsCommand(deps))
	rootCmd.AddCommand(cmd.NewDeleteCommand(deps))
	rootCmd.AddCommand(cmd.NewDoctorCommand(deps))
	rootCmd.AddCommand(cmd.NewCredentialCommand(deps))
	rootCmd.AddCommand(cmd.NewConfigCommand(deps))
	rootCmd.AddCommand(cmd.NewVersionCommand(deps))

	return rootCmd
}

// skipsInit reports whether the command runs without loading configuration,
// so 'mins version' and shell completion work on a fresh machine.
func skipsInit(c *cobra.Command) bool {
	for cur := c; cur != nil; cur = cur.Parent() {
		switch cur.Name() {
		case "version", "help", "completion":
			return true
		}
	}
	return false
}
