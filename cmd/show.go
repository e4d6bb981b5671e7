package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/store"
)

// Show command flags.
var (
	showOutput     string
	showTranscript bool
)

// NewShowCommand creates the 'show' command.
func NewShowCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show a meeting's minutes or transcript",
		Long: `Show one meeting. Prints the compiled minutes when present, otherwise
the raw transcript.

Examples:
  # Show the minutes
  mins show 7d8e1f

  # Show the raw transcript instead
  mins show 7d8e1f --transcript

  # Dump the full meeting record
  mins show 7d8e1f --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&showOutput, "output", "o", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&showTranscript, "transcript", false, "Show the raw transcript instead of the minutes")

	return cmd
}

func runShow(ctx context.Context, deps *Deps, id string) error {
	format, err := formatFor(deps.Config, showOutput)
	if err != nil {
		return err
	}

	return withStore(ctx, deps, func(s store.MeetingStore) error {
		m, err := s.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("loading meeting: %w", err)
		}

		return renderOutput(deps.output(), format, m, func(w io.Writer) error {
			if showTranscript {
				if m.TranscriptText == "" {
					fmt.Fprintln(w, "No transcript recorded.")
					return nil
				}
				fmt.Fprintln(w, m.TranscriptText)
				return nil
			}
			if m.MinutesText == "" {
				fmt.Fprintf(w, "No minutes compiled yet. Run: mins compile %s\n", m.ID)
				return nil
			}
			fmt.Fprintln(w, m.MinutesText)
			return nil
		})
	})
}
