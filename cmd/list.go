package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/store"
)

// List command flags.
var listOutput string

// NewListCommand creates the 'list' command.
func NewListCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded meetings",
		Long: `List all meetings in the store, newest first.

Examples:
  # Human-readable table
  mins list

  # Machine-readable output
  mins list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), deps)
		},
	}

	cmd.Flags().StringVarP(&listOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

func runList(ctx context.Context, deps *Deps) error {
	format, err := formatFor(deps.Config, listOutput)
	if err != nil {
		return err
	}

	return withStore(ctx, deps, func(s store.MeetingStore) error {
		summaries, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("listing meetings: %w", err)
		}

		return renderOutput(deps.output(), format, summaries, func(w io.Writer) error {
			if len(summaries) == 0 {
				fmt.Fprintln(w, "No meetings recorded.")
				return nil
			}
			fmt.Fprintf(w, "%-36s  %-30s  %-14s  %-10s  %-9s  %s\n",
				"ID", "TITLE", "TYPE", "DATE", "STATUS", "ACTIONS")
			for _, sum := range summaries {
				fmt.Fprintf(w, "%-36s  %-30s  %-14s  %-10s  %-9s  %d\n",
					sum.ID,
					truncate(sum.Title, 30),
					sum.Type,
					sum.Date.Format("2006-01-02"),
					sum.Status,
					sum.ActionCount)
			}
			return nil
		})
	})
}
