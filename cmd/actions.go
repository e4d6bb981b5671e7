package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/meeting"
	"github.com/minutedesk/mins-cli/pkg/minutes"
	"github.com/minutedesk/mins-cli/pkg/store"
)

// Actions command flags.
var (
	actionsOutput      string
	actionsFromMinutes bool
)

// NewActionsCommand creates the 'actions' command.
func NewActionsCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions <meeting-id>",
		Short: "List a meeting's action items",
		Long: `List the action items stored on a meeting.

With --from-minutes the items are re-extracted from the compiled minutes
document instead, which is useful after hand-editing the minutes.

Examples:
  mins actions 7d8e1f
  mins actions 7d8e1f --from-minutes --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().StringVarP(&actionsOutput, "output", "o", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&actionsFromMinutes, "from-minutes", false, "Re-extract items from the minutes document")

	return cmd
}

func runActions(ctx context.Context, deps *Deps, id string) error {
	format, err := formatFor(deps.Config, actionsOutput)
	if err != nil {
		return err
	}

	return withStore(ctx, deps, func(s store.MeetingStore) error {
		m, err := s.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("loading meeting: %w", err)
		}

		items := m.Actions
		if actionsFromMinutes {
			if m.MinutesText == "" {
				return fmt.Errorf("no minutes compiled for meeting %s", m.ID)
			}
			items = minutes.ExtractActions(m.MinutesText)
		}

		return renderOutput(deps.output(), format, items, func(w io.Writer) error {
			renderActionTable(w, items)
			return nil
		})
	})
}

func renderActionTable(w io.Writer, items []meeting.ActionItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No action items recorded.")
		return
	}
	fmt.Fprintf(w, "%-50s  %-10s  %s\n", "ACTION", "OWNER", "DEADLINE")
	for _, item := range items {
		deadline := item.Deadline
		if deadline == "" {
			deadline = "TBC"
		}
		fmt.Fprintf(w, "%-50s  %-10s  %s\n", truncate(item.Action, 50), item.Owner, deadline)
	}
}
