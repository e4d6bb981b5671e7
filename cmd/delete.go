package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/store"
)

// Delete command flags.
var deleteForce bool

// NewDeleteCommand creates the 'delete' command.
func NewDeleteCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <meeting-id>",
		Short: "Delete a meeting",
		Long: `Delete a meeting, its transcript, and its compiled minutes.

Examples:
  mins delete 7d8e1f
  mins delete 7d8e1f --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), deps, args[0])
		},
	}

	cmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, deps *Deps, id string) error {
	out := deps.output()

	if !deleteForce {
		fmt.Fprintf(out, "Delete meeting %s and its minutes? [y/N] ", id)
		scanner := bufio.NewScanner(deps.In)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	return withStore(ctx, deps, func(s store.MeetingStore) error {
		if err := s.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting meeting: %w", err)
		}
		fmt.Fprintf(out, "Deleted meeting %s\n", id)
		return nil
	})
}
