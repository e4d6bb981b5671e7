package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/pkg/buildinfo"
)

var versionOutput string

// NewVersionCommand creates the 'version' command.
func NewVersionCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(deps)
		},
	}
	cmd.Flags().StringVarP(&versionOutput, "output", "o", "", "Output format: text, json, yaml")
	return cmd
}

func runVersion(deps *Deps) error {
	format, err := formatFor(deps.Config, versionOutput)
	if err != nil {
		return err
	}

	info := buildinfo.Get("mins")
	return renderOutput(deps.output(), format, info, func(w io.Writer) error {
		fmt.Fprintf(w, "mins %s\n", buildinfo.String())
		fmt.Fprintf(w, "go:  %s\n", info.GoVersion)
		return nil
	})
}
