package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/credentials"
)

// NewCredentialCommand creates the 'credential' command group.
func NewCredentialCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage stored service passwords",
		Long: `Manage the passwords mins uses to reach PostgreSQL and Redis.

Secrets are held in the system keyring (macOS Keychain, Windows Credential
Manager, Linux Secret Service). In CI, set MINS_DATABASE_PASSWORD or
MINS_REDIS_PASSWORD instead.

Known credential names:
  database-password
  redis-password`,
	}

	cmd.AddCommand(newCredentialSetCommand(deps))
	cmd.AddCommand(newCredentialDeleteCommand(deps))
	cmd.AddCommand(newCredentialStatusCommand(deps))

	return cmd
}

func newCredentialSetCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a service password",
		Long: `Store a service password. The secret is read from the next input line,
never from the command line, so it stays out of shell history.

Examples:
  mins credential set database-password`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialSet(deps, args[0])
		},
	}
}

func runCredentialSet(deps *Deps, name string) error {
	out := deps.output()
	fmt.Fprintf(out, "Enter secret for %s: ", name)

	scanner := bufio.NewScanner(deps.In)
	if !scanner.Scan() {
		return fmt.Errorf("no secret provided")
	}
	secret := strings.TrimSpace(scanner.Text())
	if secret == "" {
		return fmt.Errorf("no secret provided")
	}

	if err := deps.Credentials.Set(name, secret); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	fmt.Fprintf(out, "Stored %s in %s\n", name, deps.Credentials.Description())
	return nil
}

func newCredentialDeleteCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored service password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Credentials.Delete(args[0]); err != nil {
				return fmt.Errorf("deleting credential: %w", err)
			}
			fmt.Fprintf(deps.output(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newCredentialStatusCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCredentialStatus(deps)
		},
	}
}

func runCredentialStatus(deps *Deps) error {
	out := deps.output()
	fmt.Fprintf(out, "Credential store: %s\n", deps.Credentials.Description())

	for _, name := range []string{credentials.DatabasePassword, credentials.RedisPassword} {
		secret, err := credentials.Lookup(deps.Credentials, name)
		switch {
		case err != nil:
			fmt.Fprintf(out, "  %-20s error: %v\n", name, err)
		case secret == "":
			fmt.Fprintf(out, "  %-20s not set\n", name)
		default:
			fmt.Fprintf(out, "  %-20s set\n", name)
		}
	}
	return nil
}
