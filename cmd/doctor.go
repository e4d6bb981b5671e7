package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minutedesk/mins-cli/config"
	"github.com/minutedesk/mins-cli/credentials"
	"github.com/minutedesk/mins-cli/pkg/store"
)

// NewDoctorCommand creates the 'doctor' command.
func NewDoctorCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the health of the mins environment",
		Long: `Check the configuration, database, Redis, and credential store.

Each check reports ok or the failure reason. A failing database or Redis
check does not block recording; transcripts can still be captured and
saved once connectivity returns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), deps)
		},
	}
}

func runDoctor(ctx context.Context, deps *Deps) error {
	out := deps.output()
	failed := 0

	report := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Fprintf(out, "  FAIL  %-12s %v\n", name, err)
			return
		}
		fmt.Fprintf(out, "  ok    %-12s %s\n", name, detail)
	}

	fmt.Fprintln(out, "mins environment check")

	path, err := config.ConfigPath()
	if err == nil {
		// Creating the directory here surfaces permission problems before
		// 'mins config init' trips over them.
		err = config.EnsureConfigDir()
	}
	report("config", err, path)

	report("database", checkDatabase(ctx, deps), databaseTarget(deps.Config))

	publisher := deps.NewPublisher()
	if publisher == nil {
		fmt.Fprintf(out, "  skip  %-12s not configured\n", "redis")
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		report("redis", publisher.Ping(pingCtx), deps.Config.Redis.Addr)
		cancel()
		publisher.Close()
	}

	if deps.Credentials != nil {
		var credErr error
		if _, isKeyring := deps.Credentials.(*credentials.KeyringStore); isKeyring && !credentials.IsKeyringAvailable() {
			credErr = credentials.ErrKeyringUnavailable
		}
		report("credentials", credErr, deps.Credentials.Description())
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}

// checkDatabase connects and runs the health check.
func checkDatabase(ctx context.Context, deps *Deps) error {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := connectPool(connectCtx, deps)
	if err != nil {
		return err
	}
	defer store.Close(pool)

	status := store.Check(connectCtx, pool)
	if !status.Healthy {
		return status.Error
	}
	return nil
}

func databaseTarget(cfg *config.CLIConfig) string {
	if cfg.DatabaseURL != "" {
		return "DATABASE_URL"
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
}
