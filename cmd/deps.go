// Package cmd provides CLI commands for the mins tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minutedesk/mins-cli/config"
	"github.com/minutedesk/mins-cli/credentials"
	"github.com/minutedesk/mins-cli/pkg/live"
	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/store"
	"github.com/minutedesk/mins-cli/pkg/transcribe"
)

// Deps carries the injectable dependencies shared by all commands. Tests
// substitute fakes; main wires the real implementations via DefaultDeps.
type Deps struct {
	// Config is the loaded CLI configuration.
	Config *config.CLIConfig

	// Log is the structured logger. Defaults to a nop logger.
	Log logging.Logger

	// Out receives command output (rendered minutes, tables, JSON).
	Out io.Writer

	// In is the dictation input stream for the record command.
	In io.Reader

	// OpenStore connects to the meeting store. The returned release
	// function must be called when the command finishes.
	OpenStore func(ctx context.Context) (store.MeetingStore, func(), error)

	// NewPublisher returns the live snapshot publisher. A nil publisher is
	// valid and publishes nothing.
	NewPublisher func() *live.Publisher

	// Credentials is the secret store for connection passwords.
	Credentials credentials.Store

	// NewEngine returns the dictation engine for a recording session.
	NewEngine func() *transcribe.PipeEngine

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// DefaultDeps wires the production dependencies for the given configuration.
func DefaultDeps(cfg *config.CLIConfig, log logging.Logger) *Deps {
	if log == nil {
		log = logging.NewNopLogger()
	}
	deps := &Deps{
		Config:      cfg,
		Log:         log,
		Out:         os.Stdout,
		In:          os.Stdin,
		Credentials: credentials.GetDefaultStore(),
		NewEngine:   transcribe.NewPipeEngine,
		Now:         time.Now,
	}
	deps.OpenStore = func(ctx context.Context) (store.MeetingStore, func(), error) {
		return openRepository(ctx, deps)
	}
	deps.NewPublisher = func() *live.Publisher {
		return openPublisher(deps)
	}
	return deps
}

// openRepository connects to PostgreSQL, applies pending migrations, and
// returns the repository with its release function.
func openRepository(ctx context.Context, deps *Deps) (store.MeetingStore, func(), error) {
	pool, err := connectPool(ctx, deps)
	if err != nil {
		return nil, nil, err
	}

	if err := store.EnsureSchema(ctx, pool); err != nil {
		store.Close(pool)
		return nil, nil, fmt.Errorf("ensuring schema: %w", err)
	}

	metrics := store.NewMetrics("mins")
	metrics.Register(prometheus.DefaultRegisterer)
	poolStats := store.NewPoolStatsCollector(pool, "mins")
	if err := prometheus.DefaultRegisterer.Register(poolStats); err != nil {
		deps.logger().Debug("pool stats collector not registered", logging.Err(err))
	}

	repo := store.NewMeetingRepository(pool, deps.Log, metrics)
	release := func() {
		prometheus.DefaultRegisterer.Unregister(poolStats)
		store.Close(pool)
	}
	return repo, release, nil
}

func connectPool(ctx context.Context, deps *Deps) (*pgxpool.Pool, error) {
	cfg := deps.Config

	if cfg.DatabaseURL != "" {
		return store.ConnectURL(ctx, cfg.DatabaseURL)
	}

	dbCfg := *cfg.Database
	if dbCfg.Password == "" && deps.Credentials != nil {
		secret, lerr := credentials.Lookup(deps.Credentials, credentials.DatabasePassword)
		if lerr != nil {
			return nil, fmt.Errorf("looking up database password: %w", lerr)
		}
		dbCfg.Password = secret
	}
	// A database restarting alongside the CLI (compose setups, CI) settles
	// within a couple of attempts.
	return store.ConnectWithRetry(ctx, &dbCfg, 3, time.Second)
}

// openPublisher builds the Redis publisher, resolving the password from the
// credential store when the config carries none.
func openPublisher(deps *Deps) *live.Publisher {
	cfg := deps.Config
	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return nil
	}

	redisCfg := *cfg.Redis
	if redisCfg.Password == "" && deps.Credentials != nil {
		secret, err := credentials.Lookup(deps.Credentials, credentials.RedisPassword)
		if err != nil {
			deps.Log.Warn("redis password lookup failed", logging.Err(err))
		} else {
			redisCfg.Password = secret
		}
	}
	return live.NewPublisher(&redisCfg, deps.Log)
}

// logger returns the configured logger, never nil.
func (d *Deps) logger() logging.Logger {
	if d.Log == nil {
		return logging.NewNopLogger()
	}
	return d.Log
}

// output returns the configured output writer, never nil.
func (d *Deps) output() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

// now returns the configured clock, never nil.
func (d *Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// withStore opens the meeting store, runs fn, and releases the connection.
func withStore(ctx context.Context, deps *Deps, fn func(store.MeetingStore) error) error {
	if deps.OpenStore == nil {
		return fmt.Errorf("no meeting store configured")
	}
	s, release, err := deps.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(s)
}
