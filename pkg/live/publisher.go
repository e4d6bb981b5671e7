// Package live publishes recording session snapshots to Redis so other
// tooling (dashboards, a second terminal) can watch a session in flight.
// Publishing is strictly best-effort: a dead Redis never affects recording.
package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minutedesk/mins-cli/pkg/logging"
	"github.com/minutedesk/mins-cli/pkg/transcribe"
)

// Config holds Redis connection and publishing settings.
type Config struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"-"`
	DB       int           `yaml:"db"`
	Channel  string        `yaml:"channel"`
	TTL      time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the default Redis settings.
func DefaultConfig() *Config {
	return &Config{
		Addr:    "localhost:6379",
		Channel: "mins:live",
		TTL:     30 * time.Second,
	}
}

// Publisher pushes session snapshots to Redis. The zero-value-nil Publisher
// is valid and publishes nothing.
type Publisher struct {
	client  *redis.Client
	channel string
	ttl     time.Duration
	log     logging.Logger
}

// NewPublisher creates a publisher. The connection is lazy; failures surface
// as warnings on the first publish.
func NewPublisher(cfg *Config, log logging.Logger) *Publisher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 2 * time.Second,
	})
	return &Publisher{client: client, channel: cfg.Channel, ttl: cfg.TTL, log: log}
}

// payload is the wire form of a published snapshot.
type payload struct {
	SessionID   string              `json:"session_id"`
	PublishedAt time.Time           `json:"published_at"`
	Snapshot    transcribe.Snapshot `json:"snapshot"`
}

// KeyFor returns the Redis key holding the latest snapshot for a session.
func KeyFor(sessionID string) string {
	return "mins:session:" + sessionID
}

// Publish stores the latest snapshot under the session key with a TTL and
// announces it on the channel. Errors are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, sessionID string, snap transcribe.Snapshot) {
	if p == nil || p.client == nil {
		return
	}

	body, err := json.Marshal(payload{
		SessionID:   sessionID,
		PublishedAt: time.Now().UTC(),
		Snapshot:    snap,
	})
	if err != nil {
		p.log.Warn("failed to encode session snapshot", logging.Err(err))
		return
	}

	if err := p.client.Set(ctx, KeyFor(sessionID), body, p.ttl).Err(); err != nil {
		p.log.Warn("failed to store session snapshot", logging.Err(err), logging.F("session_id", sessionID))
		return
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		p.log.Warn("failed to announce session snapshot", logging.Err(err), logging.F("session_id", sessionID))
	}
}

// Ping verifies the Redis connection. Used by the doctor command.
func (p *Publisher) Ping(ctx context.Context) error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
