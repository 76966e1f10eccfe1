// Package redisstore persists dashboard layouts as JSON values in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
)

const defaultPrefix = "dashboard:layout:"

// Client is the subset of redis.Cmdable used by Store.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Options configures the Store key layout and expiry.
type Options struct {
	Prefix string
	// TTL of zero keeps layouts forever.
	TTL time.Duration
}

// Store implements dashboard.PersistenceGateway on Redis.
type Store struct {
	client Client
	opts   Options
}

var _ dashboard.PersistenceGateway = (*Store)(nil)

// New wraps client. *redis.Client and *redis.ClusterClient both satisfy Client.
func New(client Client, opts Options) *Store {
	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}
	return &Store{client: client, opts: opts}
}

func (s *Store) key(userID string) string { return s.opts.Prefix + userID }

// Load returns the stored layout or dashboard.ErrConfigNotFound.
func (s *Store) Load(ctx context.Context, userID string) (dashboard.UserDashboardConfig, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return dashboard.UserDashboardConfig{}, dashboard.ErrConfigNotFound
	}
	if err != nil {
		return dashboard.UserDashboardConfig{}, err
	}
	var cfg dashboard.UserDashboardConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return dashboard.UserDashboardConfig{}, fmt.Errorf("redisstore: decode layout for %s: %w", userID, err)
	}
	return cfg, nil
}

// Save overwrites the stored layout.
func (s *Store) Save(ctx context.Context, cfg dashboard.UserDashboardConfig) error {
	if cfg.UserID == "" {
		return errors.New("redisstore: user id is required")
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("redisstore: encode layout: %w", err)
	}
	return s.client.Set(ctx, s.key(cfg.UserID), raw, s.opts.TTL).Err()
}

// Delete removes the stored layout for userID.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
