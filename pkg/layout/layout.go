// Package layout assembles a dashboard layout Service from process
// configuration.
package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	core "github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/pkg/activity"
	"github.com/goliatone/go-dashboard-layout/pkg/store/gormstore"
	"github.com/goliatone/go-dashboard-layout/pkg/store/redisstore"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Store backends accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

// Config selects the persistence backend and catalog extensions.
type Config struct {
	Store         string          `yaml:"store" json:"store"`
	DSN           string          `yaml:"dsn" json:"dsn"`
	RedisAddr     string          `yaml:"redis_addr" json:"redisAddr"`
	RedisPassword string          `yaml:"redis_password" json:"-"`
	RedisPrefix   string          `yaml:"redis_prefix" json:"redisPrefix"`
	Manifests     []string        `yaml:"manifests" json:"manifests"`
	Tracing       bool            `yaml:"tracing" json:"tracing"`
	StrictEdits   bool            `yaml:"strict_edits" json:"strictEdits"`
	Activity      activity.Config `yaml:"activity" json:"activity"`
}

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Closer releases backend connections.
type Closer func() error

// OpenGateway builds the persistence gateway named by cfg.Store.
func OpenGateway(ctx context.Context, cfg Config, tracer trace.TracerProvider) (core.PersistenceGateway, Closer, error) {
	var (
		gateway core.PersistenceGateway
		closer  Closer = func() error { return nil }
	)
	switch strings.ToLower(cfg.Store) {
	case "", StoreMemory:
		gateway = core.NewInMemoryConfigStore()
	case StorePostgres, StoreSQLite:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := gormstore.New(db)
		if err != nil {
			return nil, nil, err
		}
		closer = func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		gateway = store
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, nil, errors.New("layout: redis address is required")
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("layout: redis ping: %w", err)
		}
		gateway = redisstore.New(client, redisstore.Options{Prefix: cfg.RedisPrefix})
		closer = client.Close
	default:
		return nil, nil, fmt.Errorf("layout: unknown store %q", cfg.Store)
	}
	if cfg.Tracing {
		gateway = core.NewTracingGateway(gateway, tracer)
	}
	return gateway, closer, nil
}

func openDB(cfg Config) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("layout: %s store requires a dsn", cfg.Store)
	}
	if strings.EqualFold(cfg.Store, StoreSQLite) {
		return gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	}
	return gormstore.OpenPostgres(cfg.DSN)
}

// LoadCatalog applies every manifest in order on top of the built-in catalog.
func LoadCatalog(paths []string) (*core.Catalog, error) {
	catalog := core.DefaultCatalog()
	for _, path := range paths {
		next, err := catalog.LoadManifestFile(path)
		if err != nil {
			return nil, err
		}
		catalog = next
	}
	return catalog, nil
}

// Build opens the gateway, loads the catalog and returns a ready Service.
// opts supplies the collaborators Config does not cover (telemetry, hooks).
func Build(ctx context.Context, cfg Config, opts Options, tracer trace.TracerProvider) (*Service, Closer, error) {
	catalog, err := LoadCatalog(cfg.Manifests)
	if err != nil {
		return nil, nil, err
	}
	gateway, closer, err := OpenGateway(ctx, cfg, tracer)
	if err != nil {
		return nil, nil, err
	}
	opts.Gateway = gateway
	opts.Catalog = catalog
	opts.StrictEdits = opts.StrictEdits || cfg.StrictEdits
	opts.ActivityConfig = cfg.Activity
	return core.NewService(opts), closer, nil
}
