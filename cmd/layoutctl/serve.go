package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-layout/pkg/activity"
	"github.com/goliatone/go-dashboard-layout/pkg/layout"
	"github.com/goliatone/go-dashboard-layout/pkg/telemetry"
)

type serveCmd struct {
	Addr          string        `default:":9876" env:"LAYOUT_ADDR" help:"API listen address."`
	MetricsAddr   string        `default:":9877" env:"LAYOUT_METRICS_ADDR" help:"Prometheus listen address (empty disables)."`
	BasePath      string        `default:"/api" env:"LAYOUT_BASE_PATH" help:"Route prefix for the layout API."`
	Store         string        `default:"memory" enum:"memory,postgres,sqlite,redis" env:"LAYOUT_STORE" help:"Persistence backend."`
	DSN           string        `env:"LAYOUT_DSN" help:"Database DSN for postgres or sqlite."`
	RedisAddr     string        `env:"LAYOUT_REDIS_ADDR" help:"Redis address."`
	RedisPassword string        `env:"LAYOUT_REDIS_PASSWORD" help:"Redis password."`
	RedisPrefix   string        `env:"LAYOUT_REDIS_PREFIX" help:"Redis key prefix."`
	Manifest      []string      `type:"existingfile" env:"LAYOUT_MANIFESTS" help:"Catalog manifests applied in order."`
	Tracing       bool          `env:"LAYOUT_TRACING" help:"Trace persistence calls."`
	Activity      bool          `default:"true" negatable:"" env:"LAYOUT_ACTIVITY" help:"Log commit activity events."`
	StrictEdits   bool          `env:"LAYOUT_STRICT_EDITS" help:"Validate the draft after every edit."`
	Development   bool          `env:"LAYOUT_DEV" help:"Use a development logger."`
	ShutdownAfter time.Duration `default:"10s" help:"Graceful shutdown timeout."`
}

func (cmd *serveCmd) config() layout.Config {
	return layout.Config{
		Store:         cmd.Store,
		DSN:           cmd.DSN,
		RedisAddr:     cmd.RedisAddr,
		RedisPassword: cmd.RedisPassword,
		RedisPrefix:   cmd.RedisPrefix,
		Manifests:     cmd.Manifest,
		Tracing:       cmd.Tracing,
		StrictEdits:   cmd.StrictEdits,
		Activity:      activity.Config{Enabled: cmd.Activity, Channel: "layouts"},
	}
}

func (cmd *serveCmd) Run(ctx context.Context, _ io.Writer) error {
	logger, err := newLogger(cmd.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	counter, err := telemetry.NewPrometheusTelemetry(registry)
	if err != nil {
		return err
	}
	events := telemetry.Multi{telemetry.NewZapTelemetry(logger), counter}

	tracer := sdktrace.NewTracerProvider()
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	service, closeStore, err := layout.Build(ctx, cmd.config(), dashboard.Options{
		Telemetry:     events,
		ActivityHooks: activity.Hooks{activityLogger(logger)},
	}, tracer)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:   server.Router(),
		API:      httpapi.NewCommandExecutor(service, events),
		BasePath: cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("layoutctl: register routes: %w", err)
	}

	var metrics *http.Server
	if cmd.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metrics = &http.Server{Addr: cmd.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(cmd.Addr) }()
	logger.Info("layout api listening",
		zap.String("addr", cmd.Addr),
		zap.String("base_path", cmd.BasePath),
		zap.String("store", cmd.Store),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownAfter)
	defer cancel()
	if metrics != nil {
		_ = metrics.Shutdown(shutdownCtx)
	}
	return server.Shutdown(shutdownCtx)
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func activityLogger(logger *zap.Logger) activity.Hook {
	return activity.HookFunc(func(_ context.Context, evt activity.Event) error {
		logger.Info("activity",
			zap.String("verb", evt.Verb),
			zap.String("object_type", evt.ObjectType),
			zap.String("object_id", evt.ObjectID),
			zap.String("actor_id", evt.ActorID),
			zap.String("channel", evt.Channel),
			zap.Any("metadata", evt.Metadata),
		)
		return nil
	})
}
