package dashboard

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-dashboard-layout/components/dashboard"

// TracingGateway wraps a PersistenceGateway with OpenTelemetry spans.
type TracingGateway struct {
	next   PersistenceGateway
	tracer trace.Tracer
}

// NewTracingGateway wraps next. A nil provider uses the global provider.
func NewTracingGateway(next PersistenceGateway, provider trace.TracerProvider) *TracingGateway {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracingGateway{
		next:   next,
		tracer: provider.Tracer(tracerName),
	}
}

// Load traces the wrapped Load. A missing configuration is not a span error.
func (g *TracingGateway) Load(ctx context.Context, userID string) (UserDashboardConfig, error) {
	ctx, span := g.tracer.Start(ctx, "dashboard.layout.load",
		trace.WithAttributes(attribute.String("dashboard.user_id", userID)))
	defer span.End()

	cfg, err := g.next.Load(ctx, userID)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		span.SetAttributes(attribute.Bool("dashboard.config_found", false))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(
			attribute.Bool("dashboard.config_found", true),
			attribute.Int("dashboard.widgets", len(cfg.Widgets)),
		)
	}
	return cfg, err
}

// Save traces the wrapped Save.
func (g *TracingGateway) Save(ctx context.Context, config UserDashboardConfig) error {
	ctx, span := g.tracer.Start(ctx, "dashboard.layout.save",
		trace.WithAttributes(
			attribute.String("dashboard.user_id", config.UserID),
			attribute.Int("dashboard.widgets", len(config.Widgets)),
			attribute.String("dashboard.theme", string(config.Theme)),
			attribute.String("dashboard.layout", string(config.Layout)),
		))
	defer span.End()

	if err := g.next.Save(ctx, config); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
