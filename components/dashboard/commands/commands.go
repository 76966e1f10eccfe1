package commands

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// Telemetry allows commands to emit structured events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// Actor identifies the viewer whose draft a command edits, plus the audit
// identifiers forwarded to activity hooks.
type Actor struct {
	Viewer   dashboard.ViewerContext `json:"viewer"`
	ActorID  string                  `json:"actor_id,omitempty"`
	TenantID string                  `json:"tenant_id,omitempty"`
}

func (a Actor) context(ctx context.Context) context.Context {
	if a.ActorID == "" && a.TenantID == "" {
		return ctx
	}
	return dashboard.WithAttribution(ctx, dashboard.Attribution{
		ActorID:  a.ActorID,
		TenantID: a.TenantID,
	})
}

func payload(a Actor, extra map[string]any) map[string]any {
	out := map[string]any{"user_id": a.Viewer.UserID}
	for key, value := range extra {
		out[key] = value
	}
	return out
}
