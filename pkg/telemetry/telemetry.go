// Package telemetry provides Telemetry adapters for the layout service.
package telemetry

import (
	"context"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// Multi fans every event out to each recorder.
type Multi []dashboard.Telemetry

var _ dashboard.Telemetry = Multi(nil)

// Record forwards the event to every non-nil recorder.
func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(ctx, event, payload)
	}
}
