package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-dashboard-layout/pkg/activity"
)

func TestCommitEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	service := NewService(Options{
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true, Channel: "layouts"},
	})
	ctx := WithAttribution(context.Background(), Attribution{
		ActorID:  "actor-1",
		TenantID: "tenant-1",
	})

	if _, err := service.SetTheme(ctx, employeeViewer, ThemeLight); err != nil {
		t.Fatalf("SetTheme returned error: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no activity before commit, got %d", len(capture.Events))
	}
	if _, err := service.Commit(ctx, employeeViewer); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != "dashboard.layout.commit" || event.ObjectType != "dashboard_layout" || event.ObjectID != "user-1" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ActorID != "actor-1" || event.UserID != "user-1" || event.TenantID != "tenant-1" {
		t.Fatalf("unexpected actor context: %+v", event)
	}
	if event.Channel != "layouts" {
		t.Fatalf("expected channel layouts, got %q", event.Channel)
	}
	if event.Metadata["theme"] != "light" {
		t.Fatalf("expected theme metadata, got %+v", event.Metadata)
	}
}

func TestCommitWithoutAttributionCreditsViewer(t *testing.T) {
	capture := &activity.CaptureHook{}
	service := NewService(Options{
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	ctx := context.Background()
	if _, ok := AttributionFrom(ctx); ok {
		t.Fatalf("expected no attribution on a bare context")
	}
	if _, err := service.Commit(ctx, employeeViewer); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.ActorID != "user-1" || event.UserID != "user-1" || event.TenantID != "" {
		t.Fatalf("expected viewer attribution, got %+v", event)
	}
}

func TestRejectedCommitEmitsNoActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	service := NewService(Options{
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	ctx := context.Background()
	if _, err := service.SetTheme(ctx, employeeViewer, Theme("sepia")); err != nil {
		t.Fatalf("SetTheme returned error: %v", err)
	}
	_, err := service.Commit(ctx, employeeViewer)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no activity for rejected commit, got %d", len(capture.Events))
	}
}

func TestActivityHookFailureIsRecorded(t *testing.T) {
	telemetry := &captureTelemetry{}
	service := NewService(Options{
		Telemetry: telemetry,
		ActivityHooks: activity.Hooks{
			activity.HookFunc(func(context.Context, activity.Event) error {
				return errors.New("sink offline")
			}),
		},
		ActivityConfig: activity.Config{Enabled: true},
	})
	if _, err := service.Commit(context.Background(), employeeViewer); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	names := telemetry.names()
	if names[len(names)-1] != "dashboard.activity.error" {
		t.Fatalf("expected activity error event, got %v", names)
	}
}
