package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/pkg/activity"
)

var viewer = dashboard.ViewerContext{UserID: "user-1", Role: dashboard.RoleEmployee}

func TestAddWidgetCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewAddWidgetCommand(service, telemetry)
	msg := AddWidgetInput{Actor: Actor{Viewer: viewer}, DefinitionID: "sales-summary"}
	if err := cmd.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 || service.lastDefinition != "sales-summary" {
		t.Fatalf("expected add call for sales-summary, got %d %q", service.addCalls, service.lastDefinition)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry to record the command")
	}
	if err := cmd.Execute(context.Background(), AddWidgetInput{Actor: Actor{Viewer: viewer}}); err == nil {
		t.Fatalf("expected error without definition id")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{Actor: Actor{Viewer: viewer}, WidgetID: "todos"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 {
		t.Fatalf("expected remove call")
	}
}

func TestUpdateWidgetCommandSkipsEmptyPatch(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), UpdateWidgetInput{Actor: Actor{Viewer: viewer}, WidgetID: "todos"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 0 {
		t.Fatalf("expected empty patch to skip the service")
	}
	width := 6
	if err := cmd.Execute(context.Background(), UpdateWidgetInput{
		Actor:    Actor{Viewer: viewer},
		WidgetID: "todos",
		Patch:    dashboard.WidgetPatch{Width: &width},
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 {
		t.Fatalf("expected update call")
	}
}

func TestReorderWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewReorderWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), ReorderWidgetInput{Actor: Actor{Viewer: viewer}, From: 2, To: 0}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 {
		t.Fatalf("expected reorder call")
	}
}

func TestAppearanceCommands(t *testing.T) {
	service := &stubService{}
	if err := NewSetThemeCommand(service, nil).Execute(context.Background(), SetThemeInput{Actor: Actor{Viewer: viewer}, Theme: dashboard.ThemeDark}); err != nil {
		t.Fatalf("theme Execute returned error: %v", err)
	}
	if err := NewSetLayoutCommand(service, nil).Execute(context.Background(), SetLayoutInput{Actor: Actor{Viewer: viewer}, Layout: dashboard.LayoutMasonry}); err != nil {
		t.Fatalf("layout Execute returned error: %v", err)
	}
	if service.themeCalls != 1 || service.layoutCalls != 1 {
		t.Fatalf("expected theme and layout calls, got %d %d", service.themeCalls, service.layoutCalls)
	}
}

func TestCommitCommandPropagatesErrors(t *testing.T) {
	service := &stubService{commitErr: &dashboard.TransportError{Op: "save", Err: errors.New("offline")}}
	telemetry := &stubTelemetry{}
	err := NewCommitCommand(service, telemetry).Execute(context.Background(), CommitInput{Actor: Actor{Viewer: viewer}})
	var terr *dashboard.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if telemetry.calls != 0 {
		t.Fatalf("expected no telemetry for failed commit")
	}
}

func TestDiscardCommand(t *testing.T) {
	service := &stubService{}
	if err := NewDiscardCommand(service, nil).Execute(context.Background(), DiscardInput{Actor: Actor{Viewer: viewer}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.discardCalls != 1 {
		t.Fatalf("expected discard call")
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	if err := NewAddWidgetCommand(nil, nil).Execute(ctx, AddWidgetInput{DefinitionID: "todos"}); err == nil {
		t.Fatalf("expected add error without service")
	}
	if err := NewCommitCommand(nil, nil).Execute(ctx, CommitInput{}); err == nil {
		t.Fatalf("expected commit error without service")
	}
}

func TestCommandsAgainstService(t *testing.T) {
	capture := &activity.CaptureHook{}
	service := dashboard.NewService(dashboard.Options{
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	ctx := context.Background()
	actor := Actor{Viewer: viewer, ActorID: "admin-7", TenantID: "tenant-1"}

	if err := NewAddWidgetCommand(service, nil).Execute(ctx, AddWidgetInput{Actor: actor, DefinitionID: "recent-orders"}); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if err := NewReorderWidgetCommand(service, nil).Execute(ctx, ReorderWidgetInput{Actor: actor, From: 4, To: 0}); err != nil {
		t.Fatalf("reorder returned error: %v", err)
	}
	if err := NewCommitCommand(service, nil).Execute(ctx, CommitInput{Actor: actor}); err != nil {
		t.Fatalf("commit returned error: %v", err)
	}

	draft, _ := service.Draft(ctx, viewer)
	if draft.Widgets[0].ID != "recent-orders" {
		t.Fatalf("expected recent-orders first, got %v", draft.WidgetIDs())
	}
	if len(capture.Events) != 1 || capture.Events[0].ActorID != "admin-7" {
		t.Fatalf("expected commit activity attributed to admin-7, got %+v", capture.Events)
	}

	err := NewAddWidgetCommand(service, nil).Execute(ctx, AddWidgetInput{Actor: actor, DefinitionID: "recent-orders"})
	var dup *dashboard.DuplicateWidgetError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate widget error, got %v", err)
	}
}

type stubService struct {
	addCalls       int
	lastDefinition string
	removeCalls    int
	updateCalls    int
	reorderCalls   int
	themeCalls     int
	layoutCalls    int
	commitCalls    int
	discardCalls   int
	commitErr      error
}

func (s *stubService) AddWidget(_ context.Context, _ dashboard.ViewerContext, req dashboard.AddWidgetRequest) (dashboard.UserDashboardConfig, error) {
	s.addCalls++
	s.lastDefinition = req.DefinitionID
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) RemoveWidget(context.Context, dashboard.ViewerContext, string) (dashboard.UserDashboardConfig, error) {
	s.removeCalls++
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) UpdateWidget(context.Context, dashboard.ViewerContext, string, dashboard.WidgetPatch) (dashboard.UserDashboardConfig, error) {
	s.updateCalls++
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) ReorderWidget(context.Context, dashboard.ViewerContext, int, int) (dashboard.UserDashboardConfig, error) {
	s.reorderCalls++
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) SetTheme(context.Context, dashboard.ViewerContext, dashboard.Theme) (dashboard.UserDashboardConfig, error) {
	s.themeCalls++
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) SetLayout(context.Context, dashboard.ViewerContext, dashboard.LayoutMode) (dashboard.UserDashboardConfig, error) {
	s.layoutCalls++
	return dashboard.UserDashboardConfig{}, nil
}

func (s *stubService) Commit(context.Context, dashboard.ViewerContext) (dashboard.UserDashboardConfig, error) {
	s.commitCalls++
	return dashboard.UserDashboardConfig{}, s.commitErr
}

func (s *stubService) Discard(context.Context, dashboard.ViewerContext) (dashboard.UserDashboardConfig, error) {
	s.discardCalls++
	return dashboard.UserDashboardConfig{}, nil
}

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) {
	s.calls++
}
