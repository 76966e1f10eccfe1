package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-dashboard-layout/pkg/activity"
)

var errInvalidDefinition = errors.New("dashboard: definition id is required")

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Gateway        PersistenceGateway
	Catalog        *Catalog
	Validator      *LayoutValidator
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Clock          func() time.Time
	StrictEdits    bool
}

// Service keeps one editing session per user and exposes the widget
// operations against that session's draft.
type Service struct {
	opts     Options
	activity *activity.Emitter

	mu       sync.Mutex
	sessions map[string]*Session
	loads    singleflight.Group
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Gateway == nil {
		opts.Gateway = NewInMemoryConfigStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.Validator == nil {
		if opts.Catalog == DefaultCatalog() {
			opts.Validator = DefaultValidator()
		} else {
			opts.Validator = NewLayoutValidator(opts.Catalog, WithSettingsValidator(NewJSONSchemaValidator()))
		}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		sessions: make(map[string]*Session),
	}
}

// AddWidgetRequest captures the data required to add a widget to a draft.
type AddWidgetRequest struct {
	DefinitionID string       `json:"definitionId"`
	Overrides    *WidgetPatch `json:"overrides,omitempty"`
}

// Open returns the viewer's session, loading it through the gateway on first
// use. Users without a stored configuration start from the role defaults.
// Concurrent first opens for one user share a single load; other users are
// never blocked by it.
func (s *Service) Open(ctx context.Context, viewer ViewerContext) (*Session, error) {
	if viewer.UserID == "" {
		return nil, errMissingUser
	}
	if session, ok := s.lookup(viewer.UserID); ok {
		return session, nil
	}
	opened, err, _ := s.loads.Do(viewer.UserID, func() (any, error) {
		if session, ok := s.lookup(viewer.UserID); ok {
			return session, nil
		}
		session, err := LoadSession(ctx, viewer.UserID, func() UserDashboardConfig {
			return s.opts.Catalog.DefaultConfig(viewer.UserID, viewer.Role)
		}, SessionOptions{
			Gateway:     s.opts.Gateway,
			Validator:   s.opts.Validator,
			Telemetry:   s.opts.Telemetry,
			Clock:       s.opts.Clock,
			StrictEdits: s.opts.StrictEdits,
		})
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.sessions[viewer.UserID] = session
		s.mu.Unlock()
		s.recordTelemetry(ctx, "dashboard.session.open", map[string]any{
			"user_id":    viewer.UserID,
			"role":       string(viewer.Role),
			"session_id": session.ID(),
		})
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return opened.(*Session), nil
}

func (s *Service) lookup(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	return session, ok
}

// Close drops the viewer's session. Uncommitted edits are lost.
func (s *Service) Close(viewer ViewerContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, viewer.UserID)
}

// Draft returns the viewer's current draft.
func (s *Service) Draft(ctx context.Context, viewer ViewerContext) (UserDashboardConfig, error) {
	session, err := s.Open(ctx, viewer)
	if err != nil {
		return UserDashboardConfig{}, err
	}
	return session.Draft(), nil
}

// Catalog returns the definitions offered to the viewer's role.
func (s *Service) Catalog(viewer ViewerContext) []WidgetDefinition {
	return s.opts.Catalog.Build(viewer.Role)
}

// Available returns the catalog entries not yet on the viewer's draft.
func (s *Service) Available(ctx context.Context, viewer ViewerContext) ([]WidgetDefinition, error) {
	draft, err := s.Draft(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return AvailableToAdd(s.Catalog(viewer), draft), nil
}

// AddWidget appends a widget built from a definition in the viewer's catalog.
func (s *Service) AddWidget(ctx context.Context, viewer ViewerContext, req AddWidgetRequest) (UserDashboardConfig, error) {
	if req.DefinitionID == "" {
		return UserDashboardConfig{}, errInvalidDefinition
	}
	def, ok := s.definitionFor(viewer, req.DefinitionID)
	if !ok {
		return UserDashboardConfig{}, &UnknownDefinitionError{DefinitionID: req.DefinitionID, Role: viewer.Role}
	}
	var overrides []WidgetPatch
	if req.Overrides != nil {
		overrides = append(overrides, *req.Overrides)
	}
	return s.edit(ctx, viewer, AddWidgetOp(def, overrides...), "dashboard.widget.add", map[string]any{
		"widget_id": def.ID,
	})
}

// RemoveWidget drops a widget from the viewer's draft.
func (s *Service) RemoveWidget(ctx context.Context, viewer ViewerContext, widgetID string) (UserDashboardConfig, error) {
	return s.edit(ctx, viewer, RemoveWidgetOp(widgetID), "dashboard.widget.remove", map[string]any{
		"widget_id": widgetID,
	})
}

// UpdateWidget patches a widget on the viewer's draft.
func (s *Service) UpdateWidget(ctx context.Context, viewer ViewerContext, widgetID string, patch WidgetPatch) (UserDashboardConfig, error) {
	return s.edit(ctx, viewer, UpdateWidgetOp(widgetID, patch, s.opts.Validator), "dashboard.widget.update", map[string]any{
		"widget_id": widgetID,
	})
}

// ReorderWidget moves a widget within the viewer's draft.
func (s *Service) ReorderWidget(ctx context.Context, viewer ViewerContext, from, to int) (UserDashboardConfig, error) {
	return s.edit(ctx, viewer, ReorderWidgetOp(from, to), "dashboard.widget.reorder", map[string]any{
		"from": from,
		"to":   to,
	})
}

// SetTheme changes the draft theme.
func (s *Service) SetTheme(ctx context.Context, viewer ViewerContext, theme Theme) (UserDashboardConfig, error) {
	return s.edit(ctx, viewer, SetThemeOp(theme), "dashboard.theme.set", map[string]any{
		"theme": string(theme),
	})
}

// SetLayout changes the draft layout mode.
func (s *Service) SetLayout(ctx context.Context, viewer ViewerContext, mode LayoutMode) (UserDashboardConfig, error) {
	return s.edit(ctx, viewer, SetLayoutOp(mode), "dashboard.layout.set", map[string]any{
		"layout": string(mode),
	})
}

// Commit validates and persists the viewer's draft and returns the committed
// configuration.
func (s *Service) Commit(ctx context.Context, viewer ViewerContext) (UserDashboardConfig, error) {
	session, err := s.Open(ctx, viewer)
	if err != nil {
		return UserDashboardConfig{}, err
	}
	if err := session.Commit(ctx); err != nil {
		return UserDashboardConfig{}, err
	}
	committed := session.Committed()
	s.emitActivity(ctx, viewer, "dashboard.layout.commit", map[string]any{
		"session_id": session.ID(),
		"widgets":    len(committed.Widgets),
		"theme":      string(committed.Theme),
		"layout":     string(committed.Layout),
	})
	return committed, nil
}

// Discard resets the viewer's draft to the committed configuration.
func (s *Service) Discard(ctx context.Context, viewer ViewerContext) (UserDashboardConfig, error) {
	session, err := s.Open(ctx, viewer)
	if err != nil {
		return UserDashboardConfig{}, err
	}
	if err := session.Discard(); err != nil {
		return UserDashboardConfig{}, err
	}
	s.recordTelemetry(ctx, "dashboard.layout.discard", map[string]any{
		"user_id":    viewer.UserID,
		"session_id": session.ID(),
	})
	return session.Draft(), nil
}

func (s *Service) edit(ctx context.Context, viewer ViewerContext, op Operation, event string, payload map[string]any) (UserDashboardConfig, error) {
	session, err := s.Open(ctx, viewer)
	if err != nil {
		return UserDashboardConfig{}, err
	}
	if err := session.Edit(op); err != nil {
		return session.Draft(), err
	}
	payload["user_id"] = viewer.UserID
	payload["session_id"] = session.ID()
	s.recordTelemetry(ctx, event, payload)
	return session.Draft(), nil
}

func (s *Service) definitionFor(viewer ViewerContext, id string) (WidgetDefinition, bool) {
	for _, def := range s.Catalog(viewer) {
		if def.ID == id {
			return def, true
		}
	}
	return WidgetDefinition{}, false
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, viewer ViewerContext, verb string, meta map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	attribution, _ := AttributionFrom(ctx)
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    attribution.actor(viewer),
		UserID:     viewer.UserID,
		TenantID:   attribution.TenantID,
		ObjectType: "dashboard_layout",
		ObjectID:   viewer.UserID,
		Metadata:   meta,
	})
	if err != nil {
		s.recordTelemetry(ctx, "dashboard.activity.error", map[string]any{
			"verb":  verb,
			"error": err.Error(),
		})
	}
}
