package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionOptions configures a Session. Every collaborator is optional.
type SessionOptions struct {
	Gateway   PersistenceGateway
	Validator *LayoutValidator
	Telemetry Telemetry
	Clock     func() time.Time
	// StrictEdits validates the draft after every edit and rejects edits that
	// would leave it invalid.
	StrictEdits bool
}

// Session is a single editing session over one user's dashboard. It holds the
// last committed configuration and the draft being edited.
//
// Edits are rejected with ErrCommitInProgress while a commit is pending; the
// caller decides whether to retry once Commit returns.
type Session struct {
	id   string
	opts SessionOptions

	mu         sync.Mutex
	committed  UserDashboardConfig
	draft      UserDashboardConfig
	dirty      bool
	committing bool
}

// NewSession starts a session with committed and draft both set to cfg.
func NewSession(cfg UserDashboardConfig, opts SessionOptions) *Session {
	if opts.Validator == nil {
		opts.Validator = DefaultValidator()
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Session{
		id:        uuid.NewString(),
		opts:      opts,
		committed: cfg.Clone(),
		draft:     cfg.Clone(),
	}
}

// LoadSession loads the committed configuration through the gateway. When the
// user has nothing stored yet, fallback is used as the starting point.
func LoadSession(ctx context.Context, userID string, fallback func() UserDashboardConfig, opts SessionOptions) (*Session, error) {
	if opts.Gateway == nil {
		return nil, errMissingGateway
	}
	if userID == "" {
		return nil, errMissingUser
	}
	cfg, err := opts.Gateway.Load(ctx, userID)
	switch {
	case err == nil:
	case isNotFound(err) && fallback != nil:
		cfg = fallback()
	default:
		return nil, &TransportError{Op: "load", Err: err}
	}
	cfg.UserID = userID
	return NewSession(cfg, opts), nil
}

// ID returns the session identifier used in telemetry.
func (s *Session) ID() string { return s.id }

// Draft returns a copy of the draft configuration.
func (s *Session) Draft() UserDashboardConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Committed returns a copy of the last committed configuration.
func (s *Session) Committed() UserDashboardConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

// Dirty reports whether edits were applied since the last commit or discard.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Committing reports whether a commit is in flight.
func (s *Session) Committing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committing
}

// Edit applies op to the draft. On error the draft is left unchanged and the
// error is returned.
func (s *Session) Edit(op Operation) error {
	if op == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return ErrCommitInProgress
	}
	next, err := op(s.draft.Clone())
	if err != nil {
		return err
	}
	if s.opts.StrictEdits {
		if err := s.opts.Validator.Check(next); err != nil {
			return err
		}
	}
	s.draft = next
	s.dirty = true
	return nil
}

// Commit validates the draft and saves it. Invalid drafts return a
// *ValidationError without touching the gateway. Save failures return a
// *TransportError and keep the draft so the caller can retry.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return ErrCommitInProgress
	}
	if violations := s.opts.Validator.Validate(s.draft); len(violations) > 0 {
		userID := s.draft.UserID
		s.mu.Unlock()
		s.record(ctx, "dashboard.layout.commit_rejected", map[string]any{
			"user_id":    userID,
			"violations": len(violations),
		})
		return &ValidationError{Violations: violations}
	}
	if s.opts.Gateway == nil {
		s.mu.Unlock()
		return errMissingGateway
	}
	pending := s.draft.Clone()
	pending.LastUpdated = s.opts.Clock()
	s.committing = true
	s.mu.Unlock()

	err := s.opts.Gateway.Save(ctx, pending)

	s.mu.Lock()
	s.committing = false
	if err != nil {
		s.mu.Unlock()
		s.record(ctx, "dashboard.layout.commit_failed", map[string]any{
			"user_id": pending.UserID,
			"error":   err.Error(),
		})
		return &TransportError{Op: "save", Err: err}
	}
	s.committed = pending
	s.draft = pending.Clone()
	s.dirty = false
	s.mu.Unlock()

	s.record(ctx, "dashboard.layout.commit", map[string]any{
		"user_id": pending.UserID,
		"widgets": len(pending.Widgets),
	})
	return nil
}

// Discard resets the draft to the committed configuration.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing {
		return ErrCommitInProgress
	}
	s.draft = s.committed.Clone()
	s.dirty = false
	return nil
}

func (s *Session) record(ctx context.Context, event string, payload map[string]any) {
	payload["session_id"] = s.id
	s.opts.Telemetry.Record(ctx, event, payload)
}
