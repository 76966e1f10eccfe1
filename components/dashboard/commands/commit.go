package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// CommitInput persists the viewer's draft.
type CommitInput struct {
	Actor
}

// DiscardInput drops the viewer's uncommitted edits.
type DiscardInput struct {
	Actor
}

type commitService interface {
	Commit(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error)
	Discard(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error)
}

// CommitCommand validates and saves the draft. Transport failures come back
// as *dashboard.TransportError and are not retried here.
type CommitCommand struct {
	service   commitService
	telemetry Telemetry
}

// NewCommitCommand builds the command.
func NewCommitCommand(service commitService, telemetry Telemetry) *CommitCommand {
	return &CommitCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CommitInput] = (*CommitCommand)(nil)

// Execute commits the draft.
func (c *CommitCommand) Execute(ctx context.Context, msg CommitInput) error {
	if c.service == nil {
		return errors.New("commit command requires service")
	}
	ctx = msg.context(ctx)
	committed, err := c.service.Commit(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.commit", payload(msg.Actor, map[string]any{
		"widgets": len(committed.Widgets),
	}))
	return nil
}

// DiscardCommand resets the draft to the committed configuration.
type DiscardCommand struct {
	service   commitService
	telemetry Telemetry
}

// NewDiscardCommand builds the command.
func NewDiscardCommand(service commitService, telemetry Telemetry) *DiscardCommand {
	return &DiscardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DiscardInput] = (*DiscardCommand)(nil)

// Execute discards the draft.
func (c *DiscardCommand) Execute(ctx context.Context, msg DiscardInput) error {
	if c.service == nil {
		return errors.New("discard command requires service")
	}
	if _, err := c.service.Discard(ctx, msg.Viewer); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.discard", payload(msg.Actor, nil))
	return nil
}
