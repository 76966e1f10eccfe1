package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// SetThemeInput selects the dashboard theme.
type SetThemeInput struct {
	Actor
	Theme dashboard.Theme `json:"theme"`
}

// SetLayoutInput selects the dashboard layout mode.
type SetLayoutInput struct {
	Actor
	Layout dashboard.LayoutMode `json:"layout"`
}

type appearanceService interface {
	SetTheme(ctx context.Context, viewer dashboard.ViewerContext, theme dashboard.Theme) (dashboard.UserDashboardConfig, error)
	SetLayout(ctx context.Context, viewer dashboard.ViewerContext, mode dashboard.LayoutMode) (dashboard.UserDashboardConfig, error)
}

// SetThemeCommand wraps Service.SetTheme.
type SetThemeCommand struct {
	service   appearanceService
	telemetry Telemetry
}

// NewSetThemeCommand builds the command.
func NewSetThemeCommand(service appearanceService, telemetry Telemetry) *SetThemeCommand {
	return &SetThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetThemeInput] = (*SetThemeCommand)(nil)

// Execute applies the theme to the draft.
func (c *SetThemeCommand) Execute(ctx context.Context, msg SetThemeInput) error {
	if c.service == nil {
		return errors.New("theme command requires service")
	}
	ctx = msg.context(ctx)
	if _, err := c.service.SetTheme(ctx, msg.Viewer, msg.Theme); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.set_theme", payload(msg.Actor, map[string]any{
		"theme": string(msg.Theme),
	}))
	return nil
}

// SetLayoutCommand wraps Service.SetLayout.
type SetLayoutCommand struct {
	service   appearanceService
	telemetry Telemetry
}

// NewSetLayoutCommand builds the command.
func NewSetLayoutCommand(service appearanceService, telemetry Telemetry) *SetLayoutCommand {
	return &SetLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetLayoutInput] = (*SetLayoutCommand)(nil)

// Execute applies the layout mode to the draft.
func (c *SetLayoutCommand) Execute(ctx context.Context, msg SetLayoutInput) error {
	if c.service == nil {
		return errors.New("layout command requires service")
	}
	ctx = msg.context(ctx)
	if _, err := c.service.SetLayout(ctx, msg.Viewer, msg.Layout); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.set_layout", payload(msg.Actor, map[string]any{
		"layout": string(msg.Layout),
	}))
	return nil
}
