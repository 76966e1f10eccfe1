package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// ReorderWidgetInput moves the widget at From to index To.
type ReorderWidgetInput struct {
	Actor
	From int `json:"from"`
	To   int `json:"to"`
}

type reorderService interface {
	ReorderWidget(ctx context.Context, viewer dashboard.ViewerContext, from, to int) (dashboard.UserDashboardConfig, error)
}

// ReorderWidgetCommand wraps Service.ReorderWidget.
type ReorderWidgetCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderWidgetCommand builds the command.
func NewReorderWidgetCommand(service reorderService, telemetry Telemetry) *ReorderWidgetCommand {
	return &ReorderWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetInput] = (*ReorderWidgetCommand)(nil)

// Execute reorders the draft.
func (c *ReorderWidgetCommand) Execute(ctx context.Context, msg ReorderWidgetInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	ctx = msg.context(ctx)
	if _, err := c.service.ReorderWidget(ctx, msg.Viewer, msg.From, msg.To); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.reorder_widget", payload(msg.Actor, map[string]any{
		"from": msg.From,
		"to":   msg.To,
	}))
	return nil
}
