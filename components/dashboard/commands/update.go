package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// UpdateWidgetInput captures widget patch payloads.
type UpdateWidgetInput struct {
	Actor
	WidgetID string                `json:"widget_id"`
	Patch    dashboard.WidgetPatch `json:"patch"`
}

type updateService interface {
	UpdateWidget(ctx context.Context, viewer dashboard.ViewerContext, widgetID string, patch dashboard.WidgetPatch) (dashboard.UserDashboardConfig, error)
}

// UpdateWidgetCommand wraps Service.UpdateWidget.
type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(service updateService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute applies the patch. Invalid results surface as *dashboard.ValidationError.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("update command requires widget id")
	}
	if msg.Patch.IsZero() {
		return nil
	}
	ctx = msg.context(ctx)
	if _, err := c.service.UpdateWidget(ctx, msg.Viewer, msg.WidgetID, msg.Patch); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.update_widget", payload(msg.Actor, map[string]any{
		"widget_id": msg.WidgetID,
	}))
	return nil
}
