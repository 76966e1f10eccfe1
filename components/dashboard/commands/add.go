package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// AddWidgetInput adds a catalog definition to the viewer's draft.
type AddWidgetInput struct {
	Actor
	DefinitionID string                 `json:"definition_id"`
	Overrides    *dashboard.WidgetPatch `json:"overrides,omitempty"`
}

type addService interface {
	AddWidget(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.AddWidgetRequest) (dashboard.UserDashboardConfig, error)
}

// AddWidgetCommand translates incoming requests into service calls and emits
// telemetry so operators can observe widget additions.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	if msg.DefinitionID == "" {
		return errors.New("add command requires definition id")
	}
	ctx = msg.context(ctx)
	if _, err := c.service.AddWidget(ctx, msg.Viewer, dashboard.AddWidgetRequest{
		DefinitionID: msg.DefinitionID,
		Overrides:    msg.Overrides,
	}); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.add_widget", payload(msg.Actor, map[string]any{
		"definition_id": msg.DefinitionID,
	}))
	return nil
}
