package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/queries"
)

// Executor runs layout commands and queries. Transports (net/http, go-router)
// depend on it instead of the Service.
type Executor interface {
	Draft(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error)
	Catalog(ctx context.Context, input queries.CatalogInput) (queries.CatalogResult, error)
	AddWidget(ctx context.Context, input commands.AddWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
	UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error
	ReorderWidget(ctx context.Context, input commands.ReorderWidgetInput) error
	SetTheme(ctx context.Context, input commands.SetThemeInput) error
	SetLayout(ctx context.Context, input commands.SetLayoutInput) error
	Commit(ctx context.Context, input commands.CommitInput) error
	Discard(ctx context.Context, input commands.DiscardInput) error
}

// CommandExecutor dispatches to go-command commanders and queriers.
type CommandExecutor struct {
	DraftQuery   gocommand.Querier[dashboard.ViewerContext, dashboard.UserDashboardConfig]
	CatalogQuery gocommand.Querier[queries.CatalogInput, queries.CatalogResult]
	Add          gocommand.Commander[commands.AddWidgetInput]
	Remove       gocommand.Commander[commands.RemoveWidgetInput]
	Update       gocommand.Commander[commands.UpdateWidgetInput]
	Reorder      gocommand.Commander[commands.ReorderWidgetInput]
	Theme        gocommand.Commander[commands.SetThemeInput]
	Layout       gocommand.Commander[commands.SetLayoutInput]
	CommitCmd    gocommand.Commander[commands.CommitInput]
	DiscardCmd   gocommand.Commander[commands.DiscardInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query against service.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		DraftQuery:   queries.NewDraftQuery(service),
		CatalogQuery: queries.NewCatalogQuery(service),
		Add:          commands.NewAddWidgetCommand(service, telemetry),
		Remove:       commands.NewRemoveWidgetCommand(service, telemetry),
		Update:       commands.NewUpdateWidgetCommand(service, telemetry),
		Reorder:      commands.NewReorderWidgetCommand(service, telemetry),
		Theme:        commands.NewSetThemeCommand(service, telemetry),
		Layout:       commands.NewSetLayoutCommand(service, telemetry),
		CommitCmd:    commands.NewCommitCommand(service, telemetry),
		DiscardCmd:   commands.NewDiscardCommand(service, telemetry),
	}
}

var errNotConfigured = errors.New("httpapi: handler not configured")

func (e *CommandExecutor) Draft(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error) {
	if e.DraftQuery == nil {
		return dashboard.UserDashboardConfig{}, errNotConfigured
	}
	return e.DraftQuery.Query(ctx, viewer)
}

func (e *CommandExecutor) Catalog(ctx context.Context, input queries.CatalogInput) (queries.CatalogResult, error) {
	if e.CatalogQuery == nil {
		return queries.CatalogResult{}, errNotConfigured
	}
	return e.CatalogQuery.Query(ctx, input)
}

func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) error {
	return execute(ctx, e.Add, input)
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.Remove, input)
}

func (e *CommandExecutor) UpdateWidget(ctx context.Context, input commands.UpdateWidgetInput) error {
	return execute(ctx, e.Update, input)
}

func (e *CommandExecutor) ReorderWidget(ctx context.Context, input commands.ReorderWidgetInput) error {
	return execute(ctx, e.Reorder, input)
}

func (e *CommandExecutor) SetTheme(ctx context.Context, input commands.SetThemeInput) error {
	return execute(ctx, e.Theme, input)
}

func (e *CommandExecutor) SetLayout(ctx context.Context, input commands.SetLayoutInput) error {
	return execute(ctx, e.Layout, input)
}

func (e *CommandExecutor) Commit(ctx context.Context, input commands.CommitInput) error {
	return execute(ctx, e.CommitCmd, input)
}

func (e *CommandExecutor) Discard(ctx context.Context, input commands.DiscardInput) error {
	return execute(ctx, e.DiscardCmd, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}
