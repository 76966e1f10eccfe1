package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

type draftService interface {
	Draft(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error)
}

// DraftQuery returns the viewer's working configuration.
type DraftQuery struct {
	service draftService
}

// NewDraftQuery builds the query.
func NewDraftQuery(service draftService) *DraftQuery {
	return &DraftQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.UserDashboardConfig] = (*DraftQuery)(nil)

// Query loads the draft for the viewer, opening a session when needed.
func (q *DraftQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error) {
	return q.service.Draft(ctx, viewer)
}
