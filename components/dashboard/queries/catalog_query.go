package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

// CatalogInput selects the viewer and whether definitions already on the
// draft are filtered out.
type CatalogInput struct {
	Viewer        dashboard.ViewerContext
	AvailableOnly bool
}

// CatalogResult lists widget definitions in catalog priority order.
type CatalogResult struct {
	Role        dashboard.Role               `json:"role"`
	Definitions []dashboard.WidgetDefinition `json:"definitions"`
}

type catalogService interface {
	Catalog(viewer dashboard.ViewerContext) []dashboard.WidgetDefinition
	Available(ctx context.Context, viewer dashboard.ViewerContext) ([]dashboard.WidgetDefinition, error)
}

// CatalogQuery resolves the widget catalog for a viewer's role.
type CatalogQuery struct {
	service catalogService
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(service catalogService) *CatalogQuery {
	return &CatalogQuery{service: service}
}

var _ gocommand.Querier[CatalogInput, CatalogResult] = (*CatalogQuery)(nil)

// Query returns the role catalog, or only entries still available to add.
func (q *CatalogQuery) Query(ctx context.Context, input CatalogInput) (CatalogResult, error) {
	result := CatalogResult{Role: input.Viewer.Role}
	if !input.AvailableOnly {
		result.Definitions = q.service.Catalog(input.Viewer)
		return result, nil
	}
	defs, err := q.service.Available(ctx, input.Viewer)
	if err != nil {
		return CatalogResult{}, err
	}
	result.Definitions = defs
	return result, nil
}
