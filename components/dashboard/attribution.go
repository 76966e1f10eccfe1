package dashboard

import "context"

// Attribution names who changed a dashboard when that is not its owner, for
// example an admin editing on behalf of a user. Activity events fall back to
// the viewer for empty fields.
type Attribution struct {
	ActorID  string
	TenantID string
}

type attributionKey struct{}

// WithAttribution returns a copy of ctx carrying a.
func WithAttribution(ctx context.Context, a Attribution) context.Context {
	return context.WithValue(ctx, attributionKey{}, a)
}

// AttributionFrom returns the attribution stored on ctx.
func AttributionFrom(ctx context.Context) (Attribution, bool) {
	a, ok := ctx.Value(attributionKey{}).(Attribution)
	return a, ok
}

func (a Attribution) actor(viewer ViewerContext) string {
	if a.ActorID != "" {
		return a.ActorID
	}
	return viewer.UserID
}
