package gorouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/queries"
)

// RequestContext is the part of router.Context the layout handlers use.
type RequestContext interface {
	Context() context.Context
	Body() []byte
	Param(name string, defaultValue ...string) string
	Query(name string, defaultValue ...string) string
	Header(key string) string
	Locals(key any, value ...any) any
	JSON(code int, v any) error
}

// Routes is the part of router.Router the layout API is mounted on.
type Routes interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// ViewerResolver converts a request into the acting viewer.
type ViewerResolver func(RequestContext) commands.Actor

// Config wires go-router with the layout API.
type Config[T any] struct {
	Router         router.Router[T]
	API            httpapi.Executor
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for layout endpoints.
type RouteConfig struct {
	Config   string
	Catalog  string
	Widgets  string
	WidgetID string
	Reorder  string
	Theme    string
	Layout   string
	Commit   string
	Discard  string
}

// Handler is a layout endpoint expressed against RequestContext.
type Handler func(RequestContext) error

// Route binds a handler to a method and path.
type Route struct {
	Method  string
	Path    string
	Handler Handler
}

// Register mounts the layout routes on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/api"
	}
	return Mount(cfg.Router.Group(base), BuildRoutes(cfg.API, cfg.ViewerResolver, cfg.Routes))
}

// Mount registers routes on r.
func Mount(r Routes, routes []Route) error {
	for _, route := range routes {
		handler := route.Handler
		wrapped := router.WrapHandler(func(ctx router.Context) error {
			return handler(ctx)
		})
		switch route.Method {
		case http.MethodGet:
			r.Get(route.Path, wrapped)
		case http.MethodPost:
			r.Post(route.Path, wrapped)
		case http.MethodPut:
			r.Put(route.Path, wrapped)
		case http.MethodDelete:
			r.Delete(route.Path, wrapped)
		default:
			return fmt.Errorf("gorouter: unsupported method %s for %s", route.Method, route.Path)
		}
	}
	return nil
}

// BuildRoutes returns the layout route table.
func BuildRoutes(api httpapi.Executor, resolver ViewerResolver, cfg RouteConfig) []Route {
	paths := defaultRouteConfig(cfg)
	if resolver == nil {
		resolver = DefaultViewerResolver
	}
	h := handlers{api: api, resolver: resolver}
	return []Route{
		{Method: http.MethodGet, Path: paths.Config, Handler: h.withActor(h.getConfig)},
		{Method: http.MethodGet, Path: paths.Catalog, Handler: h.withActor(h.getCatalog)},
		{Method: http.MethodPost, Path: paths.Widgets, Handler: h.withActor(h.addWidget)},
		{Method: http.MethodPost, Path: paths.Reorder, Handler: h.withActor(h.reorderWidget)},
		{Method: http.MethodPut, Path: paths.WidgetID, Handler: h.withActor(h.updateWidget)},
		{Method: http.MethodDelete, Path: paths.WidgetID, Handler: h.withActor(h.removeWidget)},
		{Method: http.MethodPut, Path: paths.Theme, Handler: h.withActor(h.setTheme)},
		{Method: http.MethodPut, Path: paths.Layout, Handler: h.withActor(h.setLayout)},
		{Method: http.MethodPost, Path: paths.Commit, Handler: h.withActor(h.commit)},
		{Method: http.MethodPost, Path: paths.Discard, Handler: h.withActor(h.discard)},
	}
}

type handlers struct {
	api      httpapi.Executor
	resolver ViewerResolver
}

type actorHandler func(RequestContext, commands.Actor) error

func (h handlers) withActor(next actorHandler) Handler {
	return func(ctx RequestContext) error {
		actor := h.resolver(ctx)
		if actor.Viewer.UserID == "" {
			return respond(ctx, http.StatusUnauthorized, httpapi.ErrorResponse{Error: "viewer user id is required"})
		}
		return next(ctx, actor)
	}
}

func (h handlers) getConfig(ctx RequestContext, actor commands.Actor) error {
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) getCatalog(ctx RequestContext, actor commands.Actor) error {
	available, _ := strconv.ParseBool(ctx.Query("available", "false"))
	result, err := h.api.Catalog(ctx.Context(), queries.CatalogInput{Viewer: actor.Viewer, AvailableOnly: available})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

func (h handlers) addWidget(ctx RequestContext, actor commands.Actor) error {
	var payload httpapi.AddWidgetBody
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: err.Error()})
	}
	if err := h.api.AddWidget(ctx.Context(), commands.AddWidgetInput{
		Actor:        actor,
		DefinitionID: payload.DefinitionID,
		Overrides:    payload.Overrides,
	}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusCreated)
}

func (h handlers) removeWidget(ctx RequestContext, actor commands.Actor) error {
	id := ctx.Param("id")
	if id == "" {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: "widget id is required"})
	}
	if err := h.api.RemoveWidget(ctx.Context(), commands.RemoveWidgetInput{Actor: actor, WidgetID: id}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) updateWidget(ctx RequestContext, actor commands.Actor) error {
	var patch dashboard.WidgetPatch
	if err := json.Unmarshal(ctx.Body(), &patch); err != nil {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: err.Error()})
	}
	if err := h.api.UpdateWidget(ctx.Context(), commands.UpdateWidgetInput{
		Actor:    actor,
		WidgetID: ctx.Param("id"),
		Patch:    patch,
	}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) reorderWidget(ctx RequestContext, actor commands.Actor) error {
	var payload httpapi.ReorderBody
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: err.Error()})
	}
	if err := h.api.ReorderWidget(ctx.Context(), commands.ReorderWidgetInput{
		Actor: actor,
		From:  payload.From,
		To:    payload.To,
	}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) setTheme(ctx RequestContext, actor commands.Actor) error {
	var payload httpapi.ThemeBody
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil || !payload.Theme.Valid() {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: fmt.Sprintf("invalid theme payload: %s", ctx.Body())})
	}
	if err := h.api.SetTheme(ctx.Context(), commands.SetThemeInput{Actor: actor, Theme: payload.Theme}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) setLayout(ctx RequestContext, actor commands.Actor) error {
	var payload httpapi.LayoutBody
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil || !payload.Layout.Valid() {
		return respond(ctx, http.StatusBadRequest, httpapi.ErrorResponse{Error: fmt.Sprintf("invalid layout payload: %s", ctx.Body())})
	}
	if err := h.api.SetLayout(ctx.Context(), commands.SetLayoutInput{Actor: actor, Layout: payload.Layout}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) commit(ctx RequestContext, actor commands.Actor) error {
	if err := h.api.Commit(ctx.Context(), commands.CommitInput{Actor: actor}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) discard(ctx RequestContext, actor commands.Actor) error {
	if err := h.api.Discard(ctx.Context(), commands.DiscardInput{Actor: actor}); err != nil {
		return respondError(ctx, err)
	}
	return h.respondDraft(ctx, actor, http.StatusOK)
}

func (h handlers) respondDraft(ctx RequestContext, actor commands.Actor, status int) error {
	draft, err := h.api.Draft(ctx.Context(), actor.Viewer)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(status, draft)
}

// DefaultViewerResolver reads the viewer from locals set by auth middleware,
// falling back to the identity headers used by httpapi.
func DefaultViewerResolver(ctx RequestContext) commands.Actor {
	var actor commands.Actor
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.Viewer.UserID = v
	}
	if v, ok := ctx.Locals("role").(string); ok {
		actor.Viewer.Role = dashboard.Role(v)
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		actor.TenantID = v
	}
	if actor.Viewer.UserID == "" {
		actor.Viewer.UserID = strings.TrimSpace(ctx.Header(httpapi.HeaderUserID))
	}
	if actor.Viewer.Role == "" {
		actor.Viewer.Role = dashboard.Role(strings.TrimSpace(ctx.Header(httpapi.HeaderUserRole)))
	}
	if actor.ActorID == "" {
		actor.ActorID = ctx.Header(httpapi.HeaderActorID)
	}
	if actor.TenantID == "" {
		actor.TenantID = ctx.Header(httpapi.HeaderTenantID)
	}
	return actor
}

func respondError(ctx RequestContext, err error) error {
	return respond(ctx, httpapi.StatusFor(err), httpapi.NewErrorResponse(err))
}

func respond(ctx RequestContext, status int, body httpapi.ErrorResponse) error {
	return ctx.JSON(status, body)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Config == "" {
		routes.Config = "/dashboard/config"
	}
	if routes.Catalog == "" {
		routes.Catalog = "/dashboard/catalog"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboard/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/dashboard/widgets/:id"
	}
	if routes.Reorder == "" {
		routes.Reorder = "/dashboard/widgets/reorder"
	}
	if routes.Theme == "" {
		routes.Theme = "/dashboard/theme"
	}
	if routes.Layout == "" {
		routes.Layout = "/dashboard/layout"
	}
	if routes.Commit == "" {
		routes.Commit = "/dashboard/commit"
	}
	if routes.Discard == "" {
		routes.Discard = "/dashboard/discard"
	}
	return routes
}
