package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/queries"
)

// Header names read by DefaultViewerResolver.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderActorID  = "X-Actor-ID"
	HeaderTenantID = "X-Tenant-ID"
)

var errMissingViewer = errors.New("httpapi: viewer user id is required")

// ViewerResolver extracts the acting viewer from a request.
type ViewerResolver func(r *http.Request) (commands.Actor, error)

// DefaultViewerResolver reads the viewer from identity headers set by an
// upstream authentication layer.
func DefaultViewerResolver(r *http.Request) (commands.Actor, error) {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		return commands.Actor{}, errMissingViewer
	}
	return commands.Actor{
		Viewer: dashboard.ViewerContext{
			UserID: userID,
			Role:   dashboard.Role(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
		},
		ActorID:  r.Header.Get(HeaderActorID),
		TenantID: r.Header.Get(HeaderTenantID),
	}, nil
}

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Executor Executor
	Resolver ViewerResolver
}

// Mount registers every endpoint on mux under base (for example "/dashboard").
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	base = strings.TrimRight(base, "/")
	mux.HandleFunc("GET "+base+"/config", h.HandleGetConfig)
	mux.HandleFunc("GET "+base+"/catalog", h.HandleGetCatalog)
	mux.HandleFunc("POST "+base+"/widgets", h.HandleAddWidget)
	mux.HandleFunc("POST "+base+"/widgets/reorder", h.HandleReorderWidget)
	mux.HandleFunc("PUT "+base+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE "+base+"/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("PUT "+base+"/theme", h.HandleSetTheme)
	mux.HandleFunc("PUT "+base+"/layout", h.HandleSetLayout)
	mux.HandleFunc("POST "+base+"/commit", h.HandleCommit)
	mux.HandleFunc("POST "+base+"/discard", h.HandleDiscard)
}

func (h *Handlers) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	result, err := h.Executor.Catalog(r.Context(), queries.CatalogInput{
		Viewer:        actor.Viewer,
		AvailableOnly: r.URL.Query().Get("available") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var payload AddWidgetBody
	if !decode(w, r, &payload) {
		return
	}
	if err := h.Executor.AddWidget(r.Context(), commands.AddWidgetInput{
		Actor:        actor,
		DefinitionID: payload.DefinitionID,
		Overrides:    payload.Overrides,
	}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusCreated)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Executor.RemoveWidget(r.Context(), commands.RemoveWidgetInput{Actor: actor, WidgetID: widgetID}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var patch dashboard.WidgetPatch
	if !decode(w, r, &patch) {
		return
	}
	if err := h.Executor.UpdateWidget(r.Context(), commands.UpdateWidgetInput{
		Actor:    actor,
		WidgetID: widgetID,
		Patch:    patch,
	}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleReorderWidget(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var payload ReorderBody
	if !decode(w, r, &payload) {
		return
	}
	if err := h.Executor.ReorderWidget(r.Context(), commands.ReorderWidgetInput{
		Actor: actor,
		From:  payload.From,
		To:    payload.To,
	}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var payload ThemeBody
	if !decode(w, r, &payload) {
		return
	}
	if !payload.Theme.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown theme %q", payload.Theme)})
		return
	}
	if err := h.Executor.SetTheme(r.Context(), commands.SetThemeInput{Actor: actor, Theme: payload.Theme}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleSetLayout(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var payload LayoutBody
	if !decode(w, r, &payload) {
		return
	}
	if !payload.Layout.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unknown layout %q", payload.Layout)})
		return
	}
	if err := h.Executor.SetLayout(r.Context(), commands.SetLayoutInput{Actor: actor, Layout: payload.Layout}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleCommit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Executor.Commit(r.Context(), commands.CommitInput{Actor: actor}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Executor.Discard(r.Context(), commands.DiscardInput{Actor: actor}); err != nil {
		writeError(w, err)
		return
	}
	h.respondDraft(w, r, actor, http.StatusOK)
}

func (h *Handlers) actor(w http.ResponseWriter, r *http.Request) (commands.Actor, bool) {
	resolver := h.Resolver
	if resolver == nil {
		resolver = DefaultViewerResolver
	}
	actor, err := resolver(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return commands.Actor{}, false
	}
	return actor, true
}

func (h *Handlers) respondDraft(w http.ResponseWriter, r *http.Request, actor commands.Actor, status int) {
	draft, err := h.Executor.Draft(r.Context(), actor.Viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, draft)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorResponse(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
