package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/components/dashboard/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubDraftQuery struct{}

func (stubDraftQuery) Query(_ context.Context, viewer dashboard.ViewerContext) (dashboard.UserDashboardConfig, error) {
	return dashboard.EmptyConfig(viewer.UserID), nil
}

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderUserRole, "manager")
	return req
}

func TestHandleAddWidget(t *testing.T) {
	add := &stubCommander[commands.AddWidgetInput]{}
	api := &Handlers{Executor: &CommandExecutor{Add: add, DraftQuery: stubDraftQuery{}}}
	rec := httptest.NewRecorder()
	api.HandleAddWidget(rec, newRequest(http.MethodPost, "/dashboard/widgets", `{"definitionId":"team-performance"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, add.calls)
	assert.Equal(t, "team-performance", add.last.DefinitionID)
	assert.Equal(t, dashboard.RoleManager, add.last.Viewer.Role)
	assert.Equal(t, "user-1", add.last.Viewer.UserID)
}

func TestHandleRemoveWidget(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	api := &Handlers{Executor: &CommandExecutor{Remove: remove, DraftQuery: stubDraftQuery{}}}
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, newRequest(http.MethodDelete, "/dashboard/widgets/todos", ""), "todos")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "todos", remove.last.WidgetID)
}

func TestHandlersRequireViewer(t *testing.T) {
	api := &Handlers{Executor: &CommandExecutor{DraftQuery: stubDraftQuery{}}}
	rec := httptest.NewRecorder()
	api.HandleGetConfig(rec, httptest.NewRequest(http.MethodGet, "/dashboard/config", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDefaultViewerResolverKeepsRoleTokenVerbatim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard/config", nil)
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderUserRole, " Manager ")

	actor, err := DefaultViewerResolver(req)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Role("Manager"), actor.Viewer.Role)
	assert.NotEqual(t, dashboard.RoleManager, actor.Viewer.Role)
}

func TestHandleSetThemeRejectsUnknownTheme(t *testing.T) {
	theme := &stubCommander[commands.SetThemeInput]{}
	api := &Handlers{Executor: &CommandExecutor{Theme: theme, DraftQuery: stubDraftQuery{}}}

	rec := httptest.NewRecorder()
	api.HandleSetTheme(rec, newRequest(http.MethodPut, "/dashboard/theme", `{"theme":"sepia"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	api.HandleSetTheme(rec, newRequest(http.MethodPut, "/dashboard/theme", `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, theme.calls)
}

func TestHandleCommitMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&dashboard.ValidationError{Violations: []dashboard.Violation{{WidgetID: "todos", Rule: dashboard.RuleSize, Message: "width 13 outside [1,12]"}}}, http.StatusUnprocessableEntity},
		{&dashboard.TransportError{Op: "save", Err: errors.New("offline")}, http.StatusBadGateway},
		{dashboard.ErrCommitInProgress, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		commit := &stubCommander[commands.CommitInput]{err: tc.err}
		api := &Handlers{Executor: &CommandExecutor{CommitCmd: commit, DraftQuery: stubDraftQuery{}}}
		rec := httptest.NewRecorder()
		api.HandleCommit(rec, newRequest(http.MethodPost, "/dashboard/commit", ""))
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusFor(nil))
	assert.Equal(t, http.StatusConflict, StatusFor(&dashboard.DuplicateWidgetError{WidgetID: "todos"}))
	assert.Equal(t, http.StatusNotFound, StatusFor(&dashboard.WidgetNotFoundError{WidgetID: "x"}))
	assert.Equal(t, http.StatusNotFound, StatusFor(&dashboard.UnknownDefinitionError{DefinitionID: "x"}))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&dashboard.IndexOutOfRangeError{From: 5, To: 0, Len: 2}))
}

func TestMountedRoutesAgainstService(t *testing.T) {
	service := dashboard.NewService(dashboard.Options{})
	api := &Handlers{Executor: NewCommandExecutor(service, nil)}
	mux := http.NewServeMux()
	api.Mount(mux, "/dashboard")

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, newRequest(method, target, body))
		return rec
	}

	rec := do(http.MethodGet, "/dashboard/catalog?available=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending-approvals")

	rec = do(http.MethodPost, "/dashboard/widgets", `{"definitionId":"pending-approvals"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/dashboard/widgets", `{"definitionId":"pending-approvals"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodPut, "/dashboard/widgets/todos", `{"width":13}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var failure ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))
	require.NotEmpty(t, failure.Violations)
	assert.Equal(t, "todos", failure.Violations[0].WidgetID)
	assert.Equal(t, dashboard.RuleSize, failure.Violations[0].Rule)

	rec = do(http.MethodPost, "/dashboard/widgets/reorder", `{"from":5,"to":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/dashboard/widgets/reorder", `{"from":40,"to":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPut, "/dashboard/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodPost, "/dashboard/commit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var committed dashboard.UserDashboardConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &committed))
	assert.Equal(t, dashboard.ThemeDark, committed.Theme)
	assert.Equal(t, "pending-approvals", committed.Widgets[0].ID)
	assert.False(t, committed.LastUpdated.IsZero())

	rec = do(http.MethodDelete, "/dashboard/widgets/pending-approvals", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(http.MethodPost, "/dashboard/discard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending-approvals")

	rec = do(http.MethodPost, "/dashboard/widgets", `{"definitionId":"system-health"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
