package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	core "github.com/goliatone/go-dashboard-layout/components/dashboard"
)

const manifestYAML = `version: "1"
name: finance
widgets:
  - id: cash-flow
    title: Cash Flow
    kind: chart
    default_width: 6
    default_height: 4
    data_source: finance.cash_flow
    allowed_chart_kinds: [line, bar]
    role_gate: manager-or-above
roles:
  manager:
    extensions: [team-performance, pending-approvals, cash-flow]
    defaults: [kpi-metrics, cash-flow]
`

func TestOpenGatewayBackends(t *testing.T) {
	ctx := context.Background()

	gateway, closer, err := OpenGateway(ctx, Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &core.InMemoryConfigStore{}, gateway)
	require.NoError(t, closer())

	_, _, err = OpenGateway(ctx, Config{Store: "etcd"}, nil)
	assert.ErrorContains(t, err, "unknown store")

	_, _, err = OpenGateway(ctx, Config{Store: StorePostgres}, nil)
	assert.ErrorContains(t, err, "requires a dsn")

	_, _, err = OpenGateway(ctx, Config{Store: StoreRedis}, nil)
	assert.ErrorContains(t, err, "redis address")
}

func TestBuildWithSQLiteAndManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "finance.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(manifestYAML), 0o600))

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	cfg := Config{
		Store:     StoreSQLite,
		DSN:       "file:" + filepath.Join(dir, "layouts.db"),
		Manifests: []string{manifest},
		Tracing:   true,
	}
	ctx := context.Background()
	service, closer, err := Build(ctx, cfg, Options{}, provider)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	manager := core.ViewerContext{UserID: "user-2", Role: core.RoleManager}
	draft, err := service.Draft(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, []string{"kpi-metrics", "cash-flow"}, draft.WidgetIDs())

	bar := core.ChartBar
	_, err = service.UpdateWidget(ctx, manager, "cash-flow", core.WidgetPatch{ChartKind: &bar})
	require.NoError(t, err)
	_, err = service.Commit(ctx, manager)
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "dashboard.layout.load")
	assert.Contains(t, names, "dashboard.layout.save")

	reopened, closer2, err := Build(ctx, cfg, Options{}, provider)
	require.NoError(t, err)
	defer func() { _ = closer2() }()
	stored, err := reopened.Draft(ctx, manager)
	require.NoError(t, err)
	widget, ok := stored.Widget("cash-flow")
	require.True(t, ok)
	assert.Equal(t, core.ChartBar, widget.ChartKind)
}

func TestLoadCatalogReportsManifestErrors(t *testing.T) {
	_, err := LoadCatalog([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	catalog, err := LoadCatalog(nil)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultCatalog(), catalog)
}
