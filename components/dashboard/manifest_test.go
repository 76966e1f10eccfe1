package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCatalogManifest(t *testing.T) {
	const payload = `
version: "1"
name: finance-pack
widgets:
  - id: cash-flow
    title: Cash Flow
    description: Monthly inflow against outflow.
    kind: chart
    default_width: 6
    default_height: 4
    data_source: finance.cashflow
    allowed_chart_kinds: [line, bar]
    role_gate: manager-or-above
    settings_schema:
      type: object
      properties:
        currency:
          type: string
roles:
  manager:
    extensions: [cash-flow]
`
	doc, err := DecodeCatalogManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)

	def := doc.Widgets[0]
	assert.Equal(t, "cash-flow", def.ID)
	assert.Equal(t, KindChart, def.Kind)
	assert.Equal(t, 6, def.DefaultWidth)
	assert.Equal(t, []ChartKind{ChartLine, ChartBar}, def.AllowedChartKinds)
	assert.Equal(t, GateManagerOrAbove, def.RoleGate)
	assert.Equal(t, "object", def.SettingsSchema["type"])
	assert.Equal(t, []string{"cash-flow"}, doc.Roles[RoleManager].Extensions)
}

func TestCatalogApplyManifest(t *testing.T) {
	doc := &CatalogManifest{
		Version: manifestVersionV1,
		Widgets: []WidgetDefinition{{
			ID:            "inventory",
			Title:         "Inventory",
			Kind:          KindTable,
			DefaultWidth:  6,
			DefaultHeight: 4,
			DataSource:    "warehouse.inventory",
		}},
	}
	catalog, err := DefaultCatalog().ApplyManifest(doc)
	require.NoError(t, err)

	def, ok := catalog.Definition("inventory")
	require.True(t, ok)
	assert.Equal(t, "Inventory", def.Title)

	employee := catalog.Build(RoleEmployee)
	assert.Equal(t, "inventory", employee[len(employee)-1].ID)

	_, inDefault := DefaultCatalog().Definition("inventory")
	assert.False(t, inDefault, "applying a manifest must not mutate the source catalog")
}

func TestCatalogManifestRejectsDuplicateIDs(t *testing.T) {
	const payload = `
version: "1"
widgets:
  - id: notes
    title: Notes
    kind: list
    default_width: 4
    default_height: 3
  - id: notes
    title: Notes Again
    kind: list
    default_width: 4
    default_height: 3
`
	_, err := DecodeCatalogManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates widget id notes")
}

func TestCatalogManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
version: "1"
widgets:
  - id: notes
    title: Notes
    kind: list
    default_width: 4
    default_height: 3
    colour: blue
`
	_, err := DecodeCatalogManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestCatalogManifestRejectsUnknownKind(t *testing.T) {
	const payload = `
version: "1"
widgets:
  - id: notes
    title: Notes
    kind: carousel
    default_width: 4
    default_height: 3
`
	_, err := DecodeCatalogManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestCatalogManifestRejectsUnsupportedVersion(t *testing.T) {
	_, err := DecodeCatalogManifest(strings.NewReader("version: \"2\"\nwidgets: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest version")
}

func TestApplyManifestRejectsPolicyOutsideGate(t *testing.T) {
	doc := &CatalogManifest{
		Version: manifestVersionV1,
		Roles: map[Role]RolePolicy{
			RoleEmployee: {Extensions: []string{"system-health"}},
		},
		Source: "roles.yaml",
	}
	_, err := DefaultCatalog().ApplyManifest(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roles.yaml")
}

func TestManifestFileRoundTrip(t *testing.T) {
	doc := &CatalogManifest{
		Version: manifestVersionV1,
		Name:    "support-pack",
		Widgets: []WidgetDefinition{{
			ID:            "open-tickets",
			Title:         "Open Tickets",
			Kind:          KindMetric,
			DefaultWidth:  3,
			DefaultHeight: 2,
			DataSource:    "support.tickets",
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeCatalogManifest(&buf, doc))

	path := filepath.Join(t.TempDir(), "support.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	catalog, err := DefaultCatalog().LoadManifestFile(path)
	require.NoError(t, err)
	def, ok := catalog.Definition("open-tickets")
	require.True(t, ok)
	assert.Equal(t, KindMetric, def.Kind)
}
