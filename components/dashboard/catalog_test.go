package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func definitionIDs(defs []WidgetDefinition) []string {
	ids := make([]string, len(defs))
	for idx, def := range defs {
		ids[idx] = def.ID
	}
	return ids
}

func TestBuildCatalogPerRole(t *testing.T) {
	base := []string{"revenue-chart", "sales-summary", "activities", "todos", "kpi-metrics", "recent-orders"}

	assert.Equal(t, base, definitionIDs(BuildCatalog(RoleEmployee)))
	assert.Equal(t,
		append(append([]string{}, base...), "team-performance", "pending-approvals"),
		definitionIDs(BuildCatalog(RoleManager)))
	assert.Equal(t,
		append(append([]string{}, base...), "team-performance", "pending-approvals", "system-health", "user-activity"),
		definitionIDs(BuildCatalog(RoleAdmin)))
}

func TestBuildCatalogUnknownRoleGetsBase(t *testing.T) {
	got := definitionIDs(BuildCatalog(Role("contractor")))
	assert.Equal(t, definitionIDs(BuildCatalog(RoleEmployee)), got)
}

func TestBuildCatalogIsDeterministic(t *testing.T) {
	for _, role := range []Role{RoleEmployee, RoleManager, RoleAdmin} {
		first := BuildCatalog(role)
		second := BuildCatalog(role)
		require.Equal(t, first, second, "role %s", role)
	}
}

func TestBuildCatalogReturnsCopies(t *testing.T) {
	defs := BuildCatalog(RoleEmployee)
	defs[0].Title = "Mutated"
	defs[0].AllowedChartKinds[0] = ChartPie

	again := BuildCatalog(RoleEmployee)
	assert.Equal(t, "Revenue", again[0].Title)
	assert.Equal(t, ChartLine, again[0].AllowedChartKinds[0])
}

func TestRoleGateAllows(t *testing.T) {
	cases := []struct {
		gate RoleGate
		role Role
		want bool
	}{
		{GateNone, RoleEmployee, true},
		{GateNone, Role("guest"), true},
		{GateManagerOrAbove, RoleEmployee, false},
		{GateManagerOrAbove, RoleManager, true},
		{GateManagerOrAbove, RoleAdmin, true},
		{GateAdminOnly, RoleManager, false},
		{GateAdminOnly, RoleAdmin, true},
		{RoleGate("owner-only"), RoleAdmin, false},
	}
	for _, tc := range cases {
		if got := tc.gate.Allows(tc.role); got != tc.want {
			t.Fatalf("gate %q role %q: expected %v, got %v", tc.gate, tc.role, tc.want, got)
		}
	}
}

func TestAvailableToAdd(t *testing.T) {
	catalog := BuildCatalog(RoleEmployee)
	cfg := DefaultCatalog().DefaultConfig("user-1", RoleEmployee)

	available := AvailableToAdd(catalog, cfg)
	assert.Equal(t, []string{"sales-summary", "recent-orders"}, definitionIDs(available))

	empty := UserDashboardConfig{UserID: "user-1"}
	assert.Equal(t, definitionIDs(catalog), definitionIDs(AvailableToAdd(catalog, empty)))
}

func TestDefaultConfigPerRole(t *testing.T) {
	employee := DefaultCatalog().DefaultConfig("u-1", RoleEmployee)
	assert.Equal(t, "u-1", employee.UserID)
	assert.Equal(t, ThemeAuto, employee.Theme)
	assert.Equal(t, LayoutGrid, employee.Layout)
	assert.Equal(t, []string{"kpi-metrics", "revenue-chart", "activities", "todos"}, employee.WidgetIDs())
	assert.Empty(t, Validate(employee))

	manager := DefaultCatalog().DefaultConfig("u-2", RoleManager)
	assert.Contains(t, manager.WidgetIDs(), "team-performance")

	admin := DefaultCatalog().DefaultConfig("u-3", RoleAdmin)
	assert.Contains(t, admin.WidgetIDs(), "system-health")
	assert.Empty(t, Validate(admin))
}

func TestDefaultConfigUsesDefinitionDefaults(t *testing.T) {
	cfg := DefaultCatalog().DefaultConfig("u-1", RoleEmployee)
	revenue, ok := cfg.Widget("revenue-chart")
	require.True(t, ok)
	assert.Equal(t, 8, revenue.Width)
	assert.Equal(t, 6, revenue.Height)
	assert.Equal(t, ChartLine, revenue.ChartKind)
	assert.Equal(t, RangeMonthly, revenue.TimeRange)
	assert.True(t, revenue.IsVisible)
	assert.Equal(t, "sales.revenue", revenue.DataSource)
}

func TestDefaultConfigWithoutPolicyUsesBuild(t *testing.T) {
	catalog, err := NewCatalog(DefaultWidgetDefinitions(), nil)
	require.NoError(t, err)
	cfg := catalog.DefaultConfig("u-1", RoleEmployee)
	assert.Equal(t, definitionIDs(catalog.Build(RoleEmployee)), cfg.WidgetIDs())
}

func TestNewCatalogRejectsInvalidDefinitions(t *testing.T) {
	valid := WidgetDefinition{ID: "notes", Title: "Notes", Kind: KindList, DefaultWidth: 4, DefaultHeight: 3}

	cases := map[string]func(WidgetDefinition) WidgetDefinition{
		"missing id":      func(d WidgetDefinition) WidgetDefinition { d.ID = ""; return d },
		"unknown kind":    func(d WidgetDefinition) WidgetDefinition { d.Kind = "carousel"; return d },
		"too wide":        func(d WidgetDefinition) WidgetDefinition { d.DefaultWidth = 13; return d },
		"too short":       func(d WidgetDefinition) WidgetDefinition { d.DefaultHeight = 1; return d },
		"chart no kinds":  func(d WidgetDefinition) WidgetDefinition { d.Kind = KindChart; return d },
		"list with kinds": func(d WidgetDefinition) WidgetDefinition { d.AllowedChartKinds = []ChartKind{ChartPie}; return d },
		"unknown gate":    func(d WidgetDefinition) WidgetDefinition { d.RoleGate = "owner-only"; return d },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewCatalog([]WidgetDefinition{mutate(valid)}, nil)
			require.Error(t, err)
		})
	}

	_, err := NewCatalog([]WidgetDefinition{valid, valid}, nil)
	require.Error(t, err)
}

func TestNewCatalogRejectsInvalidPolicies(t *testing.T) {
	defs := DefaultWidgetDefinitions()
	cases := map[Role]RolePolicy{
		RoleManager:  {Extensions: []string{"missing"}},
		RoleEmployee: {Extensions: []string{"team-performance"}},
		RoleAdmin:    {Extensions: []string{"todos"}},
	}
	for role, policy := range cases {
		_, err := NewCatalog(defs, map[Role]RolePolicy{role: policy})
		require.Error(t, err, "role %s", role)
	}

	_, err := NewCatalog(defs, map[Role]RolePolicy{
		RoleManager: {Defaults: []string{"team-performance"}},
	})
	require.Error(t, err, "gated default outside extensions")

	_, err = NewCatalog(defs, map[Role]RolePolicy{
		RoleManager: {Extensions: []string{"team-performance", "team-performance"}},
	})
	require.Error(t, err, "duplicate extension")
}

func TestCatalogExtend(t *testing.T) {
	replacement := WidgetDefinition{
		ID:            "todos",
		Title:         "Tasks",
		Kind:          KindList,
		DefaultWidth:  6,
		DefaultHeight: 4,
		DataSource:    "tasks.v2",
	}
	forecast := WidgetDefinition{
		ID:                "forecast",
		Title:             "Forecast",
		Kind:              KindChart,
		DefaultWidth:      6,
		DefaultHeight:     4,
		AllowedChartKinds: []ChartKind{ChartLine},
		RoleGate:          GateManagerOrAbove,
	}
	extended, err := DefaultCatalog().Extend(
		[]WidgetDefinition{replacement, forecast},
		map[Role]RolePolicy{RoleManager: {Extensions: []string{"forecast"}}},
	)
	require.NoError(t, err)

	todos, ok := extended.Definition("todos")
	require.True(t, ok)
	assert.Equal(t, "Tasks", todos.Title)

	managerIDs := definitionIDs(extended.Build(RoleManager))
	assert.Equal(t, "forecast", managerIDs[len(managerIDs)-1])
	assert.Equal(t, definitionIDs(BuildCatalog(RoleEmployee)), definitionIDs(extended.Build(RoleEmployee)))

	policy, ok := extended.Policy(RoleManager)
	require.True(t, ok)
	assert.Equal(t, []string{"team-performance", "pending-approvals", "forecast"}, policy.Extensions)
	assert.Contains(t, policy.Defaults, "team-performance")
}

func TestCatalogRolesSorted(t *testing.T) {
	assert.Equal(t, []Role{RoleAdmin, RoleEmployee, RoleManager}, DefaultCatalog().Roles())
}
