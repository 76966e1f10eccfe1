package dashboard

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		ID:                "revenue-chart",
		Title:             "Revenue",
		Description:       "Revenue trend for the selected period",
		Kind:              KindChart,
		DefaultWidth:      8,
		DefaultHeight:     6,
		DataSource:        "sales.revenue",
		AllowedChartKinds: []ChartKind{ChartLine, ChartBar},
	},
	{
		ID:            "sales-summary",
		Title:         "Sales Summary",
		Description:   "Totals for orders, revenue and average basket",
		Kind:          KindSummary,
		DefaultWidth:  4,
		DefaultHeight: 3,
		DataSource:    "sales.summary",
	},
	{
		ID:            "activities",
		Title:         "Recent Activities",
		Description:   "Latest CRM activity feed entries",
		Kind:          KindList,
		DefaultWidth:  4,
		DefaultHeight: 6,
		DataSource:    "crm.activities",
		SettingsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 50, "default": 10},
			},
		},
	},
	{
		ID:            "todos",
		Title:         "To-dos",
		Description:   "Open tasks assigned to the viewer",
		Kind:          KindList,
		DefaultWidth:  4,
		DefaultHeight: 4,
		DataSource:    "tasks.todos",
		SettingsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"show_completed": map[string]any{"type": "boolean", "default": false},
			},
		},
	},
	{
		ID:            "kpi-metrics",
		Title:         "Key Metrics",
		Description:   "Headline KPIs",
		Kind:          KindMetric,
		DefaultWidth:  12,
		DefaultHeight: 2,
		DataSource:    "analytics.kpis",
	},
	{
		ID:            "recent-orders",
		Title:         "Recent Orders",
		Description:   "Most recent sales orders",
		Kind:          KindTable,
		DefaultWidth:  8,
		DefaultHeight: 5,
		DataSource:    "sales.orders",
	},
	{
		ID:                "team-performance",
		Title:             "Team Performance",
		Description:       "Targets versus actuals per team member",
		Kind:              KindChart,
		DefaultWidth:      6,
		DefaultHeight:     5,
		DataSource:        "hr.team_performance",
		AllowedChartKinds: []ChartKind{ChartBar, ChartRadar},
		RoleGate:          GateManagerOrAbove,
	},
	{
		ID:            "pending-approvals",
		Title:         "Pending Approvals",
		Description:   "Requests waiting on the viewer's sign-off",
		Kind:          KindTable,
		DefaultWidth:  6,
		DefaultHeight: 4,
		DataSource:    "workflow.approvals",
		RoleGate:      GateManagerOrAbove,
	},
	{
		ID:            "system-health",
		Title:         "System Health",
		Description:   "Service uptime and queue depth",
		Kind:          KindMetric,
		DefaultWidth:  4,
		DefaultHeight: 3,
		DataSource:    "ops.system_health",
		RoleGate:      GateAdminOnly,
	},
	{
		ID:                "user-activity",
		Title:             "User Activity",
		Description:       "Sign-ins and actions across the organization",
		Kind:              KindChart,
		DefaultWidth:      8,
		DefaultHeight:     5,
		DataSource:        "audit.user_activity",
		AllowedChartKinds: []ChartKind{ChartLine, ChartHeatMap},
		RoleGate:          GateAdminOnly,
	},
}

var baseDefaultWidgets = []string{"kpi-metrics", "revenue-chart", "activities", "todos"}

var defaultRolePolicies = map[Role]RolePolicy{
	RoleEmployee: {
		Defaults: baseDefaultWidgets,
	},
	RoleManager: {
		Extensions: []string{"team-performance", "pending-approvals"},
		Defaults:   append(append([]string{}, baseDefaultWidgets...), "team-performance"),
	},
	RoleAdmin: {
		Extensions: []string{"team-performance", "pending-approvals", "system-health", "user-activity"},
		Defaults:   append(append([]string{}, baseDefaultWidgets...), "system-health"),
	},
}

// DefaultWidgetDefinitions returns copies of built-in widget definitions.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	for idx, def := range defaultWidgetDefinitions {
		out[idx] = def.clone()
	}
	return out
}

// DefaultRolePolicies returns a copy of the built-in role policy table.
func DefaultRolePolicies() map[Role]RolePolicy {
	out := make(map[Role]RolePolicy, len(defaultRolePolicies))
	for role, policy := range defaultRolePolicies {
		out[role] = policy.clone()
	}
	return out
}
