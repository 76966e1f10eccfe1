package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
)

// PersistenceGateway loads and saves committed dashboard configurations.
// Implementations live outside the engine (memory, GORM, Redis, remote APIs).
type PersistenceGateway interface {
	// Load returns the stored configuration or ErrConfigNotFound.
	Load(ctx context.Context, userID string) (UserDashboardConfig, error)
	Save(ctx context.Context, config UserDashboardConfig) error
}

// SettingsValidator checks widget settings against the definition schema.
type SettingsValidator interface {
	Validate(def WidgetDefinition, settings map[string]any) error
}

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// WidgetKind enumerates the widget families.
type WidgetKind string

const (
	KindChart   WidgetKind = "chart"
	KindSummary WidgetKind = "summary"
	KindList    WidgetKind = "list"
	KindTable   WidgetKind = "table"
	KindMetric  WidgetKind = "metric"
)

// Valid reports whether k is a known widget kind.
func (k WidgetKind) Valid() bool {
	switch k {
	case KindChart, KindSummary, KindList, KindTable, KindMetric:
		return true
	}
	return false
}

func (k *WidgetKind) UnmarshalText(text []byte) error {
	v := WidgetKind(text)
	if !v.Valid() {
		return fmt.Errorf("dashboard: unknown widget kind %q", text)
	}
	*k = v
	return nil
}

// ChartKind names a chart rendering variant. Values match go-echarts series
// types so renderers can use them as-is.
type ChartKind string

const (
	ChartLine    ChartKind = types.ChartLine
	ChartBar     ChartKind = types.ChartBar
	ChartPie     ChartKind = types.ChartPie
	ChartScatter ChartKind = types.ChartScatter
	ChartRadar   ChartKind = types.ChartRadar
	ChartFunnel  ChartKind = types.ChartFunnel
	ChartGauge   ChartKind = types.ChartGauge
	ChartHeatMap ChartKind = types.ChartHeatMap
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

func (t *Theme) UnmarshalText(text []byte) error {
	v := Theme(text)
	if !v.Valid() {
		return fmt.Errorf("dashboard: unknown theme %q", text)
	}
	*t = v
	return nil
}

// LayoutMode controls how widgets are placed.
type LayoutMode string

const (
	LayoutGrid    LayoutMode = "grid"
	LayoutMasonry LayoutMode = "masonry"
	// LayoutCustom honors the advisory PositionX/PositionY coordinates.
	LayoutCustom LayoutMode = "custom"
)

// Valid reports whether m is a supported layout mode.
func (m LayoutMode) Valid() bool {
	switch m {
	case LayoutGrid, LayoutMasonry, LayoutCustom:
		return true
	}
	return false
}

func (m *LayoutMode) UnmarshalText(text []byte) error {
	v := LayoutMode(text)
	if !v.Valid() {
		return fmt.Errorf("dashboard: unknown layout mode %q", text)
	}
	*m = v
	return nil
}

// TimeRange is the aggregation window a widget displays.
type TimeRange string

const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
	RangeYearly  TimeRange = "yearly"
)

// Valid reports whether r is a supported time range.
func (r TimeRange) Valid() bool {
	switch r {
	case RangeDaily, RangeWeekly, RangeMonthly, RangeYearly:
		return true
	}
	return false
}

func (r *TimeRange) UnmarshalText(text []byte) error {
	v := TimeRange(text)
	if !v.Valid() {
		return fmt.Errorf("dashboard: unknown time range %q", text)
	}
	*r = v
	return nil
}

// Grid bounds shared by definitions and widget instances.
const (
	MinWidgetWidth  = 1
	MaxWidgetWidth  = 12
	MinWidgetHeight = 2
)

// WidgetDefinition is a catalog template. Definitions are immutable and owned
// by the system, never by the user.
type WidgetDefinition struct {
	ID                string         `json:"id" yaml:"id"`
	Title             string         `json:"title" yaml:"title"`
	Description       string         `json:"description,omitempty" yaml:"description,omitempty"`
	Kind              WidgetKind     `json:"kind" yaml:"kind"`
	DefaultWidth      int            `json:"defaultWidth" yaml:"default_width"`
	DefaultHeight     int            `json:"defaultHeight" yaml:"default_height"`
	DataSource        string         `json:"dataSource" yaml:"data_source"`
	AllowedChartKinds []ChartKind    `json:"allowedChartKinds,omitempty" yaml:"allowed_chart_kinds,omitempty"`
	RoleGate          RoleGate       `json:"roleGate,omitempty" yaml:"role_gate,omitempty"`
	SettingsSchema    map[string]any `json:"settingsSchema,omitempty" yaml:"settings_schema,omitempty"`
}

// AllowsChartKind reports whether kind is one of the definition's variants.
func (d WidgetDefinition) AllowsChartKind(kind ChartKind) bool {
	for _, allowed := range d.AllowedChartKinds {
		if allowed == kind {
			return true
		}
	}
	return false
}

// WidgetConfig is a user's instance of a widget definition.
type WidgetConfig struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Kind       WidgetKind     `json:"kind"`
	DataSource string         `json:"dataSource"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	PositionX  int            `json:"positionX"`
	PositionY  int            `json:"positionY"`
	IsVisible  bool           `json:"isVisible"`
	ChartKind  ChartKind      `json:"chartKind,omitempty"`
	TimeRange  TimeRange      `json:"timeRange"`
	Settings   map[string]any `json:"settings"`
}

// UserDashboardConfig is the per-user aggregate. Widget order is semantic: it
// is both rendering order and placement priority.
type UserDashboardConfig struct {
	UserID      string         `json:"userId"`
	Widgets     []WidgetConfig `json:"widgets"`
	Theme       Theme          `json:"theme"`
	Layout      LayoutMode     `json:"layout"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// EmptyConfig returns a configuration with no widgets and default theme and
// layout.
func EmptyConfig(userID string) UserDashboardConfig {
	return UserDashboardConfig{
		UserID:  userID,
		Widgets: []WidgetConfig{},
		Theme:   ThemeAuto,
		Layout:  LayoutGrid,
	}
}

// MarshalJSON always encodes widgets as an array, never null.
func (c UserDashboardConfig) MarshalJSON() ([]byte, error) {
	type persisted UserDashboardConfig
	out := persisted(c)
	if out.Widgets == nil {
		out.Widgets = []WidgetConfig{}
	}
	return json.Marshal(out)
}

// WidgetIndex returns the position of the widget with id, or -1.
func (c UserDashboardConfig) WidgetIndex(id string) int {
	for idx, w := range c.Widgets {
		if w.ID == id {
			return idx
		}
	}
	return -1
}

// Widget returns the widget with id.
func (c UserDashboardConfig) Widget(id string) (WidgetConfig, bool) {
	idx := c.WidgetIndex(id)
	if idx < 0 {
		return WidgetConfig{}, false
	}
	return c.Widgets[idx].clone(), true
}

// WidgetIDs lists widget ids in order.
func (c UserDashboardConfig) WidgetIDs() []string {
	ids := make([]string, len(c.Widgets))
	for idx, w := range c.Widgets {
		ids[idx] = w.ID
	}
	return ids
}

// Clone copies the widget slice and each settings map, recursing into nested
// maps and slices.
func (c UserDashboardConfig) Clone() UserDashboardConfig {
	out := c
	if c.Widgets != nil {
		out.Widgets = make([]WidgetConfig, len(c.Widgets))
		for idx, w := range c.Widgets {
			out.Widgets[idx] = w.clone()
		}
	}
	return out
}

func (w WidgetConfig) clone() WidgetConfig {
	w.Settings = cloneSettings(w.Settings)
	return w
}

func cloneSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	out := make(map[string]any, len(settings))
	for key, value := range settings {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneSettings(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// normalizeSettings converts settings into the values a JSON decoder yields
// (float64 numbers, []any, map[string]any) so stored configs read back equal.
func normalizeSettings(settings map[string]any) (map[string]any, error) {
	if settings == nil {
		return nil, nil
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ViewerContext identifies the user editing a dashboard.
type ViewerContext struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
