package dashboard

import (
	"fmt"

	"dario.cat/mergo"
)

// WidgetPatch lists the widget fields a caller may override. Nil fields are
// left untouched. Settings are merged key by key into the existing map.
type WidgetPatch struct {
	Title      *string        `json:"title,omitempty"`
	Kind       *WidgetKind    `json:"kind,omitempty"`
	DataSource *string        `json:"dataSource,omitempty"`
	Width      *int           `json:"width,omitempty"`
	Height     *int           `json:"height,omitempty"`
	PositionX  *int           `json:"positionX,omitempty"`
	PositionY  *int           `json:"positionY,omitempty"`
	IsVisible  *bool          `json:"isVisible,omitempty"`
	ChartKind  *ChartKind     `json:"chartKind,omitempty"`
	TimeRange  *TimeRange     `json:"timeRange,omitempty"`
	Settings   map[string]any `json:"settings,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p WidgetPatch) IsZero() bool {
	return p.Title == nil && p.Kind == nil && p.DataSource == nil &&
		p.Width == nil && p.Height == nil &&
		p.PositionX == nil && p.PositionY == nil &&
		p.IsVisible == nil && p.ChartKind == nil && p.TimeRange == nil &&
		len(p.Settings) == 0
}

func (p WidgetPatch) apply(w WidgetConfig) (WidgetConfig, error) {
	w = w.clone()
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Kind != nil {
		w.Kind = *p.Kind
	}
	if p.DataSource != nil {
		w.DataSource = *p.DataSource
	}
	if p.Width != nil {
		w.Width = *p.Width
	}
	if p.Height != nil {
		w.Height = *p.Height
	}
	if p.PositionX != nil {
		w.PositionX = *p.PositionX
	}
	if p.PositionY != nil {
		w.PositionY = *p.PositionY
	}
	if p.IsVisible != nil {
		w.IsVisible = *p.IsVisible
	}
	if p.ChartKind != nil {
		w.ChartKind = *p.ChartKind
	}
	if p.TimeRange != nil {
		w.TimeRange = *p.TimeRange
	}
	if w.Kind != KindChart {
		w.ChartKind = ""
	}
	if len(p.Settings) > 0 {
		if w.Settings == nil {
			w.Settings = map[string]any{}
		}
		settings, err := normalizeSettings(p.Settings)
		if err != nil {
			return WidgetConfig{}, fmt.Errorf("dashboard: encode settings for %s: %w", w.ID, err)
		}
		if err := mergo.Merge(&w.Settings, settings, mergo.WithOverride); err != nil {
			return WidgetConfig{}, fmt.Errorf("dashboard: merge settings for %s: %w", w.ID, err)
		}
	}
	return w, nil
}

// NewWidgetConfig builds a widget instance from definition defaults.
func NewWidgetConfig(def WidgetDefinition) WidgetConfig {
	w := WidgetConfig{
		ID:         def.ID,
		Title:      def.Title,
		Kind:       def.Kind,
		DataSource: def.DataSource,
		Width:      def.DefaultWidth,
		Height:     def.DefaultHeight,
		IsVisible:  true,
		TimeRange:  RangeMonthly,
		Settings:   map[string]any{},
	}
	if def.Kind == KindChart && len(def.AllowedChartKinds) > 0 {
		w.ChartKind = def.AllowedChartKinds[0]
	}
	return w
}

// AddWidget appends a widget built from def and any overrides. It fails with
// *DuplicateWidgetError when def.ID is already on the dashboard.
func AddWidget(cfg UserDashboardConfig, def WidgetDefinition, overrides ...WidgetPatch) (UserDashboardConfig, error) {
	if cfg.WidgetIndex(def.ID) >= 0 {
		return cfg, &DuplicateWidgetError{WidgetID: def.ID}
	}
	w := NewWidgetConfig(def)
	for _, patch := range overrides {
		next, err := patch.apply(w)
		if err != nil {
			return cfg, err
		}
		w = next
	}
	next := cfg.Clone()
	next.Widgets = append(next.Widgets, w)
	return next, nil
}

// RemoveWidget drops the widget with widgetID, keeping the relative order of
// the rest. Unknown ids return cfg unchanged.
func RemoveWidget(cfg UserDashboardConfig, widgetID string) UserDashboardConfig {
	idx := cfg.WidgetIndex(widgetID)
	if idx < 0 {
		return cfg
	}
	next := cfg.Clone()
	next.Widgets = append(next.Widgets[:idx], next.Widgets[idx+1:]...)
	return next
}

// UpdateWidget merges patch into the widget and validates the result. On
// violations the original cfg is returned with a *ValidationError. A nil
// validator uses DefaultValidator.
func UpdateWidget(cfg UserDashboardConfig, widgetID string, patch WidgetPatch, validator *LayoutValidator) (UserDashboardConfig, error) {
	idx := cfg.WidgetIndex(widgetID)
	if idx < 0 {
		return cfg, &WidgetNotFoundError{WidgetID: widgetID}
	}
	updated, err := patch.apply(cfg.Widgets[idx])
	if err != nil {
		return cfg, err
	}
	next := cfg.Clone()
	next.Widgets[idx] = updated
	if validator == nil {
		validator = DefaultValidator()
	}
	if err := validator.Check(next); err != nil {
		return cfg, err
	}
	return next, nil
}

// ReorderWidget moves the widget at from so it ends up at index to: the
// element is removed first, then inserted into the shortened sequence.
func ReorderWidget(cfg UserDashboardConfig, from, to int) (UserDashboardConfig, error) {
	n := len(cfg.Widgets)
	if from < 0 || from >= n || to < 0 || to >= n {
		return cfg, &IndexOutOfRangeError{From: from, To: to, Len: n}
	}
	next := cfg.Clone()
	if from == to {
		return next, nil
	}
	moved := next.Widgets[from]
	rest := append(next.Widgets[:from:from], next.Widgets[from+1:]...)
	widgets := make([]WidgetConfig, 0, n)
	widgets = append(widgets, rest[:to]...)
	widgets = append(widgets, moved)
	widgets = append(widgets, rest[to:]...)
	next.Widgets = widgets
	return next, nil
}

// SetTheme returns cfg with theme applied.
func SetTheme(cfg UserDashboardConfig, theme Theme) UserDashboardConfig {
	next := cfg.Clone()
	next.Theme = theme
	return next
}

// SetLayout returns cfg with the layout mode applied.
func SetLayout(cfg UserDashboardConfig, mode LayoutMode) UserDashboardConfig {
	next := cfg.Clone()
	next.Layout = mode
	return next
}

// Operation is a transition applied to a draft by a Session.
type Operation func(UserDashboardConfig) (UserDashboardConfig, error)

// AddWidgetOp wraps AddWidget.
func AddWidgetOp(def WidgetDefinition, overrides ...WidgetPatch) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return AddWidget(cfg, def, overrides...)
	}
}

// RemoveWidgetOp wraps RemoveWidget.
func RemoveWidgetOp(widgetID string) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return RemoveWidget(cfg, widgetID), nil
	}
}

// UpdateWidgetOp wraps UpdateWidget.
func UpdateWidgetOp(widgetID string, patch WidgetPatch, validator *LayoutValidator) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return UpdateWidget(cfg, widgetID, patch, validator)
	}
}

// ReorderWidgetOp wraps ReorderWidget.
func ReorderWidgetOp(from, to int) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return ReorderWidget(cfg, from, to)
	}
}

// SetThemeOp wraps SetTheme.
func SetThemeOp(theme Theme) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return SetTheme(cfg, theme), nil
	}
}

// SetLayoutOp wraps SetLayout.
func SetLayoutOp(mode LayoutMode) Operation {
	return func(cfg UserDashboardConfig) (UserDashboardConfig, error) {
		return SetLayout(cfg, mode), nil
	}
}
