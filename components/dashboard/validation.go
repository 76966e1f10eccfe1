package dashboard

import (
	"fmt"
	"sync"
)

// Rule names a configuration invariant.
type Rule string

const (
	// RuleUniqueID requires pairwise distinct widget ids.
	RuleUniqueID Rule = "unique-id"
	// RuleSize requires width in [1,12] and height >= 2.
	RuleSize Rule = "size"
	// RuleChartKind requires chart widgets to carry an allowed chart kind.
	RuleChartKind Rule = "chart-kind"
	// RuleEnum requires enumerated fields to hold known values.
	RuleEnum Rule = "enum"
	// RuleSettings requires settings to satisfy the definition schema.
	RuleSettings Rule = "settings"
)

// Violation names the widget (empty for dashboard-level rules) and the rule
// it breaks.
type Violation struct {
	WidgetID string `json:"widget_id,omitempty"`
	Rule     Rule   `json:"rule"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	if v.WidgetID == "" {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", v.WidgetID, v.Rule, v.Message)
}

// DefinitionLookup resolves the definition a widget was created from.
type DefinitionLookup interface {
	Definition(id string) (WidgetDefinition, bool)
}

// LayoutValidator checks configurations against the layout invariants. It is
// stateless apart from its collaborators and safe for concurrent use.
type LayoutValidator struct {
	definitions DefinitionLookup
	settings    SettingsValidator
}

// ValidatorOption customizes a LayoutValidator.
type ValidatorOption func(*LayoutValidator)

// WithSettingsValidator enables settings checks for definitions with a schema.
func WithSettingsValidator(v SettingsValidator) ValidatorOption {
	return func(lv *LayoutValidator) {
		lv.settings = v
	}
}

// NewLayoutValidator builds a validator. A nil lookup skips checks that need
// the originating definition.
func NewLayoutValidator(definitions DefinitionLookup, opts ...ValidatorOption) *LayoutValidator {
	v := &LayoutValidator{definitions: definitions}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *LayoutValidator
)

// DefaultValidator validates against the built-in catalog and schemas.
func DefaultValidator() *LayoutValidator {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewLayoutValidator(DefaultCatalog(), WithSettingsValidator(NewJSONSchemaValidator()))
	})
	return defaultValidator
}

// Validate runs every rule and returns all violations. An empty result means
// the configuration may be committed.
func (v *LayoutValidator) Validate(cfg UserDashboardConfig) []Violation {
	var violations []Violation
	if !cfg.Theme.Valid() {
		violations = append(violations, Violation{
			Rule:    RuleEnum,
			Message: fmt.Sprintf("theme %q is not one of light, dark, auto", cfg.Theme),
		})
	}
	if !cfg.Layout.Valid() {
		violations = append(violations, Violation{
			Rule:    RuleEnum,
			Message: fmt.Sprintf("layout %q is not one of grid, masonry, custom", cfg.Layout),
		})
	}
	seen := make(map[string]int, len(cfg.Widgets))
	for idx, w := range cfg.Widgets {
		if first, dup := seen[w.ID]; dup {
			violations = append(violations, Violation{
				WidgetID: w.ID,
				Rule:     RuleUniqueID,
				Message:  fmt.Sprintf("id repeats at positions %d and %d", first, idx),
			})
		} else {
			seen[w.ID] = idx
		}
		violations = append(violations, v.validateWidget(w)...)
	}
	return violations
}

// Check is Validate returning a *ValidationError when violations exist.
func (v *LayoutValidator) Check(cfg UserDashboardConfig) error {
	if violations := v.Validate(cfg); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (v *LayoutValidator) validateWidget(w WidgetConfig) []Violation {
	var violations []Violation
	if w.Width < MinWidgetWidth || w.Width > MaxWidgetWidth {
		violations = append(violations, Violation{
			WidgetID: w.ID,
			Rule:     RuleSize,
			Message:  fmt.Sprintf("width %d outside [%d,%d]", w.Width, MinWidgetWidth, MaxWidgetWidth),
		})
	}
	if w.Height < MinWidgetHeight {
		violations = append(violations, Violation{
			WidgetID: w.ID,
			Rule:     RuleSize,
			Message:  fmt.Sprintf("height %d below %d", w.Height, MinWidgetHeight),
		})
	}
	if !w.Kind.Valid() {
		violations = append(violations, Violation{
			WidgetID: w.ID,
			Rule:     RuleEnum,
			Message:  fmt.Sprintf("kind %q is unknown", w.Kind),
		})
	}
	if !w.TimeRange.Valid() {
		violations = append(violations, Violation{
			WidgetID: w.ID,
			Rule:     RuleEnum,
			Message:  fmt.Sprintf("time range %q is unknown", w.TimeRange),
		})
	}

	def, known := v.definition(w.ID)
	if w.Kind == KindChart {
		switch {
		case w.ChartKind == "":
			violations = append(violations, Violation{
				WidgetID: w.ID,
				Rule:     RuleChartKind,
				Message:  "chart widgets require a chart kind",
			})
		case known && !def.AllowsChartKind(w.ChartKind):
			violations = append(violations, Violation{
				WidgetID: w.ID,
				Rule:     RuleChartKind,
				Message:  fmt.Sprintf("chart kind %q not allowed by %s", w.ChartKind, def.ID),
			})
		}
	}
	if known && v.settings != nil && len(def.SettingsSchema) > 0 {
		if err := v.settings.Validate(def, w.Settings); err != nil {
			violations = append(violations, Violation{
				WidgetID: w.ID,
				Rule:     RuleSettings,
				Message:  err.Error(),
			})
		}
	}
	return violations
}

func (v *LayoutValidator) definition(id string) (WidgetDefinition, bool) {
	if v == nil || v.definitions == nil {
		return WidgetDefinition{}, false
	}
	return v.definitions.Definition(id)
}

// Validate checks cfg against the built-in catalog.
func Validate(cfg UserDashboardConfig) []Violation {
	return DefaultValidator().Validate(cfg)
}
