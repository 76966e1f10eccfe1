package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// Role is an opaque role token supplied by the identity layer. It is only
// ever compared by equality against the known tokens below.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleEmployee: 1,
	RoleManager:  2,
	RoleAdmin:    3,
}

// RoleGate restricts a definition to a minimum role.
type RoleGate string

const (
	GateNone           RoleGate = ""
	GateManagerOrAbove RoleGate = "manager-or-above"
	GateAdminOnly      RoleGate = "admin-only"
)

// Valid reports whether g is a known gate.
func (g RoleGate) Valid() bool {
	switch g {
	case GateNone, GateManagerOrAbove, GateAdminOnly:
		return true
	}
	return false
}

// Allows reports whether role passes the gate.
func (g RoleGate) Allows(role Role) bool {
	switch g {
	case GateNone:
		return true
	case GateManagerOrAbove:
		return roleRank[role] >= roleRank[RoleManager]
	case GateAdminOnly:
		return role == RoleAdmin
	}
	return false
}

// RolePolicy lists the gated definitions a role adds to the base catalog and
// the widgets seeded into a new dashboard for that role.
type RolePolicy struct {
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Defaults   []string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

func (p RolePolicy) clone() RolePolicy {
	return RolePolicy{
		Extensions: append([]string(nil), p.Extensions...),
		Defaults:   append([]string(nil), p.Defaults...),
	}
}

// Catalog holds widget definitions in static priority order plus the role
// policy table. A Catalog is immutable once built.
type Catalog struct {
	definitions []WidgetDefinition
	index       map[string]int
	policies    map[Role]RolePolicy
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog, err := NewCatalog(DefaultWidgetDefinitions(), DefaultRolePolicies())
		if err != nil {
			panic(fmt.Sprintf("dashboard: built-in catalog is invalid: %v", err))
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// NewCatalog validates definitions and policies and builds a catalog.
func NewCatalog(defs []WidgetDefinition, policies map[Role]RolePolicy) (*Catalog, error) {
	catalog := &Catalog{
		definitions: make([]WidgetDefinition, 0, len(defs)),
		index:       make(map[string]int, len(defs)),
		policies:    make(map[Role]RolePolicy, len(policies)),
	}
	for _, def := range defs {
		if err := validateDefinition(def); err != nil {
			return nil, err
		}
		if _, exists := catalog.index[def.ID]; exists {
			return nil, fmt.Errorf("dashboard: catalog duplicates widget %s", def.ID)
		}
		catalog.index[def.ID] = len(catalog.definitions)
		catalog.definitions = append(catalog.definitions, def.clone())
	}
	for role, policy := range policies {
		if err := catalog.checkPolicy(role, policy); err != nil {
			return nil, err
		}
		catalog.policies[role] = policy.clone()
	}
	return catalog, nil
}

func validateDefinition(def WidgetDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("dashboard: widget definition id is required")
	}
	if !def.Kind.Valid() {
		return fmt.Errorf("dashboard: widget %s has unknown kind %q", def.ID, def.Kind)
	}
	if def.DefaultWidth < MinWidgetWidth || def.DefaultWidth > MaxWidgetWidth {
		return fmt.Errorf("dashboard: widget %s default width %d outside [%d,%d]", def.ID, def.DefaultWidth, MinWidgetWidth, MaxWidgetWidth)
	}
	if def.DefaultHeight < MinWidgetHeight {
		return fmt.Errorf("dashboard: widget %s default height %d below %d", def.ID, def.DefaultHeight, MinWidgetHeight)
	}
	if def.Kind == KindChart && len(def.AllowedChartKinds) == 0 {
		return fmt.Errorf("dashboard: chart widget %s must declare allowed chart kinds", def.ID)
	}
	if def.Kind != KindChart && len(def.AllowedChartKinds) > 0 {
		return fmt.Errorf("dashboard: widget %s declares chart kinds but is %s", def.ID, def.Kind)
	}
	if !def.RoleGate.Valid() {
		return fmt.Errorf("dashboard: widget %s has unknown role gate %q", def.ID, def.RoleGate)
	}
	return nil
}

func (c *Catalog) checkPolicy(role Role, policy RolePolicy) error {
	seen := make(map[string]struct{}, len(policy.Extensions))
	for _, id := range policy.Extensions {
		def, ok := c.Definition(id)
		if !ok {
			return fmt.Errorf("dashboard: role %s extends unknown widget %s", role, id)
		}
		if def.RoleGate == GateNone {
			return fmt.Errorf("dashboard: role %s extends ungated widget %s", role, id)
		}
		if !def.RoleGate.Allows(role) {
			return fmt.Errorf("dashboard: role %s does not pass gate %s of widget %s", role, def.RoleGate, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("dashboard: role %s lists widget %s twice", role, id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range policy.Defaults {
		def, ok := c.Definition(id)
		if !ok {
			return fmt.Errorf("dashboard: role %s defaults to unknown widget %s", role, id)
		}
		if def.RoleGate != GateNone {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("dashboard: role %s defaults to widget %s outside its catalog", role, id)
			}
		}
	}
	return nil
}

// Build returns the catalog offered to role: every ungated definition in
// declaration order followed by the role's extensions in policy order.
func (c *Catalog) Build(role Role) []WidgetDefinition {
	policy := c.policies[role]
	out := make([]WidgetDefinition, 0, len(c.definitions))
	for _, def := range c.definitions {
		if def.RoleGate == GateNone {
			out = append(out, def.clone())
		}
	}
	for _, id := range policy.Extensions {
		if def, ok := c.Definition(id); ok {
			out = append(out, def)
		}
	}
	return out
}

// Definition fetches a definition by id regardless of role.
func (c *Catalog) Definition(id string) (WidgetDefinition, bool) {
	idx, ok := c.index[id]
	if !ok {
		return WidgetDefinition{}, false
	}
	return c.definitions[idx].clone(), true
}

// Definitions returns every definition in priority order.
func (c *Catalog) Definitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(c.definitions))
	for idx, def := range c.definitions {
		out[idx] = def.clone()
	}
	return out
}

// Policy returns the policy registered for role.
func (c *Catalog) Policy(role Role) (RolePolicy, bool) {
	policy, ok := c.policies[role]
	return policy.clone(), ok
}

// Roles lists roles with a registered policy, sorted by token.
func (c *Catalog) Roles() []Role {
	roles := make([]Role, 0, len(c.policies))
	for role := range c.policies {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Extend returns a new catalog with extra definitions and policies. A
// definition reusing an existing id replaces it in place. Policies merge
// extensions and replace defaults when provided.
func (c *Catalog) Extend(defs []WidgetDefinition, policies map[Role]RolePolicy) (*Catalog, error) {
	merged := c.Definitions()
	for _, def := range defs {
		if idx, ok := c.index[def.ID]; ok {
			merged[idx] = def
			continue
		}
		merged = append(merged, def)
	}
	nextPolicies := make(map[Role]RolePolicy, len(c.policies)+len(policies))
	for role, policy := range c.policies {
		nextPolicies[role] = policy.clone()
	}
	for role, policy := range policies {
		current := nextPolicies[role]
		for _, id := range policy.Extensions {
			if !containsID(current.Extensions, id) {
				current.Extensions = append(current.Extensions, id)
			}
		}
		if len(policy.Defaults) > 0 {
			current.Defaults = append([]string(nil), policy.Defaults...)
		}
		nextPolicies[role] = current
	}
	return NewCatalog(merged, nextPolicies)
}

// DefaultConfig builds the configuration created on a user's first access.
// Roles without a policy fall back to every ungated definition.
func (c *Catalog) DefaultConfig(userID string, role Role) UserDashboardConfig {
	cfg := EmptyConfig(userID)
	policy, ok := c.policies[role]
	ids := policy.Defaults
	if !ok || len(ids) == 0 {
		for _, def := range c.Build(role) {
			ids = append(ids, def.ID)
		}
	}
	for _, id := range ids {
		def, ok := c.Definition(id)
		if !ok || !def.RoleGate.Allows(role) {
			continue
		}
		if next, err := AddWidget(cfg, def); err == nil {
			cfg = next
		}
	}
	return cfg
}

// BuildCatalog returns the built-in catalog for role.
func BuildCatalog(role Role) []WidgetDefinition {
	return DefaultCatalog().Build(role)
}

// AvailableToAdd returns catalog entries not yet present in config.
func AvailableToAdd(catalog []WidgetDefinition, config UserDashboardConfig) []WidgetDefinition {
	present := make(map[string]struct{}, len(config.Widgets))
	for _, w := range config.Widgets {
		present[w.ID] = struct{}{}
	}
	out := make([]WidgetDefinition, 0, len(catalog))
	for _, def := range catalog {
		if _, ok := present[def.ID]; !ok {
			out = append(out, def)
		}
	}
	return out
}

func (d WidgetDefinition) clone() WidgetDefinition {
	d.AllowedChartKinds = append([]ChartKind(nil), d.AllowedChartKinds...)
	if d.SettingsSchema != nil {
		schema := make(map[string]any, len(d.SettingsSchema))
		for key, value := range d.SettingsSchema {
			schema[key] = value
		}
		d.SettingsSchema = schema
	}
	return d
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
