package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
)

type scaffoldCmd struct {
	Title        string   `required:"" help:"Display title for the widget."`
	ID           string   `help:"Widget id (defaults to the kebab-cased title)."`
	Description  string   `help:"One-line description."`
	Kind         string   `default:"summary" enum:"chart,summary,list,table,metric" help:"Widget kind."`
	Width        int      `default:"4" help:"Default width in grid columns (1-12)."`
	Height       int      `default:"3" help:"Default height in rows (at least 2)."`
	DataSource   string   `help:"Data source key (defaults to custom.<snake_id>)."`
	ChartKind    []string `name:"chart-kind" help:"Allowed chart variants for chart widgets (repeatable)."`
	Gate         string   `help:"Role gate for the widget (manager-or-above or admin-only)."`
	Role         []string `help:"Roles that receive the gated widget in their catalog (repeatable)."`
	ManifestPath string   `name:"manifest" required:"" type:"path" help:"Manifest YAML file to create or update."`
	Overwrite    bool     `help:"Replace an existing definition with the same id."`
}

func (cmd *scaffoldCmd) Run(_ context.Context, out io.Writer) error {
	def := cmd.definition()
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("layoutctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}

	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].ID != def.ID {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("layoutctl: manifest already defines widget %s (use --overwrite to replace)", def.ID)
		}
		doc.Widgets[idx] = def
		replaced = true
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, def)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool { return doc.Widgets[i].ID < doc.Widgets[j].ID })

	if def.RoleGate != dashboard.GateNone {
		if doc.Roles == nil {
			doc.Roles = map[dashboard.Role]dashboard.RolePolicy{}
		}
		for _, raw := range cmd.Role {
			role := dashboard.Role(raw)
			policy := doc.Roles[role]
			if !contains(policy.Extensions, def.ID) {
				policy.Extensions = append(policy.Extensions, def.ID)
			}
			doc.Roles[role] = policy
		}
	}

	if err := doc.Validate(); err != nil {
		return err
	}
	if _, err := dashboard.DefaultCatalog().ApplyManifest(doc); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s to %s\n", def.ID, path)
	return nil
}

func (cmd *scaffoldCmd) definition() dashboard.WidgetDefinition {
	id := cmd.ID
	if id == "" {
		id = strcase.ToKebab(cmd.Title)
	}
	source := cmd.DataSource
	if source == "" {
		source = "custom." + strcase.ToSnake(id)
	}
	def := dashboard.WidgetDefinition{
		ID:            id,
		Title:         cmd.Title,
		Description:   cmd.Description,
		Kind:          dashboard.WidgetKind(cmd.Kind),
		DefaultWidth:  cmd.Width,
		DefaultHeight: cmd.Height,
		DataSource:    source,
		RoleGate:      dashboard.RoleGate(cmd.Gate),
	}
	if def.Kind == dashboard.KindChart {
		for _, kind := range cmd.ChartKind {
			def.AllowedChartKinds = append(def.AllowedChartKinds, dashboard.ChartKind(kind))
		}
		if len(def.AllowedChartKinds) == 0 {
			def.AllowedChartKinds = []dashboard.ChartKind{dashboard.ChartLine}
		}
	}
	return def
}

func loadOrInitManifest(path string) (*dashboard.CatalogManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.CatalogManifest{
				Version: dashboard.ManifestVersion,
				Widgets: []dashboard.WidgetDefinition{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("layoutctl: stat manifest: %w", err)
	}
	return dashboard.ReadCatalogManifest(path)
}

func writeManifest(path string, doc *dashboard.CatalogManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("layoutctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("layoutctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodeCatalogManifest(file, doc)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
