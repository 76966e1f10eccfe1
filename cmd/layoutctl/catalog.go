package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/pkg/layout"
)

type catalogCmd struct {
	Role     string   `default:"employee" enum:"employee,manager,admin" help:"Role to build the catalog for."`
	Manifest []string `type:"existingfile" help:"Catalog manifests applied in order (repeatable)."`
	Format   string   `default:"table" enum:"table,json,yaml" help:"Output format."`
	Defaults bool     `help:"Print the role's default configuration instead of the catalog."`
}

func (cmd *catalogCmd) Run(_ context.Context, out io.Writer) error {
	catalog, err := layout.LoadCatalog(cmd.Manifest)
	if err != nil {
		return err
	}
	role := dashboard.Role(cmd.Role)
	if cmd.Defaults {
		return encode(out, cmd.Format, catalog.DefaultConfig("preview", role))
	}
	defs := catalog.Build(role)
	if cmd.Format != "table" {
		return encode(out, cmd.Format, defs)
	}
	for _, def := range defs {
		gate := string(def.RoleGate)
		if gate == "" {
			gate = "-"
		}
		kinds := make([]string, 0, len(def.AllowedChartKinds))
		for _, kind := range def.AllowedChartKinds {
			kinds = append(kinds, string(kind))
		}
		fmt.Fprintf(out, "%-20s %-8s %2dx%-2d %-18s %s\n",
			def.ID, def.Kind, def.DefaultWidth, def.DefaultHeight, gate, strings.Join(kinds, ","))
	}
	return nil
}

func encode(out io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
