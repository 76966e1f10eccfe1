package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-dashboard-layout/components/dashboard"
	"github.com/goliatone/go-dashboard-layout/pkg/layout"
)

type validateCmd struct {
	Path     string   `arg:"" help:"Configuration JSON file, or - for stdin."`
	Manifest []string `type:"existingfile" help:"Catalog manifests applied in order (repeatable)."`
}

func (cmd *validateCmd) Run(_ context.Context, out io.Writer) error {
	catalog, err := layout.LoadCatalog(cmd.Manifest)
	if err != nil {
		return err
	}
	cfg, err := cmd.read()
	if err != nil {
		return err
	}
	validator := dashboard.NewLayoutValidator(catalog, dashboard.WithSettingsValidator(dashboard.NewJSONSchemaValidator()))
	if err := validator.Check(cfg); err != nil {
		fmt.Fprintln(out, err)
		return fmt.Errorf("layoutctl: %s is invalid", cmd.Path)
	}
	fmt.Fprintf(out, "✓ %s is valid (%d widgets)\n", cmd.Path, len(cfg.Widgets))
	return nil
}

func (cmd *validateCmd) read() (dashboard.UserDashboardConfig, error) {
	var (
		data []byte
		err  error
	)
	if cmd.Path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(cmd.Path)
	}
	if err != nil {
		return dashboard.UserDashboardConfig{}, fmt.Errorf("layoutctl: read config: %w", err)
	}
	var cfg dashboard.UserDashboardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return dashboard.UserDashboardConfig{}, fmt.Errorf("layoutctl: parse config: %w", err)
	}
	return cfg, nil
}
