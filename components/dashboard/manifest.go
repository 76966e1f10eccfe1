package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// CatalogManifest models a YAML document that extends the widget catalog with
// extra definitions and role policies.
type CatalogManifest struct {
	Version string              `json:"version" yaml:"version"`
	Name    string              `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []WidgetDefinition  `json:"widgets" yaml:"widgets"`
	Roles   map[Role]RolePolicy `json:"roles,omitempty" yaml:"roles,omitempty"`
	Source  string              `json:"-" yaml:"-"`
}

// ReadCatalogManifest loads a manifest file from disk.
func ReadCatalogManifest(path string) (*CatalogManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeCatalogManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeCatalogManifest reads a manifest from any reader. Unknown fields are
// rejected.
func DecodeCatalogManifest(r io.Reader) (*CatalogManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CatalogManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeCatalogManifest writes doc as YAML.
func EncodeCatalogManifest(w io.Writer, doc *CatalogManifest) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate checks manifest-level structure. Cross references against the
// catalog are checked when the manifest is applied.
func (doc *CatalogManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, def := range doc.Widgets {
		if def.ID == "" {
			return fmt.Errorf("dashboard: manifest widget at index %d is missing id", idx)
		}
		if def.Title == "" {
			return fmt.Errorf("dashboard: manifest widget %s missing title", def.ID)
		}
		if _, exists := seen[def.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates widget id %s", def.ID)
		}
		seen[def.ID] = struct{}{}
		if err := validateDefinition(def); err != nil {
			return err
		}
	}
	return nil
}

func (doc *CatalogManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

// ApplyManifest returns a new catalog extended with the manifest contents.
func (c *Catalog) ApplyManifest(doc *CatalogManifest) (*Catalog, error) {
	if doc == nil {
		return nil, fmt.Errorf("dashboard: manifest document is nil")
	}
	next, err := c.Extend(doc.Widgets, doc.Roles)
	if err != nil {
		if doc.Source != "" {
			return nil, fmt.Errorf("dashboard: apply manifest %s: %w", doc.Source, err)
		}
		return nil, err
	}
	return next, nil
}

// LoadManifestFile reads path and applies it to the catalog.
func (c *Catalog) LoadManifestFile(path string) (*Catalog, error) {
	doc, err := ReadCatalogManifest(path)
	if err != nil {
		return nil, err
	}
	return c.ApplyManifest(doc)
}
