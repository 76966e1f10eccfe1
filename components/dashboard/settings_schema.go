package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaValidator compiles definition settings schemas and validates
// widget settings maps. Compiled schemas are cached per definition id.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures settings satisfy the definition schema.
func (v *JSONSchemaValidator) Validate(def WidgetDefinition, settings map[string]any) error {
	if len(def.SettingsSchema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if settings != nil {
		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("dashboard: marshal settings for %s: %w", def.ID, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize settings for %s: %w", def.ID, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: settings for %s failed validation: %w", def.ID, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def WidgetDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.ID]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.SettingsSchema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.ID, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.ID + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.ID, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.ID, err)
	}
	v.mu.Lock()
	v.compiled[def.ID] = compiled
	v.mu.Unlock()
	return compiled, nil
}
