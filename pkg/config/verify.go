package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema:
// every key must be declared and values must have the declared type and bounds
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root := resolve(&schema, &schema)
	if root == nil {
		return fmt.Errorf("schema has no root definition")
	}
	if err := verifyObject(&schema, root, configMap, ""); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}

// resolve follows a local "#/$defs/Name" reference
func resolve(root, s *jsonschema.Schema) *jsonschema.Schema {
	if s == nil || s.Ref == "" {
		return s
	}
	name := strings.TrimPrefix(s.Ref, "#/$defs/")
	def, ok := root.Definitions[name]
	if !ok {
		return nil
	}
	return def
}

func verifyObject(root, s *jsonschema.Schema, obj map[string]any, prefix string) error {
	for _, req := range s.Required {
		if _, ok := obj[req]; !ok {
			return fmt.Errorf("%s%s is required", prefix, req)
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := prefix + k
		if s.Properties == nil {
			return fmt.Errorf("%s is not declared", name)
		}
		prop, ok := s.Properties.Get(k)
		if !ok {
			return fmt.Errorf("%s is not declared", name)
		}
		prop = resolve(root, prop)
		if prop == nil {
			return fmt.Errorf("%s refers to an unknown definition", name)
		}
		if err := verifyValue(root, prop, obj[k], name); err != nil {
			return err
		}
	}
	return nil
}

func verifyValue(root, s *jsonschema.Schema, v any, name string) error {
	switch s.Type {
	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s must be an object", name)
		}
		return verifyObject(root, s, obj, name+".")
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s must be a string", name)
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s must be a boolean", name)
		}
	case "integer", "number":
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%s must be a number", name)
		}
		if s.Minimum != "" {
			if minimum, err := s.Minimum.Float64(); err == nil && n < minimum {
				return fmt.Errorf("%s must be at least %v", name, minimum)
			}
		}
		if s.Maximum != "" {
			if maximum, err := s.Maximum.Float64(); err == nil && n > maximum {
				return fmt.Errorf("%s must be at most %v", name, maximum)
			}
		}
	}
	return nil
}
