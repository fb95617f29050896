// Package contract checks golden example payloads, type declarations,
// and component source against a project-declared field registry. The
// positive match (a known historical mis-naming whose correction is a
// real required field) runs behind a four-stage suppression pipeline
// that bounds the false-positive rate.
package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Contract declares one entity's field surface. Field maps go from
// field name to a primitive type name ("string", "number", ...).
type Contract struct {
	RequiredFields map[string]string `yaml:"required_fields" json:"required_fields"`
	OptionalFields map[string]string `yaml:"optional_fields" json:"optional_fields"`
	AutoGenerated  []string          `yaml:"auto_generated" json:"auto_generated"`
}

// Registry maps lowercase entity names to their contracts.
type Registry map[string]Contract

// registryFiles are probed in order under the artifacts directory.
// YAML parses JSON too, so one decoder covers both.
var registryFiles = []string{"contracts.yaml", "contracts.yml", "contracts.json"}

// LoadRegistry reads the registry from dir. A missing file means the
// feature is not in use: empty registry, no error. A malformed file is
// an error for the caller's isolation boundary to absorb.
func LoadRegistry(dir string) (Registry, error) {
	for _, name := range registryFiles {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		registry := make(Registry)
		if err := yaml.Unmarshal(content, &registry); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return normalizeRegistry(registry), nil
	}
	return Registry{}, nil
}

func normalizeRegistry(registry Registry) Registry {
	normalized := make(Registry, len(registry))
	for entity, contract := range registry {
		normalized[strings.ToLower(entity)] = contract
	}
	return normalized
}

// Entities returns the registered entity names in stable order.
func (r Registry) Entities() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether field is declared required for entity.
func (r Registry) IsRequired(entity, field string) bool {
	_, ok := r[entity].RequiredFields[field]
	return ok
}

// IsAutoGenerated reports whether the entity declares the field as
// produced by the system rather than by callers.
func (r Registry) IsAutoGenerated(entity, field string) bool {
	for _, name := range r[entity].AutoGenerated {
		if name == field {
			return true
		}
	}
	return false
}
