package feature

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed descriptors.yaml
var embeddedDescriptors []byte

type descriptorDocument struct {
	Features []Descriptor `yaml:"features"`
}

// ParseDescriptors decodes a YAML descriptor document into validated
// descriptors, preserving document order.
func ParseDescriptors(raw []byte) ([]Descriptor, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("feature: descriptor document is empty")
	}
	var doc descriptorDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("feature: parse descriptors: %w", err)
	}
	for _, desc := range doc.Features {
		if err := desc.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Features, nil
}

// DefaultRegistry returns a registry seeded with the embedded descriptors for
// the built-in content features (resume, document, research, email, social,
// creative) plus the dashboard stats endpoint.
func DefaultRegistry() (*Registry, error) {
	descriptors, err := ParseDescriptors(embeddedDescriptors)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	for _, desc := range descriptors {
		if err := registry.Register(desc); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// MustDefaultRegistry is DefaultRegistry for setup paths where the embedded
// document is trusted.
func MustDefaultRegistry() *Registry {
	registry, err := DefaultRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}
