package feature

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind is the simplified enum for form-friendly input kinds.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindNumber  FieldKind = "number"
	FieldKindBoolean FieldKind = "boolean"
	FieldKindList    FieldKind = "list"
	FieldKindEnum    FieldKind = "enum"
	FieldKindFile    FieldKind = "file"
)

// ListMode selects how a list field collects entries. Incremental fields keep a
// committed, deduplicated list built one add action at a time; bulk fields keep
// a raw text block that is only split into entries when a payload is built.
// A field uses exactly one mode.
type ListMode string

const (
	ListModeIncremental ListMode = "incremental"
	ListModeBulk        ListMode = "bulk"
)

// Encoding names the request body encoding a descriptor expects.
type Encoding string

const (
	EncodingJSON      Encoding = "json"
	EncodingMultipart Encoding = "multipart"
)

// FieldSpec describes a single input inside a feature form. Name is the
// internal identifier the UI layer binds against; Key is the backend-facing
// name the normalizer emits, which commonly differs by naming convention.
type FieldSpec struct {
	Name        string    `yaml:"name" json:"name"`
	Key         string    `yaml:"key" json:"key"`
	Kind        FieldKind `yaml:"kind" json:"kind"`
	Required    bool      `yaml:"required" json:"required"`
	Default     any       `yaml:"default,omitempty" json:"default,omitempty"`
	Enum        []string  `yaml:"enum,omitempty" json:"enum,omitempty"`
	Mode        ListMode  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Label       string    `yaml:"label,omitempty" json:"label,omitempty"`
	Placeholder string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help        string    `yaml:"help,omitempty" json:"help,omitempty"`
}

// DisplayLabel returns the human-facing label, falling back to the field name.
func (f FieldSpec) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

// Descriptor is the declarative definition of one content feature: its backend
// endpoint, request encoding, response shape, and ordered field list. It is
// data, not code; one generic engine consumes descriptors for every feature.
type Descriptor struct {
	ID            string      `yaml:"id" json:"id"`
	Title         string      `yaml:"title" json:"title"`
	Path          string      `yaml:"path" json:"path"`
	Method        string      `yaml:"method" json:"method"`
	Encoding      Encoding    `yaml:"encoding" json:"encoding"`
	ResponseShape string      `yaml:"responseShape" json:"responseShape"`
	Fields        []FieldSpec `yaml:"fields" json:"fields"`
}

// Field looks up a field spec by internal name.
func (d Descriptor) Field(name string) (FieldSpec, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// FileField returns the descriptor's file field, if any. A descriptor carries
// at most one; the normalizer switches to multipart when it holds a value.
func (d Descriptor) FileField() (FieldSpec, bool) {
	for _, field := range d.Fields {
		if field.Kind == FieldKindFile {
			return field, true
		}
	}
	return FieldSpec{}, false
}

var (
	errDescriptorIDMissing   = errors.New("feature: descriptor id is required")
	errDescriptorPathMissing = errors.New("feature: descriptor path is required")
)

// Validate checks the descriptor for structural problems before registration.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return errDescriptorIDMissing
	}
	if strings.TrimSpace(d.Path) == "" {
		return errDescriptorPathMissing
	}
	if d.Method == "" {
		return fmt.Errorf("feature: descriptor %q: method is required", d.ID)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	fileFields := 0
	for _, field := range d.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("feature: descriptor %q: field name is required", d.ID)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("feature: descriptor %q: duplicate field %q", d.ID, name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(field.Key) == "" {
			return fmt.Errorf("feature: descriptor %q: field %q: backend key is required", d.ID, name)
		}
		switch field.Kind {
		case FieldKindText, FieldKindNumber, FieldKindBoolean, FieldKindEnum:
		case FieldKindList:
			if field.Mode != ListModeIncremental && field.Mode != ListModeBulk {
				return fmt.Errorf("feature: descriptor %q: list field %q needs a mode", d.ID, name)
			}
		case FieldKindFile:
			fileFields++
		default:
			return fmt.Errorf("feature: descriptor %q: field %q: unknown kind %q", d.ID, name, field.Kind)
		}
	}
	if fileFields > 1 {
		return fmt.Errorf("feature: descriptor %q: at most one file field is supported", d.ID)
	}
	return nil
}
