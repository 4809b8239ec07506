package submission

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
)

// Apply pushes a map of values keyed by internal field name through the same
// setters interactive collection uses. List values may arrive as raw text or
// as a decoded JSON array; incremental lists are committed through
// AppendPending so the set semantics hold. File fields are skipped; binary
// attachments go through Attach.
func (s *State) Apply(values map[string]any) error {
	for _, field := range s.desc.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := s.applyValue(field, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) applyValue(field feature.FieldSpec, value any) error {
	switch field.Kind {
	case feature.FieldKindNumber:
		switch n := value.(type) {
		case int:
			return s.Set(field.Name, n)
		case float64:
			return s.Set(field.Name, int(n))
		default:
			return fmt.Errorf("submission: field %q expects a number", field.Name)
		}
	case feature.FieldKindList:
		raw, err := listBlock(field, value)
		if err != nil {
			return err
		}
		if field.Mode == feature.ListModeIncremental {
			if strings.TrimSpace(raw) == "" {
				return nil
			}
			if err := s.SetBuffer(field.Name, raw); err != nil {
				return err
			}
			return s.AppendPending(field.Name)
		}
		return s.Set(field.Name, raw)
	case feature.FieldKindFile:
		return nil
	default:
		return s.Set(field.Name, value)
	}
}

func listBlock(field feature.FieldSpec, value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case []string:
		return strings.Join(typed, ", "), nil
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("submission: field %q expects a list or raw text", field.Name)
	}
}
