package submission

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
)

// SplitDelimited splits a raw text block on commas and newlines, trims each
// piece, and drops empties. Order is preserved and duplicates are kept; this
// is the bulk-parse rule applied at normalize time.
func SplitDelimited(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pieces := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Buffer returns the pending input buffer of an incremental list field.
func (s *State) Buffer(name string) string {
	return s.buffers[name]
}

// SetBuffer stages free text for a later AppendPending.
func (s *State) SetBuffer(name, raw string) error {
	if _, err := s.incrementalField(name); err != nil {
		return err
	}
	s.buffers[name] = raw
	return nil
}

// AppendPending commits the pending buffer of an incremental list field: the
// buffer is split on commas, trimmed, empties dropped, and the pieces merged
// into the committed list with set semantics. The buffer clears afterwards
// whether or not anything new was added.
func (s *State) AppendPending(name string) error {
	field, err := s.incrementalField(name)
	if err != nil {
		return err
	}
	raw := s.buffers[name]
	s.buffers[name] = ""

	pieces := strings.Split(raw, ",")
	committed := s.List(field.Name)
	seen := make(map[string]struct{}, len(committed))
	for _, item := range committed {
		seen[item] = struct{}{}
	}
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		committed = append(committed, trimmed)
	}
	s.values[name] = committed
	return nil
}

// RemoveItem deletes one committed entry by value. Unknown values are a no-op.
func (s *State) RemoveItem(name, value string) error {
	if _, err := s.incrementalField(name); err != nil {
		return err
	}
	committed := s.List(name)
	for i, item := range committed {
		if item == value {
			s.values[name] = append(committed[:i:i], committed[i+1:]...)
			return nil
		}
	}
	return nil
}

// RemoveItemAt deletes one committed entry by index.
func (s *State) RemoveItemAt(name string, index int) error {
	if _, err := s.incrementalField(name); err != nil {
		return err
	}
	committed := s.List(name)
	if index < 0 || index >= len(committed) {
		return fmt.Errorf("submission: field %q: index %d out of range", name, index)
	}
	s.values[name] = append(committed[:index:index], committed[index+1:]...)
	return nil
}

func (s *State) incrementalField(name string) (feature.FieldSpec, error) {
	field, ok := s.desc.Field(name)
	if !ok {
		return feature.FieldSpec{}, fmt.Errorf("submission: unknown field %q", name)
	}
	if field.Kind != feature.FieldKindList || field.Mode != feature.ListModeIncremental {
		return feature.FieldSpec{}, fmt.Errorf("submission: field %q is not an incremental list", name)
	}
	return field, nil
}
