// Package validate implements the pre-flight gate that runs before every
// submission. The gate reads state, never mutates it, and reports the first
// violation only; aggregating every problem into a list is deliberately out of
// scope for the form UX this mirrors.
package validate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/submission"
)

// FieldError is a single validation violation with a user-facing message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Check walks the descriptor's fields in order and returns the first missing
// required field as a *FieldError, or nil when the state may be submitted.
func Check(state *submission.State) *FieldError {
	desc := state.Descriptor()
	for _, field := range desc.Fields {
		if !field.Required {
			continue
		}
		if present(state, field) {
			continue
		}
		return &FieldError{
			Field:   field.Name,
			Message: fmt.Sprintf("%s is required", field.DisplayLabel()),
		}
	}
	return nil
}

// present applies the per-kind presence rules: text and enum fields count when
// non-empty after trimming, numbers when not the zero sentinel, booleans
// always, lists when the committed list or (bulk) raw block is non-empty, and
// files when an attachment is staged.
func present(state *submission.State, field feature.FieldSpec) bool {
	switch field.Kind {
	case feature.FieldKindText, feature.FieldKindEnum:
		return strings.TrimSpace(state.Text(field.Name)) != ""
	case feature.FieldKindNumber:
		return state.Number(field.Name) != 0
	case feature.FieldKindBoolean:
		return true
	case feature.FieldKindList:
		if field.Mode == feature.ListModeBulk {
			return strings.TrimSpace(state.Text(field.Name)) != ""
		}
		return len(state.List(field.Name)) > 0
	case feature.FieldKindFile:
		return state.File() != nil
	default:
		return false
	}
}
