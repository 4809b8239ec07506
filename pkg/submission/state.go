package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
)

// Phase tracks where a form instance sits in the submit cycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in-flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// ErrInFlight is returned when a submit is attempted while one is outstanding.
// Callers treat it as a no-op; the outstanding call is never cancelled.
var ErrInFlight = errors.New("submission: a request is already in flight")

// File is a binary attachment staged for upload.
type File struct {
	Name    string
	Content []byte
}

// State is the mutable per-form-instance store: field values keyed by spec
// name, pending buffers for incremental list fields, the staged file, and the
// submit lifecycle flags. It is not safe for concurrent use; the engine runs
// single-threaded within one event turn.
type State struct {
	desc    feature.Descriptor
	values  map[string]any
	buffers map[string]string
	file    *File

	phase      Phase
	submitting bool
	lastError  string
	lastResult map[string]any
}

// New creates form state for a descriptor, seeding declared defaults.
func New(desc feature.Descriptor) *State {
	s := &State{
		desc:    desc,
		values:  make(map[string]any, len(desc.Fields)),
		buffers: make(map[string]string),
		phase:   PhaseIdle,
	}
	s.applyDefaults()
	return s
}

func (s *State) applyDefaults() {
	for _, field := range s.desc.Fields {
		if field.Default == nil {
			continue
		}
		switch field.Kind {
		case feature.FieldKindList:
			s.values[field.Name] = toStringList(field.Default)
		case feature.FieldKindNumber:
			s.values[field.Name] = toInt(field.Default)
		case feature.FieldKindBoolean:
			if b, ok := field.Default.(bool); ok {
				s.values[field.Name] = b
			}
		default:
			s.values[field.Name] = fmt.Sprint(field.Default)
		}
	}
}

// Descriptor returns the descriptor this state was created for.
func (s *State) Descriptor() feature.Descriptor {
	return s.desc
}

// Set writes a field value after a light kind check. Text and enum fields take
// strings, number fields ints, boolean fields bools. Bulk list fields keep
// their raw text block here; incremental lists are edited through AppendPending
// and RemoveItem instead.
func (s *State) Set(name string, value any) error {
	field, ok := s.desc.Field(name)
	if !ok {
		return fmt.Errorf("submission: unknown field %q", name)
	}
	switch field.Kind {
	case feature.FieldKindText, feature.FieldKindEnum:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("submission: field %q expects a string", name)
		}
		s.values[name] = str
	case feature.FieldKindNumber:
		switch n := value.(type) {
		case int:
			s.values[name] = n
		case float64:
			s.values[name] = int(n)
		default:
			return fmt.Errorf("submission: field %q expects a number", name)
		}
	case feature.FieldKindBoolean:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("submission: field %q expects a boolean", name)
		}
		s.values[name] = b
	case feature.FieldKindList:
		if field.Mode != feature.ListModeBulk {
			return fmt.Errorf("submission: field %q is incremental; use AppendPending", name)
		}
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("submission: field %q expects raw text", name)
		}
		s.values[name] = str
	case feature.FieldKindFile:
		return fmt.Errorf("submission: field %q is a file; use Attach", name)
	}
	return nil
}

// Value returns the stored value for a field, if any.
func (s *State) Value(name string) (any, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Text returns the stored string for a text/enum/bulk field, or "".
func (s *State) Text(name string) string {
	if str, ok := s.values[name].(string); ok {
		return str
	}
	return ""
}

// Number returns the stored int for a number field; zero is the missing
// sentinel.
func (s *State) Number(name string) int {
	if n, ok := s.values[name].(int); ok {
		return n
	}
	return 0
}

// Bool returns the stored boolean for a field, defaulting to false.
func (s *State) Bool(name string) bool {
	if b, ok := s.values[name].(bool); ok {
		return b
	}
	return false
}

// List returns the committed list for an incremental field. Bulk fields have
// no committed list; their entries are derived from the raw block at
// normalize time.
func (s *State) List(name string) []string {
	if list, ok := s.values[name].([]string); ok {
		return list
	}
	return nil
}

// Attach stages a file for upload. Passing nil clears the attachment.
func (s *State) Attach(file *File) {
	s.file = file
}

// File returns the staged attachment, if any.
func (s *State) File() *File {
	return s.file
}

// Reset restores declared defaults and clears buffers, the staged file, and
// the last error/result. The phase returns to Idle.
func (s *State) Reset() {
	s.values = make(map[string]any, len(s.desc.Fields))
	s.buffers = make(map[string]string)
	s.file = nil
	s.phase = PhaseIdle
	s.submitting = false
	s.lastError = ""
	s.lastResult = nil
	s.applyDefaults()
}

// Begin performs the check-and-set admission control for a new submission
// within the current event turn. It optimistically clears the previous result
// and error before the call goes out.
func (s *State) Begin() error {
	if s.submitting {
		return ErrInFlight
	}
	s.submitting = true
	s.phase = PhaseInFlight
	s.lastError = ""
	s.lastResult = nil
	return nil
}

// Succeed settles the in-flight submission with a decoded response body.
func (s *State) Succeed(result map[string]any) {
	s.submitting = false
	s.phase = PhaseSucceeded
	s.lastError = ""
	s.lastResult = result
}

// Fail settles the in-flight submission with a user-facing message. The prior
// result is not restored; Begin already cleared it.
func (s *State) Fail(message string) {
	s.submitting = false
	s.phase = PhaseFailed
	s.lastResult = nil
	s.lastError = strings.TrimSpace(message)
}

// RejectValidation records a validation failure without ever entering the
// InFlight phase; no request is made.
func (s *State) RejectValidation(message string) {
	s.lastError = strings.TrimSpace(message)
}

// Submitting reports whether a call is outstanding.
func (s *State) Submitting() bool {
	return s.submitting
}

// Phase returns the current lifecycle phase.
func (s *State) Phase() Phase {
	return s.phase
}

// LastError returns the last user-facing error message, or "".
func (s *State) LastError() string {
	return s.lastError
}

// LastResult returns the last decoded response body, or nil.
func (s *State) LastResult() map[string]any {
	return s.lastResult
}

func toStringList(value any) []string {
	switch list := value.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func toInt(value any) int {
	switch n := value.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
