// Package payload builds backend-ready request bodies from form state. The
// build is a pure function of (state, descriptor): calling it twice on
// unmodified state yields byte-identical output, including the multipart
// variant, which pins its boundary for that reason.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/submission"
)

// multipartBoundary keeps multipart bodies deterministic across rebuilds of
// the same state.
const multipartBoundary = "genforms-form-boundary-4a1b9c"

// Payload is the normalized, backend-ready body. It is ephemeral: built fresh
// on every submit and never persisted or reused.
type Payload struct {
	Encoding    feature.Encoding
	ContentType string
	Body        []byte
}

type entry struct {
	key   string
	value any
}

// Build normalizes form state into a request payload. Optional fields with
// empty or sentinel values are omitted entirely; bulk list fields are split on
// commas and newlines with empties dropped; incremental lists pass through
// their committed entries unchanged. When a file is staged the payload
// switches to multipart and every other field is serialized as a text part,
// list fields as a single JSON-encoded string part.
func Build(state *submission.State) (Payload, error) {
	desc := state.Descriptor()
	entries := collect(state, desc)

	if state.File() != nil {
		return buildMultipart(desc, entries, state.File())
	}
	return buildJSON(entries)
}

// collect walks fields in descriptor order and keeps only the values that
// belong in the payload. No reordering, no case changes; trimming and
// empty-removal only.
func collect(state *submission.State, desc feature.Descriptor) []entry {
	entries := make([]entry, 0, len(desc.Fields))
	for _, field := range desc.Fields {
		switch field.Kind {
		case feature.FieldKindText, feature.FieldKindEnum:
			value := state.Text(field.Name)
			if strings.TrimSpace(value) == "" {
				continue
			}
			entries = append(entries, entry{key: field.Key, value: value})
		case feature.FieldKindNumber:
			value := state.Number(field.Name)
			if value == 0 {
				continue
			}
			entries = append(entries, entry{key: field.Key, value: value})
		case feature.FieldKindBoolean:
			entries = append(entries, entry{key: field.Key, value: state.Bool(field.Name)})
		case feature.FieldKindList:
			var items []string
			if field.Mode == feature.ListModeBulk {
				items = submission.SplitDelimited(state.Text(field.Name))
			} else {
				items = state.List(field.Name)
			}
			if len(items) == 0 {
				continue
			}
			entries = append(entries, entry{key: field.Key, value: items})
		case feature.FieldKindFile:
			// The staged file is handled by the multipart switch.
		}
	}
	return entries
}

// buildJSON writes entries as a flat object in descriptor field order.
func buildJSON(entries []entry) (Payload, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return Payload{}, fmt.Errorf("payload: encode key %q: %w", e.key, err)
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return Payload{}, fmt.Errorf("payload: encode field %q: %w", e.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return Payload{
		Encoding:    feature.EncodingJSON,
		ContentType: "application/json",
		Body:        buf.Bytes(),
	}, nil
}

// buildMultipart serializes entries as text parts plus the staged file. List
// values become a single JSON-encoded string part under their backend key.
func buildMultipart(desc feature.Descriptor, entries []entry, file *submission.File) (Payload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.SetBoundary(multipartBoundary); err != nil {
		return Payload{}, fmt.Errorf("payload: set boundary: %w", err)
	}

	fileKey := "file"
	if field, ok := desc.FileField(); ok {
		fileKey = field.Key
	}
	part, err := writer.CreateFormFile(fileKey, file.Name)
	if err != nil {
		return Payload{}, fmt.Errorf("payload: create file part: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return Payload{}, fmt.Errorf("payload: write file part: %w", err)
	}

	for _, e := range entries {
		text, err := partValue(e.value)
		if err != nil {
			return Payload{}, fmt.Errorf("payload: encode part %q: %w", e.key, err)
		}
		if err := writer.WriteField(e.key, text); err != nil {
			return Payload{}, fmt.Errorf("payload: write part %q: %w", e.key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return Payload{}, fmt.Errorf("payload: close multipart body: %w", err)
	}
	return Payload{
		Encoding:    feature.EncodingMultipart,
		ContentType: writer.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}

func partValue(value any) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case int:
		return fmt.Sprintf("%d", typed), nil
	case bool:
		return fmt.Sprintf("%t", typed), nil
	case []string:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("unsupported part type %T", value)
	}
}
