package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-genforms/pkg/feature"
)

const (
	generateSuffix = "/generate"
	statsSuffix    = "/stats"
)

// Derive parses a raw OpenAPI document and maps its generation endpoints to
// feature descriptors. POST operations on paths ending in /generate become
// form-backed features; GET operations on paths ending in /stats become
// fetch-only features. Everything else in the document is ignored.
func Derive(ctx context.Context, raw []byte) ([]feature.Descriptor, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse document: %w", err)
	}
	if spec.Paths == nil {
		return nil, nil
	}

	pathItems := spec.Paths.Map()
	paths := make([]string, 0, len(pathItems))
	for path := range pathItems {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var descriptors []feature.Descriptor
	for _, path := range paths {
		item := pathItems[path]
		if item == nil {
			continue
		}
		switch {
		case strings.HasSuffix(path, generateSuffix) && item.Post != nil:
			desc, err := generateDescriptor(path, item.Post)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, desc)
		case strings.HasSuffix(path, statsSuffix) && item.Get != nil:
			descriptors = append(descriptors, fetchDescriptor(path, item.Get))
		}
	}
	return descriptors, nil
}

func generateDescriptor(path string, op *openapi3.Operation) (feature.Descriptor, error) {
	id := featureID(path, generateSuffix)
	encoding, schema := requestSchema(op.RequestBody)

	desc := feature.Descriptor{
		ID:            id,
		Title:         operationTitle(op, id),
		Path:          path,
		Method:        "POST",
		Encoding:      encoding,
		ResponseShape: id,
	}
	if schema != nil {
		fields, err := schemaFields(id, schema)
		if err != nil {
			return feature.Descriptor{}, err
		}
		desc.Fields = fields
	}
	if err := desc.Validate(); err != nil {
		return feature.Descriptor{}, err
	}
	return desc, nil
}

func fetchDescriptor(path string, op *openapi3.Operation) feature.Descriptor {
	id := featureID(path, statsSuffix)
	return feature.Descriptor{
		ID:            id,
		Title:         operationTitle(op, id),
		Path:          path,
		Method:        "GET",
		Encoding:      feature.EncodingJSON,
		ResponseShape: "stats",
	}
}

// featureID names the feature after the path segment before the suffix, e.g.
// /api/resume/generate -> resume and /api/dashboard/stats -> dashboard.
func featureID(path, suffix string) string {
	trimmed := strings.TrimSuffix(path, suffix)
	segments := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(segments) == 0 || segments[len(segments)-1] == "" {
		return strings.Trim(trimmed, "/")
	}
	return segments[len(segments)-1]
}

func operationTitle(op *openapi3.Operation, id string) string {
	if op != nil && strings.TrimSpace(op.Summary) != "" {
		return strings.TrimSpace(op.Summary)
	}
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// requestSchema picks the request body schema and the form encoding it
// implies. Multipart wins over JSON when a body declares both.
func requestSchema(body *openapi3.RequestBodyRef) (feature.Encoding, *openapi3.Schema) {
	if body == nil || body.Value == nil {
		return feature.EncodingJSON, nil
	}
	content := body.Value.Content
	if mt, ok := content["multipart/form-data"]; ok {
		return feature.EncodingMultipart, schemaValue(mt)
	}
	if mt, ok := content["application/json"]; ok {
		return feature.EncodingJSON, schemaValue(mt)
	}
	for _, mt := range content {
		return feature.EncodingJSON, schemaValue(mt)
	}
	return feature.EncodingJSON, nil
}

func schemaValue(mt *openapi3.MediaType) *openapi3.Schema {
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// schemaFields converts object properties into ordered field specs. OpenAPI
// property maps carry no order, so fields are emitted required-first, each
// group alphabetical by key, which keeps derivation deterministic across runs.
func schemaFields(featureID string, schema *openapi3.Schema) ([]feature.FieldSpec, error) {
	if schema == nil || len(schema.Properties) == 0 {
		return nil, nil
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if required[keys[i]] != required[keys[j]] {
			return required[keys[i]]
		}
		return keys[i] < keys[j]
	})

	fields := make([]feature.FieldSpec, 0, len(keys))
	for _, key := range keys {
		ref := schema.Properties[key]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := propertyField(featureID, key, ref.Value, required[key])
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func propertyField(featureID, key string, prop *openapi3.Schema, required bool) (feature.FieldSpec, error) {
	field := feature.FieldSpec{
		Name:     lowerCamel(key),
		Key:      key,
		Required: required,
		Label:    titleFromKey(key),
		Help:     strings.TrimSpace(prop.Description),
	}

	switch schemaType(prop) {
	case "string":
		switch {
		case prop.Format == "binary":
			field.Kind = feature.FieldKindFile
		case len(prop.Enum) > 0:
			field.Kind = feature.FieldKindEnum
			field.Enum = enumStrings(prop.Enum)
		default:
			field.Kind = feature.FieldKindText
		}
	case "integer", "number":
		field.Kind = feature.FieldKindNumber
	case "boolean":
		field.Kind = feature.FieldKindBoolean
	case "array":
		field.Kind = feature.FieldKindList
		field.Mode = feature.ListModeBulk
	case "":
		field.Kind = feature.FieldKindText
	default:
		return feature.FieldSpec{}, fmt.Errorf("openapi: feature %q: property %q: unsupported type %q", featureID, key, schemaType(prop))
	}

	if prop.Default != nil {
		field.Default = prop.Default
	}
	return field, nil
}

func schemaType(prop *openapi3.Schema) string {
	if prop.Type == nil {
		return ""
	}
	values := prop.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// lowerCamel converts a snake_case backend key into the internal field name
// convention, e.g. document_type -> documentType.
func lowerCamel(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func titleFromKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
