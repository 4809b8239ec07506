// Package genforms turns declarative feature descriptors into a complete
// request/response pipeline for a content generation backend: field
// collection, validation, payload normalization, the HTTP call, and result
// rendering. The root package re-exports the common types and wires the
// default pieces together so most callers never import the subpackages.
package genforms

import (
	"context"

	"go.uber.org/zap"

	internalopenapi "github.com/goliatone/go-genforms/internal/openapi"
	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/pipeline"
	"github.com/goliatone/go-genforms/pkg/result"
	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/transport"
)

// Descriptor is the declarative definition of one content feature.
type Descriptor = feature.Descriptor

// FieldSpec describes a single input inside a feature form.
type FieldSpec = feature.FieldSpec

// Registry holds the known feature descriptors.
type Registry = feature.Registry

// State is the mutable per-form submission state.
type State = submission.State

// View is the renderer-friendly projection of a backend response.
type View = result.View

// Client is the HTTP transport for the generation backend.
type Client = transport.Client

// Engine is the generic submit pipeline shared by every descriptor.
type Engine = pipeline.Engine

// DefaultRegistry returns a registry seeded with the embedded descriptors.
func DefaultRegistry() (*Registry, error) {
	return feature.DefaultRegistry()
}

// NewState builds a fresh submission state for the descriptor, with defaults
// applied.
func NewState(desc Descriptor) *State {
	return submission.New(desc)
}

// NewClient constructs a transport client for the backend base URL.
func NewClient(baseURL string, options ...transport.Option) (*Client, error) {
	return transport.New(baseURL, options...)
}

// NewEngine wraps a client in the generic submit pipeline.
func NewEngine(client pipeline.Transport, options ...pipeline.Option) (*Engine, error) {
	return pipeline.New(client, options...)
}

// WithLogger forwards a zap logger to the pipeline engine.
func WithLogger(logger *zap.Logger) pipeline.Option {
	return pipeline.WithLogger(logger)
}

// Generate runs one submission end to end: look up the feature in the
// registry, apply the given values keyed by internal field name, then
// validate, normalize, call the backend, and render the result view. It is
// the simplest entry point for callers that do not manage form state.
func Generate(ctx context.Context, client *Client, registry *Registry, featureID string, values map[string]any) (View, error) {
	if registry == nil {
		var err error
		registry, err = DefaultRegistry()
		if err != nil {
			return View{}, err
		}
	}
	desc, err := registry.Get(featureID)
	if err != nil {
		return View{}, err
	}
	engine, err := pipeline.New(client)
	if err != nil {
		return View{}, err
	}
	if desc.Method == "GET" {
		return engine.Fetch(ctx, desc)
	}
	state := submission.New(desc)
	if err := state.Apply(values); err != nil {
		return View{}, err
	}
	return engine.Submit(ctx, state)
}

// DeriveRegistry loads an OpenAPI document from a file path or URL and
// registers every generation endpoint it describes. Deployments whose backend
// grows endpoints beyond the embedded set use this instead of DefaultRegistry.
func DeriveRegistry(ctx context.Context, location string) (*Registry, error) {
	raw, err := internalopenapi.Load(ctx, location, internalopenapi.LoadOptions{})
	if err != nil {
		return nil, err
	}
	descriptors, err := internalopenapi.Derive(ctx, raw)
	if err != nil {
		return nil, err
	}
	registry := feature.NewRegistry()
	for _, desc := range descriptors {
		if err := registry.Register(desc); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
