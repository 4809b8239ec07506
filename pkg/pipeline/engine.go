// Package pipeline coordinates one submission end to end: validation gate,
// optimistic clear, payload build, the single transport call, and the result
// view. The engine never spawns goroutines; the caller owns the event loop and
// at most one call is in flight per form instance.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/payload"
	"github.com/goliatone/go-genforms/pkg/result"
	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/transport"
	"github.com/goliatone/go-genforms/pkg/validate"
)

// Transport is the slice of the HTTP client the engine depends on. It is an
// interface so tests can count calls without a network.
type Transport interface {
	Generate(ctx context.Context, desc feature.Descriptor, p payload.Payload) (map[string]any, error)
	Fetch(ctx context.Context, desc feature.Descriptor) (map[string]any, error)
}

// Option customises the engine configuration.
type Option func(*Engine)

// WithLogger sets the diagnostic logger used for raw failure details.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine is the generic submit pipeline shared by every feature descriptor.
type Engine struct {
	client Transport
	logger *zap.Logger
}

// New constructs an Engine around a transport.
func New(client Transport, options ...Option) (*Engine, error) {
	if client == nil {
		return nil, errors.New("pipeline: transport is required")
	}
	e := &Engine{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Submit runs the full cycle for one form instance. Validation failures stop
// before any side effect and leave the state Idle with lastError set. A submit
// while one is in flight returns submission.ErrInFlight untouched. Transport
// failures settle the state as Failed with the user-facing message; the raw
// error goes to the diagnostic logger only.
func (e *Engine) Submit(ctx context.Context, state *submission.State) (result.View, error) {
	if ctx == nil {
		return result.View{}, errors.New("pipeline: context is required")
	}
	if state == nil {
		return result.View{}, errors.New("pipeline: state is required")
	}
	desc := state.Descriptor()

	if state.Submitting() {
		return result.View{}, submission.ErrInFlight
	}
	if violation := validate.Check(state); violation != nil {
		state.RejectValidation(violation.Message)
		return result.View{}, violation
	}
	if err := state.Begin(); err != nil {
		return result.View{}, err
	}

	body, err := payload.Build(state)
	if err != nil {
		e.logger.Error("payload build failed", zap.String("feature", desc.ID), zap.Error(err))
		state.Fail(transport.UserMessage(err))
		return result.View{}, err
	}

	response, err := e.client.Generate(ctx, desc, body)
	if err != nil {
		e.logger.Error("generate call failed", zap.String("feature", desc.ID), zap.Error(err))
		state.Fail(transport.UserMessage(err))
		return result.View{}, err
	}

	state.Succeed(response)
	return result.NewView(desc.ResponseShape, response), nil
}

// Fetch runs a bodyless GET descriptor (dashboard stats) through the same
// render path. It does not touch any submission state.
func (e *Engine) Fetch(ctx context.Context, desc feature.Descriptor) (result.View, error) {
	if ctx == nil {
		return result.View{}, errors.New("pipeline: context is required")
	}
	response, err := e.client.Fetch(ctx, desc)
	if err != nil {
		e.logger.Error("fetch call failed", zap.String("feature", desc.ID), zap.Error(err))
		return result.View{}, err
	}
	return result.NewView(desc.ResponseShape, response), nil
}
