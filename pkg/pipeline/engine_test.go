package pipeline_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/payload"
	"github.com/goliatone/go-genforms/pkg/pipeline"
	"github.com/goliatone/go-genforms/pkg/submission"
	"github.com/goliatone/go-genforms/pkg/testsupport"
	"github.com/goliatone/go-genforms/pkg/transport"
	"github.com/goliatone/go-genforms/pkg/validate"
)

// countingTransport records calls so the tests can assert nothing goes out
// when the gate rejects a submission.
type countingTransport struct {
	generateCalls int
	fetchCalls    int
	response      map[string]any
	err           error
	lastPayload   payload.Payload
}

func (c *countingTransport) Generate(_ context.Context, _ feature.Descriptor, p payload.Payload) (map[string]any, error) {
	c.generateCalls++
	c.lastPayload = p
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func (c *countingTransport) Fetch(context.Context, feature.Descriptor) (map[string]any, error) {
	c.fetchCalls++
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func filledDocumentState(t *testing.T) *submission.State {
	t.Helper()
	state := submission.New(testsupport.MustDescriptor(t, "document"))
	require.NoError(t, state.Set("documentTitle", "Q4 Proposal"))
	require.NoError(t, state.Set("purpose", "Secure budget"))
	require.NoError(t, state.Set("keyPoints", "revenue, churn"))
	return state
}

func TestSubmitSettlesSucceeded(t *testing.T) {
	client := &countingTransport{response: testsupport.DocumentResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	view, err := engine.Submit(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, 1, client.generateCalls)
	assert.Equal(t, "document", view.Shape)
	assert.Equal(t, "Generated Proposal", view.Title)
	assert.Equal(t, submission.PhaseSucceeded, state.Phase())
	assert.False(t, state.Submitting(), "every submit must settle")
	assert.NotNil(t, state.LastResult())
	assert.Empty(t, state.LastError())
}

func TestValidationFailureNeverReachesTransport(t *testing.T) {
	client := &countingTransport{response: testsupport.DocumentResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := submission.New(testsupport.MustDescriptor(t, "document"))
	_, err = engine.Submit(context.Background(), state)
	require.Error(t, err)

	var fieldErr *validate.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "documentTitle", fieldErr.Field)

	assert.Equal(t, 0, client.generateCalls, "invalid forms must cost zero network calls")
	assert.Equal(t, submission.PhaseIdle, state.Phase())
	assert.False(t, state.Submitting())
	assert.Equal(t, "Document Title is required", state.LastError())
}

func TestTransportFailureSettlesFailedWithUserMessage(t *testing.T) {
	client := &countingTransport{err: &transport.StatusError{
		Status: http.StatusUnprocessableEntity,
		Detail: "purpose is required",
	}}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	_, err = engine.Submit(context.Background(), state)
	require.Error(t, err)

	assert.Equal(t, submission.PhaseFailed, state.Phase())
	assert.False(t, state.Submitting())
	assert.Equal(t, "purpose is required", state.LastError())
	assert.Nil(t, state.LastResult())
}

func TestNetworkFailureMapsToGenericMessage(t *testing.T) {
	client := &countingTransport{err: errors.New("dial tcp: connection refused")}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	_, err = engine.Submit(context.Background(), state)
	require.Error(t, err)

	assert.Equal(t, "failed to generate - try again", state.LastError())
	assert.Equal(t, submission.PhaseFailed, state.Phase())
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	client := &countingTransport{response: testsupport.DocumentResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	require.NoError(t, state.Begin())

	_, err = engine.Submit(context.Background(), state)
	require.ErrorIs(t, err, submission.ErrInFlight)
	assert.Equal(t, 0, client.generateCalls)
	assert.Equal(t, submission.PhaseInFlight, state.Phase(), "the outstanding call is untouched")
}

func TestResubmitClearsPreviousOutcome(t *testing.T) {
	client := &countingTransport{response: testsupport.DocumentResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	_, err = engine.Submit(context.Background(), state)
	require.NoError(t, err)
	require.NotNil(t, state.LastResult())

	client.err = errors.New("backend down")
	_, err = engine.Submit(context.Background(), state)
	require.Error(t, err)

	assert.Nil(t, state.LastResult(), "a failed resubmit must not show the stale result")
	assert.Equal(t, submission.PhaseFailed, state.Phase())
	assert.Equal(t, 2, client.generateCalls)
}

func TestSubmitSendsNormalizedPayload(t *testing.T) {
	client := &countingTransport{response: testsupport.DocumentResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	state := filledDocumentState(t)
	_, err = engine.Submit(context.Background(), state)
	require.NoError(t, err)

	want, err := payload.Build(state)
	require.NoError(t, err)
	assert.Equal(t, want.Body, client.lastPayload.Body)
	assert.Equal(t, "application/json", client.lastPayload.ContentType)
}

func TestFetchRendersWithoutSubmissionState(t *testing.T) {
	client := &countingTransport{response: testsupport.StatsResponse()}
	engine, err := pipeline.New(client)
	require.NoError(t, err)

	view, err := engine.Fetch(context.Background(), testsupport.MustDescriptor(t, "dashboard"))
	require.NoError(t, err)

	assert.Equal(t, 1, client.fetchCalls)
	assert.Equal(t, "stats", view.Shape)
	assert.Equal(t, "Dashboard", view.Title)
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := pipeline.New(nil)
	require.Error(t, err)
}
