package transport

import (
	"errors"
	"fmt"
	"strings"
)

// genericFailureMessage is the user-facing text for any transport failure that
// does not carry a structured backend detail.
const genericFailureMessage = "failed to generate - try again"

// StatusError is a non-success HTTP response from the backend. Detail carries
// the structured message from the response body when the backend supplied one
// (FastAPI-style {"detail": "..."}).
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Detail) != "" {
		return fmt.Sprintf("transport: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("transport: status %d", e.Status)
}

// UserMessage maps a transport failure to the message shown to the user: the
// backend's structured detail when present, otherwise a generic retry hint.
// The raw error goes to the diagnostic channel only.
func UserMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Detail) != "" {
		return statusErr.Detail
	}
	return genericFailureMessage
}
