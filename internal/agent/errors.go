package agent

import (
	"errors"
	"fmt"
	"strings"

	"multi-agent-collaboration/pkg/llmprovider"
)

var (
	ErrUnknownAgent  = errors.New("unknown agent")
	ErrEmptyResponse = errors.New("empty responder output")
)

// UnknownAgentError names an agent id outside the fixed set.
type UnknownAgentError struct {
	ID string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.ID)
}

func (e *UnknownAgentError) Is(target error) bool {
	return target == ErrUnknownAgent
}

// FailureKind classifies a Responder error.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailureRateLimited
)

func (k FailureKind) String() string {
	if k == FailureRateLimited {
		return "rate_limited"
	}
	return "other"
}

// ResponderFailure wraps an error returned by the Responder of one agent.
type ResponderFailure struct {
	Agent string
	Kind  FailureKind
	Err   error
}

func (e *ResponderFailure) Error() string {
	return fmt.Sprintf("%s responder failed (%s): %v", e.Agent, e.Kind, e.Err)
}

func (e *ResponderFailure) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the provider rejected the call for rate or quota reasons.
func (e *ResponderFailure) RateLimited() bool {
	return e.Kind == FailureRateLimited
}

// ClassifyFailure prefers the typed sentinel and falls back to the error text,
// since some providers only signal throttling in their message body.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureOther
	}
	if errors.Is(err, llmprovider.ErrProviderRateLimited) {
		return FailureRateLimited
	}

	text := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(text, marker) {
			return FailureRateLimited
		}
	}
	return FailureOther
}
