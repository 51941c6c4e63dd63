package http

import (
	"errors"
	"net/http"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/middleware"
	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/internal/session/repository"
)

var (
	errMissingFields   = errors.New(msgMissingFields)
	errMissingClientID = errors.New("client_id is required")
	errMissingAgentID  = errors.New("agent_id is required")
)

// mapError translates use-case errors into an HTTP status and a user-visible message.
func (h *handler) mapError(err error) (int, string) {
	switch {
	case errors.Is(err, agent.ErrUnknownAgent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, orchestrator.ErrEmptyMessage):
		return http.StatusBadRequest, orchestrator.MsgEmptyMessage
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, repository.ErrTranscriptNotFound):
		return http.StatusNotFound, msgSessionNotFound
	case errors.Is(err, middleware.ErrThrottled):
		return http.StatusTooManyRequests, msgThrottled
	default:
		return http.StatusInternalServerError, orchestrator.FailureMessage(err)
	}
}
