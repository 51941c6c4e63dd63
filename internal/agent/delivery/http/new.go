package http

import (
	"github.com/gin-gonic/gin"

	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/pkg/log"
)

// Handler is the public interface for the collaboration HTTP delivery layer.
type Handler interface {
	Process(c *gin.Context)
	Status(c *gin.Context)
	History(c *gin.Context)
	EndSession(c *gin.Context)
	ClearAgent(c *gin.Context)
}

// Limiter budgets enqueue requests per client id.
type Limiter interface {
	Allow(key string) error
}

// StatusInfo is reported by the status probe.
type StatusInfo struct {
	ResponderConfigured bool
	APIKeyConfigured    bool
	ArchiveEnabled      bool
}

type handler struct {
	l        log.Logger
	uc       orchestrator.UseCase
	registry connection.Registry
	throttle Limiter
	status   StatusInfo
}

// New creates the HTTP handler. throttle may be nil.
func New(l log.Logger, uc orchestrator.UseCase, registry connection.Registry, throttle Limiter, status StatusInfo) Handler {
	return &handler{
		l:        l,
		uc:       uc,
		registry: registry,
		throttle: throttle,
		status:   status,
	}
}
