package websocket

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/middleware"
	"multi-agent-collaboration/pkg/log"
)

// Handler serves the observer channels of a session.
type Handler interface {
	Session(c *gin.Context)
	Agent(c *gin.Context)
}

// Limiter budgets user frames per client id.
type Limiter interface {
	Allow(key string) error
}

type Config struct {
	AllowedOrigins       []string
	WriteTimeout         time.Duration
	ReadLimit            int64
	TeardownOnDisconnect bool
}

type handler struct {
	l        log.Logger
	uc       orchestrator.UseCase
	registry connection.Registry
	throttle Limiter
	upgrader websocket.Upgrader
	cfg      Config
	teardown atomic.Bool
}

// New creates the websocket handler. throttle may be nil.
func New(l log.Logger, uc orchestrator.UseCase, registry connection.Registry, throttle Limiter, cfg Config) *handler {
	h := &handler{
		l:        l,
		uc:       uc,
		registry: registry,
		throttle: throttle,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(r, cfg.AllowedOrigins)
			},
		},
	}
	h.teardown.Store(cfg.TeardownOnDisconnect)
	return h
}

// SetTeardownOnDisconnect changes whether closing the last broadcast channel ends the session.
func (h *handler) SetTeardownOnDisconnect(enabled bool) {
	h.teardown.Store(enabled)
}
