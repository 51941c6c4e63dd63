package middleware

import (
	"multi-agent-collaboration/pkg/log"
)

type Middleware struct {
	l       log.Logger
	origins []string
}

// New returns the middleware set. origins lists the frontend origins allowed
// for CORS requests and websocket upgrades.
func New(l log.Logger, origins []string) Middleware {
	return Middleware{
		l:       l,
		origins: origins,
	}
}

// Origins returns the allowed origin list.
func (m Middleware) Origins() []string {
	return m.origins
}
