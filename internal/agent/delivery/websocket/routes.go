package websocket

import "github.com/gin-gonic/gin"

// RegisterRoutes maps the session channel and the per-agent channel.
func RegisterRoutes(r gin.IRouter, h Handler) {
	r.GET("/ws/:client_id", h.Session)
	r.GET("/ws/:client_id/agent/:agent_id", h.Agent)
}
