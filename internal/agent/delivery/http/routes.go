package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the enqueue and status endpoints on the root router and
// the session endpoints under api.
func RegisterRoutes(root gin.IRouter, api *gin.RouterGroup, h Handler) {
	root.POST("/process", h.Process)
	root.GET("/status", h.Status)

	sessions := api.Group("/sessions")
	{
		sessions.GET("/:client_id/history", h.History)
		sessions.DELETE("/:client_id", h.EndSession)
		sessions.POST("/:client_id/agents/:agent_id/clear", h.ClearAgent)
	}
}
