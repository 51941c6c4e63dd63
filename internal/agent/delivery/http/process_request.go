package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// processProcessReq binds the enqueue body. Binding failures and empty fields
// both report errMissingFields.
func (h *handler) processProcessReq(c *gin.Context) (processReq, error) {
	var req processReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errMissingFields
	}
	return req, req.validate()
}

// processSessionReq reads the client id path parameter.
func (h *handler) processSessionReq(c *gin.Context) (sessionReq, error) {
	req := sessionReq{
		ClientID: strings.TrimSpace(c.Param("client_id")),
	}
	return req, req.validate()
}

// processClearReq reads the client and agent path parameters.
func (h *handler) processClearReq(c *gin.Context) (clearReq, error) {
	req := clearReq{
		ClientID: strings.TrimSpace(c.Param("client_id")),
		AgentID:  strings.TrimSpace(c.Param("agent_id")),
	}
	return req, req.validate()
}
