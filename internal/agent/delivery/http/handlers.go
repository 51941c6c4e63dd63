package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"multi-agent-collaboration/pkg/response"
)

// Process godoc
// @Summary     Run the agent pipeline
// @Description Runs Coordinator, Research and Creative for one prompt of a client. Frames stream to the client's websocket while the run progresses; the response is returned once the run ends.
// @Tags        Collaboration
// @Accept      json
// @Produce     json
// @Param       body body processReq true "Client id and prompt"
// @Success     200  {object} processResp
// @Failure     400  {object} processResp "Missing client_id or prompt"
// @Failure     429  {object} processResp "Client throttled"
// @Router      /process [POST]
func (h *handler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processProcessReq(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, newProcessErrResp(req.ClientID, err.Error()))
		return
	}

	if h.throttle != nil {
		if err := h.throttle.Allow(req.ClientID); err != nil {
			h.l.Warnf(ctx, "%s: %v", logPrefixProcess, err)
			c.JSON(http.StatusTooManyRequests, newProcessErrResp(req.ClientID, msgThrottled))
			return
		}
	}

	// The run outlives the request: observers of the session still get
	// every frame when the caller goes away.
	result, err := h.uc.Run(context.WithoutCancel(ctx), req.ClientID, req.Prompt)
	if err != nil {
		h.l.Errorf(ctx, "%s: uc.Run: %v", logPrefixProcess, err)
		_, msg := h.mapError(err)
		c.JSON(http.StatusOK, newProcessErrResp(req.ClientID, msg))
		return
	}

	c.JSON(http.StatusOK, newProcessResp(req.ClientID, result))
}

// Status godoc
// @Summary     Status probe
// @Description Reports whether a language model provider is configured, plus the number of connected websocket channels.
// @Tags        Collaboration
// @Produce     json
// @Success     200 {object} statusResp
// @Router      /status [GET]
func (h *handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.newStatusResp())
}

// History godoc
// @Summary     Session history
// @Description Returns the turns, agent traces and internal messages of a session. Ended sessions are read from the transcript archive when it is enabled.
// @Tags        Sessions
// @Produce     json
// @Param       client_id path string true "Client id"
// @Success     200 {object} historyResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Session not found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/sessions/{client_id}/history [GET]
func (h *handler) History(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSessionReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	snap, err := h.uc.History(ctx, req.ClientID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, newHistoryResp(snap))
}

// EndSession godoc
// @Summary     End a session
// @Description Closes the session's websocket channels, drops its state and agent team and archives the transcript.
// @Tags        Sessions
// @Produce     json
// @Param       client_id path string true "Client id"
// @Success     200 {object} endSessionResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Session not found"
// @Router      /api/v1/sessions/{client_id} [DELETE]
func (h *handler) EndSession(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSessionReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if !h.uc.EndSession(ctx, req.ClientID) {
		response.NotFound(c, errors.New(msgSessionNotFound))
		return
	}

	response.OK(c, endSessionResp{SessionID: req.ClientID, Message: msgSessionEnded})
}

// ClearAgent godoc
// @Summary     Clear an agent's history
// @Description Empties the private conversation history of one agent of a session.
// @Tags        Sessions
// @Produce     json
// @Param       client_id path string true "Client id"
// @Param       agent_id  path string true "Agent id" Enums(task_manager, research, creative)
// @Success     200 {object} clearResp
// @Failure     400 {object} response.Resp "Unknown agent"
// @Router      /api/v1/sessions/{client_id}/agents/{agent_id}/clear [POST]
func (h *handler) ClearAgent(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processClearReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.ClearAgent(ctx, req.ClientID, req.AgentID); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, clearResp{SessionID: req.ClientID, AgentID: req.AgentID, Message: msgHistoryCleared})
}

// respondError writes the pkg/response envelope matching err.
func (h *handler) respondError(c *gin.Context, err error) {
	status, msg := h.mapError(err)
	switch status {
	case http.StatusNotFound:
		response.NotFound(c, errors.New(msg))
	case http.StatusTooManyRequests:
		response.TooManyRequests(c, errors.New(msg))
	case http.StatusInternalServerError:
		h.l.Errorf(c.Request.Context(), "%s: %v", logPrefixHandler, err)
		response.InternalError(c, err)
	default:
		response.Error(c, errors.New(msg), nil)
	}
}
