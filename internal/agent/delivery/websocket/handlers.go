package websocket

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/pkg/response"
)

// Session godoc
// @Summary     Session channel
// @Description Upgrades to a websocket receiving every broadcast of the session. Accepts user_message and direct_agent_message frames.
// @Tags        Channels
// @Param       client_id path string true "Client id"
// @Success     101
// @Router      /ws/{client_id} [GET]
func (h *handler) Session(c *gin.Context) {
	clientID := strings.TrimSpace(c.Param("client_id"))
	if clientID == "" {
		response.Error(c, ErrMissingClientID, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Warnf(c.Request.Context(), "%s: upgrade client=%s: %v", logPrefixSession, clientID, err)
		return
	}

	p := h.newPeer(conn, clientID, connection.BroadcastKey)
	p.serve(context.WithoutCancel(c.Request.Context()))
}

// Agent godoc
// @Summary     Agent channel
// @Description Upgrades to a websocket scoped to one agent of the session. Accepts user_message and clear_history frames. An unknown agent gets an error frame and a policy-violation close.
// @Tags        Channels
// @Param       client_id path string true "Client id"
// @Param       agent_id  path string true "Agent id" Enums(task_manager, research, creative)
// @Success     101
// @Router      /ws/{client_id}/agent/{agent_id} [GET]
func (h *handler) Agent(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := strings.TrimSpace(c.Param("client_id"))
	if clientID == "" {
		response.Error(c, ErrMissingClientID, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.l.Warnf(ctx, "%s: upgrade client=%s: %v", logPrefixAgent, clientID, err)
		return
	}

	id, err := agent.ParseID(c.Param("agent_id"))
	if err != nil {
		h.l.Warnf(ctx, "%s: client=%s: %v", logPrefixAgent, clientID, err)
		ch := connection.NewWSChannel(conn, h.cfg.WriteTimeout)
		_ = ch.Send(ctx, stamped(connection.ErrorMessage(fmt.Sprintf(msgUnknownAgent, c.Param("agent_id")))))
		_ = ch.CloseWith(websocket.ClosePolicyViolation, err.Error())
		return
	}

	p := h.newPeer(conn, clientID, string(id))
	p.serve(context.WithoutCancel(ctx))
}
