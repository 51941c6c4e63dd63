package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
)

// peer is one accepted socket. A single worker runs its frames in arrival
// order so the read loop keeps draining the socket during a run.
type peer struct {
	h        *handler
	conn     *websocket.Conn
	ch       *connection.WSChannel
	clientID string
	// agentID is connection.BroadcastKey for the session channel.
	agentID string

	jobs chan frame
	gone atomic.Bool
}

func (h *handler) newPeer(conn *websocket.Conn, clientID, agentID string) *peer {
	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}
	return &peer{
		h:        h,
		conn:     conn,
		ch:       connection.NewWSChannel(conn, h.cfg.WriteTimeout),
		clientID: clientID,
		agentID:  agentID,
		jobs:     make(chan frame, pendingFrames),
	}
}

// serve registers the channel, reads until the socket fails, then releases it.
// Runs already started finish after disconnect; queued ones are dropped.
func (p *peer) serve(ctx context.Context) {
	h := p.h
	h.registry.Connect(ctx, p.clientID, p.ch, p.agentID)
	h.l.Infof(ctx, "%s: connected client=%s agent=%q", logPrefixServe, p.clientID, p.agentID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for f := range p.jobs {
			if p.gone.Load() {
				continue
			}
			p.run(ctx, f)
		}
	}()

	p.readLoop(ctx)

	p.gone.Store(true)
	close(p.jobs)
	h.registry.Release(ctx, p.clientID, p.agentID, p.ch)
	_ = p.ch.Close()
	h.l.Infof(ctx, "%s: disconnected client=%s agent=%q", logPrefixServe, p.clientID, p.agentID)

	if p.agentID == connection.BroadcastKey && h.teardown.Load() {
		<-done
		if !h.registry.IsConnected(p.clientID, connection.BroadcastKey) {
			h.uc.EndSession(ctx, p.clientID)
		}
	}
}

func (p *peer) readLoop(ctx context.Context) {
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				p.h.l.Debugf(ctx, "%s: read client=%s: %v", logPrefixServe, p.clientID, err)
			}
			return
		}

		f, err := parseFrame(data)
		if err != nil {
			p.reply(ctx, connection.ErrorMessage(fmt.Sprintf(msgMalformedFrame, err)))
			continue
		}
		p.accept(ctx, f)
	}
}

// accept validates a frame and either handles it inline or queues it for the worker.
func (p *peer) accept(ctx context.Context, f frame) {
	if !p.allowed(f.Type) {
		p.reply(ctx, connection.ErrorMessage(fmt.Sprintf(msgUnsupportedFrame, f.Type)))
		return
	}

	if f.Type == connection.TypeClearHistory {
		if err := p.h.uc.ClearAgent(ctx, p.clientID, p.agentID); err != nil {
			p.reply(ctx, connection.ErrorMessage(err.Error()))
		}
		return
	}

	if p.h.throttle != nil {
		if err := p.h.throttle.Allow(p.clientID); err != nil {
			p.h.l.Warnf(ctx, "%s: %v", logPrefixServe, err)
			p.reply(ctx, connection.ErrorMessage(msgThrottled))
			return
		}
	}

	select {
	case p.jobs <- f:
	default:
		p.reply(ctx, connection.ErrorMessage(msgQueueFull))
	}
}

// allowed lists the inbound frame types of each channel kind.
func (p *peer) allowed(t connection.MessageType) bool {
	if p.agentID == connection.BroadcastKey {
		return t == connection.TypeUserMessage || t == connection.TypeDirectAgentMessage
	}
	return t == connection.TypeUserMessage || t == connection.TypeClearHistory
}

// run executes a queued frame. The orchestrator reports its own failures to
// observers; only errors raised before a run starts are answered here.
func (p *peer) run(ctx context.Context, f frame) {
	h := p.h
	var err error
	switch {
	case p.agentID != connection.BroadcastKey:
		_, err = h.uc.RunDirect(ctx, p.clientID, p.agentID, f.Content)
	case f.Type == connection.TypeDirectAgentMessage:
		_, err = h.uc.RunDirect(ctx, p.clientID, f.AgentID, f.Content)
	default:
		_, err = h.uc.Run(ctx, p.clientID, f.Content)
	}
	if err == nil {
		return
	}

	h.l.Warnf(ctx, "%s: client=%s agent=%q type=%s: %v", logPrefixServe, p.clientID, p.agentID, f.Type, err)
	if errors.Is(err, agent.ErrUnknownAgent) {
		p.reply(ctx, connection.ErrorMessage(fmt.Sprintf(msgUnknownAgent, f.AgentID)))
	}
}

// reply answers on this socket only.
func (p *peer) reply(ctx context.Context, msg connection.Message) {
	if err := p.ch.Send(ctx, stamped(msg)); err != nil {
		p.h.l.Debugf(ctx, "%s: reply client=%s: %v", logPrefixServe, p.clientID, err)
	}
}

func stamped(msg connection.Message) connection.Message {
	msg.Timestamp = time.Now().UnixMilli()
	return msg
}
