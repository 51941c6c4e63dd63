package orchestrator

import (
	"context"
	"strings"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/session"
	pkgLog "multi-agent-collaboration/pkg/log"
)

// RunDirect invokes exactly one agent with the raw message. The reply goes to
// the agent's private channel, or to the session broadcast channel when no
// private observer is attached. Coordinator and Research replies also produce
// one internal_comm handoff record.
func (o *Orchestrator) RunDirect(ctx context.Context, sessionID, agentID, message string) (string, error) {
	ctx = pkgLog.WithTraceID(ctx, o.newRunID())

	id, err := agent.ParseID(agentID)
	if err != nil {
		return "", err
	}
	target := o.directTarget(sessionID, id)

	if strings.TrimSpace(message) == "" {
		o.registry.Send(ctx, sessionID, connection.ErrorMessage(MsgEmptyMessage), target)
		return "", ErrEmptyMessage
	}

	team, err := o.pool.Acquire(ctx, sessionID)
	if err != nil {
		o.registry.Send(ctx, sessionID, connection.ErrorMessage(MsgBusy), target)
		return "", err
	}
	defer o.pool.Done(ctx, sessionID, team)

	sess := o.sessions.GetOrCreate(ctx, sessionID)
	o.appendTurn(ctx, sessionID, session.RoleUser, message)

	out, err := team.Handle(id).Respond(ctx, message, sess.Context(), "")
	if err != nil {
		o.l.Warnf(ctx, "%s: session=%s agent=%s: %v", LogPrefixRunDirect, sessionID, id, err)
		o.registry.Send(ctx, sessionID, connection.ErrorMessage(failureMessage(id.Name(), err)), target)
		return "", err
	}

	if err := o.sessions.AppendTrace(ctx, sessionID, id.Name(), out); err != nil {
		o.l.Debugf(ctx, "%s: trace not stored: %v", LogPrefixRunDirect, err)
	}
	o.registry.Send(ctx, sessionID, connection.DirectAgentMessage(string(id), out), target)

	if next, content, ok := nextAgent(id); ok {
		o.handoff(ctx, sessionID, id, next, content)
	}

	return out, nil
}

// ClearAgent empties one agent's private history and acknowledges on its
// channel. A session without a team has nothing to clear and gets no team.
func (o *Orchestrator) ClearAgent(ctx context.Context, sessionID, agentID string) error {
	id, err := agent.ParseID(agentID)
	if err != nil {
		return err
	}

	if team, ok := o.pool.Lookup(sessionID); ok {
		team.Handle(id).ClearHistory()
	}
	o.registry.Send(ctx, sessionID, connection.HistoryCleared(string(id)), string(id))

	o.l.Debugf(ctx, "%s: session=%s agent=%s", LogPrefixClearAgent, sessionID, id)
	return nil
}

func (o *Orchestrator) directTarget(sessionID string, id agent.ID) string {
	if o.registry.IsConnected(sessionID, string(id)) {
		return string(id)
	}
	return connection.BroadcastKey
}
