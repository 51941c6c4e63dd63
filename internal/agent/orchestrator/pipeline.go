package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/session"
	pkgLog "multi-agent-collaboration/pkg/log"
)

// Run drives START → COORDINATOR → RESEARCH → CREATIVE → DONE for one message.
// Each stage's frames are delivered before the next stage starts. A Creative
// failure ends in CREATIVE_FAILED and still returns a nil error.
func (o *Orchestrator) Run(ctx context.Context, sessionID, message string) (Result, error) {
	result := Result{RunID: o.newRunID(), State: StateStart}
	ctx = pkgLog.WithTraceID(ctx, result.RunID)

	if strings.TrimSpace(message) == "" {
		o.registry.Send(ctx, sessionID, connection.ErrorMessage(MsgEmptyMessage), connection.BroadcastKey)
		return result, ErrEmptyMessage
	}

	team, err := o.pool.Acquire(ctx, sessionID)
	if err != nil {
		o.registry.Send(ctx, sessionID, connection.ErrorMessage(MsgBusy), connection.BroadcastKey)
		return result, err
	}
	defer o.pool.Done(ctx, sessionID, team)
	// Agents start every run without memory of earlier runs.
	defer team.ClearAll()

	sess := o.sessions.GetOrCreate(ctx, sessionID)
	o.appendTurn(ctx, sessionID, session.RoleUser, message)
	o.registry.Send(ctx, sessionID, connection.UserMessage(RoleUser, message), connection.BroadcastKey)

	o.l.Infof(ctx, "%s: session=%s start", LogPrefixRun, sessionID)

	var c carry
	for _, st := range stages {
		result.State = st.state
		handle := team.Handle(st.agent)

		out, err := handle.Respond(ctx, message, sess.Context(), c.render())
		if err != nil {
			if st.fatal {
				o.failStage(ctx, sessionID, st, err)
				return result, &StageError{State: st.state, Err: err}
			}
			o.recoverStage(ctx, sessionID, st, err)
			result.State = StateCreativeFailed
			result.CreativeErr = err
			continue
		}

		o.recordStage(ctx, sessionID, st, out)
		c = c.with(Section{Agent: st.agent.Name(), Content: out})
	}

	if result.State != StateCreativeFailed {
		result.State = StateDone
	}

	o.recordHandoffs(ctx, sessionID)

	result.Sections = c.sections
	result.Composite = c.render()
	o.registry.Send(ctx, sessionID, connection.UserMessage(RoleAssistant, result.Composite), connection.BroadcastKey)

	o.l.Infof(ctx, "%s: session=%s state=%s", LogPrefixRun, sessionID, result.State)
	return result, nil
}

// recordStage stores and broadcasts a successful stage output.
func (o *Orchestrator) recordStage(ctx context.Context, sessionID string, st stage, out string) {
	name := st.agent.Name()
	if st.agent == agent.IDCoordinator {
		o.appendTurn(ctx, sessionID, session.RoleCoordinator, out)
	}
	if err := o.sessions.AppendTrace(ctx, sessionID, name, out); err != nil {
		o.l.Debugf(ctx, "%s: trace of %s not stored: %v", LogPrefixRun, name, err)
	}
	o.registry.BroadcastToSession(ctx, sessionID, connection.AgentTrace(name, out))
}

// recoverStage downgrades a non-fatal failure: an error frame, then a trace
// carrying the error text.
func (o *Orchestrator) recoverStage(ctx context.Context, sessionID string, st stage, err error) {
	name := st.agent.Name()
	o.l.Warnf(ctx, "%s: session=%s %s failed, continuing: %v", LogPrefixRun, sessionID, name, err)

	notice := creativeNotice(err)
	o.appendTurn(ctx, sessionID, session.RoleObserverNote, notice)
	o.registry.Send(ctx, sessionID, connection.ErrorMessage(notice), connection.BroadcastKey)

	text := fmt.Sprintf("Error: %v", err)
	if appendErr := o.sessions.AppendTrace(ctx, sessionID, name, text); appendErr != nil {
		o.l.Debugf(ctx, "%s: trace of %s not stored: %v", LogPrefixRun, name, appendErr)
	}
	o.registry.BroadcastToSession(ctx, sessionID, connection.AgentTrace(name, text))
}

// failStage reports a fatal failure on the session broadcast channel.
func (o *Orchestrator) failStage(ctx context.Context, sessionID string, st stage, err error) {
	name := st.agent.Name()
	o.l.Errorf(ctx, "%s: session=%s %s failed: %v", LogPrefixRun, sessionID, name, err)

	o.registry.Send(ctx, sessionID, connection.ErrorMessage(failureMessage(name, err)), connection.BroadcastKey)
}

// recordHandoffs stores and broadcasts one internal_comm per stage transition.
func (o *Orchestrator) recordHandoffs(ctx context.Context, sessionID string) {
	for i, st := range stages {
		if st.handoff == "" || i+1 >= len(stages) {
			continue
		}
		o.handoff(ctx, sessionID, st.agent, stages[i+1].agent, st.handoff)
	}
}

func (o *Orchestrator) handoff(ctx context.Context, sessionID string, from, to agent.ID, content string) {
	if err := o.sessions.AppendInternalMessage(ctx, sessionID, from.Name(), to.Name(), content); err != nil {
		o.l.Debugf(ctx, "%s: handoff %s->%s not stored: %v", LogPrefixRun, from, to, err)
	}
	o.registry.BroadcastToSession(ctx, sessionID, connection.InternalComm(from.Name(), to.Name(), content))
}

func (o *Orchestrator) appendTurn(ctx context.Context, sessionID string, role session.Role, content string) {
	if err := o.sessions.AppendTurn(ctx, sessionID, role, content); err != nil {
		o.l.Debugf(ctx, "%s: %s turn not stored: %v", LogPrefixRun, role, err)
	}
}

func creativeNotice(err error) string {
	if agent.ClassifyFailure(err) == agent.FailureRateLimited {
		return MsgCreativeRateLimited
	}
	return fmt.Sprintf(MsgCreativeFailed, unwrapFailure(err))
}

// unwrapFailure strips the ResponderFailure wrapper for user-facing text.
func unwrapFailure(err error) error {
	var failure *agent.ResponderFailure
	if errors.As(err, &failure) {
		return failure.Err
	}
	return err
}

// FailureMessage renders a failed run or direct call for a user. Responder
// failures name the agent; other errors are returned as text.
func FailureMessage(err error) string {
	var failure *agent.ResponderFailure
	if !errors.As(err, &failure) {
		return err.Error()
	}
	return failureMessage(failure.Agent, failure)
}

func failureMessage(name string, err error) string {
	if agent.ClassifyFailure(err) == agent.FailureRateLimited {
		return fmt.Sprintf(MsgStageRateLimited, name)
	}
	return fmt.Sprintf(MsgStageFailed, name, unwrapFailure(err))
}
