package agent

import (
	"context"
	"slices"
	"sync"

	pkgLog "multi-agent-collaboration/pkg/log"
)

// Handle binds one Responder to a private turn history. Calls on the same
// Handle are serialized.
type Handle struct {
	id        ID
	persona   Persona
	responder Responder
	l         pkgLog.Logger

	mu      sync.Mutex
	history []Turn
}

func NewHandle(persona Persona, responder Responder, l pkgLog.Logger) *Handle {
	return &Handle{
		id:        persona.ID,
		persona:   persona,
		responder: responder,
		l:         l,
	}
}

func (h *Handle) ID() ID {
	return h.id
}

func (h *Handle) Name() string {
	return h.persona.Name
}

// Respond sends message, decorated with sessionCtx and preceding output, to the
// Responder together with every earlier turn. The user turn stays recorded
// even when the Responder fails; there is no internal retry.
func (h *Handle) Respond(ctx context.Context, message string, sessionCtx map[string]any, preceding string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prompt := composePrompt(message, sessionCtx, preceding)
	h.history = append(h.history, Turn{Role: RoleUser, Content: prompt})

	reply, err := h.responder.Respond(ctx, ResponderRequest{
		Agent:   h.persona.Name,
		System:  h.persona.System,
		History: slices.Clone(h.history),
	})
	if err != nil {
		failure := &ResponderFailure{Agent: h.persona.Name, Kind: ClassifyFailure(err), Err: err}
		h.l.Warnf(ctx, "%s: %v", logPrefixRespond, failure)
		return "", failure
	}

	h.history = append(h.history, Turn{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// ClearHistory drops every recorded turn.
func (h *Handle) ClearHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = nil
}

// History returns a copy of the recorded turns.
func (h *Handle) History() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.history)
}
