package agent

import "context"

// ID is the wire identifier of an agent, as used in channel paths and frames.
type ID string

const (
	IDCoordinator ID = "task_manager"
	IDResearch    ID = "research"
	IDCreative    ID = "creative"
)

// Display names carried in agent_trace and internal_comm frames.
const (
	NameCoordinator = "Coordinator"
	NameResearch    = "Research"
	NameCreative    = "Creative"
)

// IDs lists the agents in pipeline order.
func IDs() []ID {
	return []ID{IDCoordinator, IDResearch, IDCreative}
}

// Name returns the display name of id.
func (id ID) Name() string {
	switch id {
	case IDCoordinator:
		return NameCoordinator
	case IDResearch:
		return NameResearch
	case IDCreative:
		return NameCreative
	default:
		return string(id)
	}
}

// ParseID validates s against the fixed agent set.
func ParseID(s string) (ID, error) {
	switch id := ID(s); id {
	case IDCoordinator, IDResearch, IDCreative:
		return id, nil
	default:
		return "", &UnknownAgentError{ID: s}
	}
}

// Turn roles of an agent's private history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of an agent's private history.
type Turn struct {
	Role    string
	Content string
}

// ResponderRequest is everything a Responder sees for one call.
type ResponderRequest struct {
	Agent   string
	System  string
	History []Turn
}

// Responder turns a conversation into the agent's next reply.
type Responder interface {
	Respond(ctx context.Context, req ResponderRequest) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, req ResponderRequest) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, req ResponderRequest) (string, error) {
	return f(ctx, req)
}

// Persona is the standing instruction of one agent.
type Persona struct {
	ID     ID     `yaml:"id"`
	Name   string `yaml:"name"`
	System string `yaml:"system"`
}
