package orchestrator

import "multi-agent-collaboration/internal/agent"

// State is the position of a pipeline run.
type State string

const (
	StateStart          State = "START"
	StateCoordinator    State = "COORDINATOR"
	StateResearch       State = "RESEARCH"
	StateCreative       State = "CREATIVE"
	StateDone           State = "DONE"
	StateCreativeFailed State = "CREATIVE_FAILED"
)

// Section is one agent's labeled contribution to a run.
type Section struct {
	Agent   string
	Content string
}

// Result describes a run that reached a terminal state.
type Result struct {
	RunID       string
	State       State
	Sections    []Section
	Composite   string
	CreativeErr error
}

// stage is one step of the fixed pipeline.
type stage struct {
	state State
	agent agent.ID
	// fatal stages abort the run on failure; the others degrade to partial success.
	fatal bool
	// handoff describes the transfer to the following stage, if any.
	handoff string
}

// stages is the pipeline, in order.
var stages = []stage{
	{state: StateCoordinator, agent: agent.IDCoordinator, fatal: true, handoff: HandoffCoordinatorToResearch},
	{state: StateResearch, agent: agent.IDResearch, fatal: true, handoff: HandoffResearchToCreative},
	{state: StateCreative, agent: agent.IDCreative},
}

// nextAgent returns the stage after id, used for direct-mode handoff records.
func nextAgent(id agent.ID) (agent.ID, string, bool) {
	for i, st := range stages {
		if st.agent == id && i+1 < len(stages) {
			return stages[i+1].agent, st.handoff, true
		}
	}
	return "", "", false
}
