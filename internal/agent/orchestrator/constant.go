package orchestrator

// Log prefixes
const (
	LogPrefixRun        = "internal.agent.orchestrator.Run"
	LogPrefixRunDirect  = "internal.agent.orchestrator.RunDirect"
	LogPrefixClearAgent = "internal.agent.orchestrator.ClearAgent"
	LogPrefixEndSession = "internal.agent.orchestrator.EndSession"
	LogPrefixExpire     = "internal.agent.orchestrator.Expire"
)

// Frame roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User-visible messages
const (
	MsgCreativeRateLimited = "The Creative agent is rate limited by the language model provider. Showing the Coordinator and Research results only."
	MsgCreativeFailed      = "The Creative agent could not respond (%v). Showing the Coordinator and Research results only."
	MsgStageFailed         = "The %s agent failed: %v"
	MsgStageRateLimited    = "The %s agent is rate limited by the language model provider. Please try again shortly."
	MsgEmptyMessage        = "Message is empty."
	MsgBusy                = "A request for this session is already running."
)

// Handoff descriptions for internal_comm records
const (
	HandoffCoordinatorToResearch = "Coordinator handed its plan to Research for fact finding."
	HandoffResearchToCreative    = "Research handed the plan and findings to Creative for presentation."
)

// Composite section heading
const sectionHeading = "### %s\n%s"
