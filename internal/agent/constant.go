package agent

// Prompt block labels
const (
	precedingOutputOpen  = "[Previous agent output]"
	precedingOutputClose = "[End of previous agent output]"
	contextHeader        = "[Conversation context]"
)

// rateLimitMarkers are matched case-insensitively against error text.
var rateLimitMarkers = []string{
	"rate limit",
	"rate_limit",
	"ratelimit",
	"too many requests",
	"resource_exhausted",
	"quota",
	"429",
}

// Log prefixes
const (
	logPrefixRespond = "internal.agent.Handle.Respond"
	logPrefixPool    = "internal.agent.Pool"
)
