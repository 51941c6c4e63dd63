package http

const (
	statusSuccess = "success"
	statusError   = "error"
	statusRunning = "running"

	msgProcessed       = "Request processed"
	msgPartial         = "Request processed without the Creative agent"
	msgMissingFields   = "Missing client_id or prompt"
	msgThrottled       = "Too many requests for this client, slow down"
	msgSessionNotFound = "session not found"
	msgSessionEnded    = "session ended"
	msgHistoryCleared  = "history cleared"
)

// Log prefixes
const (
	logPrefixProcess = "internal.agent.delivery.http.Process"
	logPrefixHandler = "internal.agent.delivery.http"
)
