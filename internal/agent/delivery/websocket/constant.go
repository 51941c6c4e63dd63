package websocket

const (
	readBufferSize  = 1024
	writeBufferSize = 1024

	// pendingFrames bounds the run requests queued behind the one in flight.
	pendingFrames = 8
)

// User-visible messages
const (
	msgMalformedFrame   = "Could not read frame (%v)."
	msgUnsupportedFrame = "Unsupported frame type %q on this channel."
	msgThrottled        = "Too many messages, slow down."
	msgQueueFull        = "Too many pending messages, wait for the current run to finish."
	msgUnknownAgent     = "Unknown agent %q."
)

// Log prefixes
const (
	logPrefixSession = "internal.agent.delivery.websocket.Session"
	logPrefixAgent   = "internal.agent.delivery.websocket.Agent"
	logPrefixServe   = "internal.agent.delivery.websocket.serve"
)
