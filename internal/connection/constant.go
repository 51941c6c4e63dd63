package connection

// BroadcastKey is the agent id under which a session's broadcast channel is held.
const BroadcastKey = ""

// Log prefixes
const (
	logPrefixConnect    = "internal.connection.Connect"
	logPrefixDisconnect = "internal.connection.Disconnect"
	logPrefixDeliver    = "internal.connection.deliver"
	logPrefixDrop       = "internal.connection.DropSession"
)
