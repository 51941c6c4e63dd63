package session

// Log prefixes
const (
	logPrefixStore   = "internal.session.Store"
	logPrefixSweeper = "internal.session.Sweeper"
)
