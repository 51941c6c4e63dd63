package connection

import "time"

// MessageType discriminates outbound and inbound frames.
type MessageType string

const (
	TypeUserMessage        MessageType = "user_message"
	TypeAgentTrace         MessageType = "agent_trace"
	TypeInternalComm       MessageType = "internal_comm"
	TypeError              MessageType = "error"
	TypeDirectAgentMessage MessageType = "direct_agent_message"
	TypeClearHistory       MessageType = "clear_history"
	TypeHistoryCleared     MessageType = "history_cleared"
)

// Message is the envelope of every frame. Timestamp is epoch milliseconds and
// is assigned by the registry when the frame is handed to a channel.
type Message struct {
	Type      MessageType `json:"type"`
	Role      string      `json:"role,omitempty"`
	Content   string      `json:"content,omitempty"`
	Agent     string      `json:"agent,omitempty"`
	AgentID   string      `json:"agent_id,omitempty"`
	From      string      `json:"from,omitempty"`
	To        string      `json:"to,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Stats is a point-in-time view of registry occupancy.
type Stats struct {
	Sessions          int `json:"sessions"`
	BroadcastChannels int `json:"broadcast_channels"`
	PrivateChannels   int `json:"private_channels"`
}

type entry struct {
	ch          Channel
	connectedAt time.Time
}

// deliveryResult is the internal outcome of one delivery attempt.
type deliveryResult int

const (
	resultAbsent deliveryResult = iota
	resultDelivered
	resultEvicted
)

func (r deliveryResult) String() string {
	switch r {
	case resultDelivered:
		return "delivered"
	case resultEvicted:
		return "evicted"
	default:
		return "absent"
	}
}
