package connection

// UserMessage builds a user_message frame. role is "user" for echoes and "assistant" for composites.
func UserMessage(role, content string) Message {
	return Message{Type: TypeUserMessage, Role: role, Content: content}
}

func AgentTrace(agent, content string) Message {
	return Message{Type: TypeAgentTrace, Agent: agent, Content: content}
}

func InternalComm(from, to, content string) Message {
	return Message{Type: TypeInternalComm, From: from, To: to, Content: content}
}

// ErrorMessage builds an error frame carrying a user-readable message.
func ErrorMessage(message string) Message {
	return Message{Type: TypeError, Message: message}
}

func DirectAgentMessage(agentID, content string) Message {
	return Message{Type: TypeDirectAgentMessage, AgentID: agentID, Content: content}
}

func HistoryCleared(agentID string) Message {
	return Message{Type: TypeHistoryCleared, AgentID: agentID}
}
