package websocket

import (
	"encoding/json"
	"fmt"
	"strings"

	"multi-agent-collaboration/internal/connection"
)

// frame is an inbound client frame.
type frame struct {
	Type    connection.MessageType `json:"type"`
	Content string                 `json:"content"`
	AgentID string                 `json:"agent_id,omitempty"`
}

func parseFrame(data []byte) (frame, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if strings.TrimSpace(string(f.Type)) == "" {
		return f, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}
	return f, nil
}
