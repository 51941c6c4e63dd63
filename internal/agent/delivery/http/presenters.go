package http

import (
	"strings"

	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/pkg/response"
)

// --- Request DTOs ---

type processReq struct {
	ClientID string `json:"client_id"`
	Prompt   string `json:"prompt"`
}

func (r processReq) validate() error {
	if strings.TrimSpace(r.ClientID) == "" || strings.TrimSpace(r.Prompt) == "" {
		return errMissingFields
	}
	return nil
}

// ---

type sessionReq struct {
	ClientID string
}

func (r sessionReq) validate() error {
	if r.ClientID == "" {
		return errMissingClientID
	}
	return nil
}

// ---

type clearReq struct {
	ClientID string
	AgentID  string
}

func (r clearReq) validate() error {
	if r.ClientID == "" {
		return errMissingClientID
	}
	if r.AgentID == "" {
		return errMissingAgentID
	}
	return nil
}

// --- Response DTOs ---

// processResp is the enqueue contract consumed by the frontend.
type processResp struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	RunID     string `json:"run_id,omitempty"`
	State     string `json:"state,omitempty"`
}

func newProcessResp(clientID string, result orchestrator.Result) processResp {
	msg := msgProcessed
	if result.State == orchestrator.StateCreativeFailed {
		msg = msgPartial
	}
	return processResp{
		Status:    statusSuccess,
		Message:   msg,
		SessionID: clientID,
		RunID:     result.RunID,
		State:     string(result.State),
	}
}

func newProcessErrResp(clientID, message string) processResp {
	return processResp{
		Status:    statusError,
		Message:   message,
		SessionID: clientID,
	}
}

// ---

type channelsResp struct {
	Sessions          int `json:"sessions"`
	BroadcastChannels int `json:"broadcast_channels"`
	PrivateChannels   int `json:"private_channels"`
}

type statusResp struct {
	Status              string       `json:"status"`
	ResponderConfigured bool         `json:"responder_configured"`
	APIKeyConfigured    bool         `json:"api_key_configured"`
	ArchiveEnabled      bool         `json:"archive_enabled"`
	Channels            channelsResp `json:"channels"`
}

func (h *handler) newStatusResp() statusResp {
	stats := h.registry.Stats()
	return statusResp{
		Status:              statusRunning,
		ResponderConfigured: h.status.ResponderConfigured,
		APIKeyConfigured:    h.status.APIKeyConfigured,
		ArchiveEnabled:      h.status.ArchiveEnabled,
		Channels: channelsResp{
			Sessions:          stats.Sessions,
			BroadcastChannels: stats.BroadcastChannels,
			PrivateChannels:   stats.PrivateChannels,
		},
	}
}

// ---

type turnResp struct {
	Role      string             `json:"role"`
	Content   string             `json:"content"`
	Timestamp response.UnixMilli `json:"timestamp"`
}

type traceResp struct {
	Agent     string             `json:"agent"`
	Content   string             `json:"content"`
	Timestamp response.UnixMilli `json:"timestamp"`
}

type internalMessageResp struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	Message   string             `json:"message"`
	Timestamp response.UnixMilli `json:"timestamp"`
}

type historyResp struct {
	SessionID        string                `json:"session_id"`
	CreatedAt        response.UnixMilli    `json:"created_at"`
	LastActiveAt     response.UnixMilli    `json:"last_active_at"`
	Turns            []turnResp            `json:"turns"`
	Traces           []traceResp           `json:"traces"`
	InternalMessages []internalMessageResp `json:"internal_messages"`
	Context          map[string]any        `json:"context,omitempty"`
}

func newHistoryResp(snap session.Snapshot) historyResp {
	resp := historyResp{
		SessionID:        snap.SessionID,
		CreatedAt:        response.UnixMilli(snap.CreatedAt),
		LastActiveAt:     response.UnixMilli(snap.LastActiveAt),
		Turns:            make([]turnResp, 0, len(snap.Turns)),
		Traces:           make([]traceResp, 0, len(snap.Traces)),
		InternalMessages: make([]internalMessageResp, 0, len(snap.InternalMessages)),
		Context:          snap.Context,
	}
	for _, t := range snap.Turns {
		resp.Turns = append(resp.Turns, turnResp{Role: string(t.Role), Content: t.Content, Timestamp: response.UnixMilli(t.Timestamp)})
	}
	for _, t := range snap.Traces {
		resp.Traces = append(resp.Traces, traceResp{Agent: t.Agent, Content: t.Content, Timestamp: response.UnixMilli(t.Timestamp)})
	}
	for _, m := range snap.InternalMessages {
		resp.InternalMessages = append(resp.InternalMessages, internalMessageResp{
			From:      m.From,
			To:        m.To,
			Message:   m.Content,
			Timestamp: response.UnixMilli(m.Timestamp),
		})
	}
	return resp
}

// ---

type endSessionResp struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type clearResp struct {
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id"`
	Message   string `json:"message"`
}
