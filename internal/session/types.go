package session

import (
	"sync"
	"time"
)

// Role identifies the author of a session turn.
type Role string

const (
	RoleUser         Role = "user"
	RoleCoordinator  Role = "coordinator"
	RoleObserverNote Role = "observer-note"
)

type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type Trace struct {
	Agent     string    `json:"agent"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type InternalMessage struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the conversational state of one client. All access goes through
// its accessors; the Store serializes mutations.
type Session struct {
	id string

	mu           sync.RWMutex
	createdAt    time.Time
	lastActiveAt time.Time
	turns        []Turn
	traces       []Trace
	internal     []InternalMessage
	context      map[string]any
}

// Snapshot is an immutable copy of a Session.
type Snapshot struct {
	SessionID        string            `json:"session_id"`
	CreatedAt        time.Time         `json:"created_at"`
	LastActiveAt     time.Time         `json:"last_active_at"`
	Turns            []Turn            `json:"turns"`
	Traces           []Trace           `json:"traces"`
	InternalMessages []InternalMessage `json:"internal_messages"`
	Context          map[string]any    `json:"context"`
}
