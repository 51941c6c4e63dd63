package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"multi-agent-collaboration/internal/connection"
)

const (
	// processTimeout covers a full three-agent run.
	processTimeout = 5 * time.Minute
	requestTimeout = 15 * time.Second
)

// client talks to one server on behalf of one client id.
type client struct {
	server   string
	clientID string
	http     *http.Client
	dialer   *websocket.Dialer
}

func newClient(server, clientID string) *client {
	return &client{
		server:   strings.TrimRight(server, "/"),
		clientID: clientID,
		http:     &http.Client{},
		dialer:   websocket.DefaultDialer,
	}
}

type processResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	RunID     string `json:"run_id"`
	State     string `json:"state"`
}

type statusResult struct {
	Status              string         `json:"status"`
	ResponderConfigured bool           `json:"responder_configured"`
	APIKeyConfigured    bool           `json:"api_key_configured"`
	ArchiveEnabled      bool           `json:"archive_enabled"`
	Channels            statusChannels `json:"channels"`
}

type statusChannels struct {
	Sessions          int `json:"sessions"`
	BroadcastChannels int `json:"broadcast_channels"`
	PrivateChannels   int `json:"private_channels"`
}

type historyTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type historyTrace struct {
	Agent     string `json:"agent"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type historyInternal struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type historyResult struct {
	SessionID        string            `json:"session_id"`
	Turns            []historyTurn     `json:"turns"`
	Traces           []historyTrace    `json:"traces"`
	InternalMessages []historyInternal `json:"internal_messages"`
}

// envelope is the server's standard JSON body.
type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

func (c *client) Process(ctx context.Context, prompt string) (processResult, error) {
	ctx, cancel := context.WithTimeout(ctx, processTimeout)
	defer cancel()

	var out processResult
	body := map[string]string{"client_id": c.clientID, "prompt": prompt}
	// /process answers with its own body on every status code.
	_, err := c.do(ctx, http.MethodPost, "/process", body, &out)
	return out, err
}

func (c *client) Status(ctx context.Context) (statusResult, error) {
	var out statusResult
	_, err := c.do(ctx, http.MethodGet, "/status", nil, &out)
	return out, err
}

func (c *client) History(ctx context.Context) (historyResult, error) {
	var out historyResult
	err := c.doEnvelope(ctx, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(c.clientID)+"/history", &out)
	return out, err
}

func (c *client) Clear(ctx context.Context, agentID string) error {
	path := fmt.Sprintf("/api/v1/sessions/%s/agents/%s/clear", url.PathEscape(c.clientID), url.PathEscape(agentID))
	return c.doEnvelope(ctx, http.MethodPost, path, nil)
}

// Watch streams frames of the session channel, or of one agent channel when
// agentID is set, until ctx ends, the server closes, or onFrame returns false.
func (c *client) Watch(ctx context.Context, agentID string, onFrame func(connection.Message) bool) error {
	wsURL, err := c.wsURL(agentID)
	if err != nil {
		return err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		var msg connection.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if !onFrame(msg) {
			return nil
		}
	}
}

func (c *client) wsURL(agentID string) (string, error) {
	u, err := url.Parse(c.server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + c.clientID
	if agentID != "" {
		u.Path += "/agent/" + agentID
	}
	return u.String(), nil
}

func (c *client) doEnvelope(ctx context.Context, method, path string, out any) error {
	var env envelope
	status, err := c.do(ctx, method, path, nil, &env)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest || env.ErrorCode != 0 {
		return fmt.Errorf("%s %s: %d %s", method, path, status, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return resp.StatusCode, nil
}
