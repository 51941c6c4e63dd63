package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multi-agent-collaboration/internal/connection"
)

type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	prompts  []string
	clientID string
	cleared  []string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /process", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ClientID string `json:"client_id"`
			Prompt   string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		fs.mu.Lock()
		fs.prompts = append(fs.prompts, req.Prompt)
		fs.clientID = req.ClientID
		fs.mu.Unlock()

		status := "success"
		if req.Prompt == "fail" {
			status = "error"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": status, "message": "Request processed", "session_id": req.ClientID, "state": "DONE",
		})
	})
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "running", "responder_configured": true, "api_key_configured": false, "archive_enabled": true,
			"channels": map[string]int{"sessions": 1, "broadcast_channels": 1, "private_channels": 2},
		})
	})
	mux.HandleFunc("GET /api/v1/sessions/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"error_code": 404, "message": "session not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error_code": 0,
			"message":    "Success",
			"data": map[string]any{
				"session_id": r.PathValue("id"),
				"turns": []map[string]any{
					{"role": "user", "content": "plan a trip", "timestamp": 1767323045000},
					{"role": "coordinator", "content": "step one", "timestamp": 1767323046000},
				},
			},
		})
	})
	mux.HandleFunc("POST /api/v1/sessions/{id}/agents/{agent}/clear", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.cleared = append(fs.cleared, r.PathValue("id")+":"+r.PathValue("agent"))
		fs.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"error_code": 0, "message": "Success"})
	})
	mux.HandleFunc("GET /ws/{id}", func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(connection.AgentTrace("Coordinator", "step one"))
		_ = conn.WriteJSON(connection.InternalComm("Coordinator", "Research", "handoff"))
		_ = conn.WriteJSON(connection.UserMessage("assistant", "composite"))
		_, _, _ = conn.ReadMessage()
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) snapshot() (prompts []string, clientID string, cleared []string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.prompts...), fs.clientID, append([]string(nil), fs.cleared...)
}

func executeCLI(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func readProfile(t *testing.T, home string) profile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, profileDir, profileFileName))
	require.NoError(t, err)
	var p profile
	require.NoError(t, toml.Unmarshal(data, &p))
	return p
}

func TestProcessPersistsGeneratedClientID(t *testing.T) {
	srv := newFakeServer(t)
	home := t.TempDir()

	stdout, err := executeCLI(t, home, "--server", srv.URL, "process", "plan", "a", "trip")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Request processed")

	p := readProfile(t, home)
	assert.True(t, strings.HasPrefix(p.ClientID, "relayctl-"))
	assert.Equal(t, defaultServer, p.Server)
	prompts, clientID, _ := srv.snapshot()
	assert.Equal(t, []string{"plan a trip"}, prompts)
	assert.Equal(t, p.ClientID, clientID)

	_, err = executeCLI(t, home, "--server", srv.URL, "process", "again")
	require.NoError(t, err)
	_, clientID, _ = srv.snapshot()
	assert.Equal(t, p.ClientID, clientID, "client id is reused from the profile")
}

func TestProcessReportsServerError(t *testing.T) {
	srv := newFakeServer(t)
	_, err := executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "process", "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "process failed")
}

func TestStatus(t *testing.T) {
	srv := newFakeServer(t)
	stdout, err := executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "responder configured: true")
	assert.Contains(t, stdout, "archive enabled: true")
	assert.Contains(t, stdout, "channels: 1 session(s), 1 broadcast, 2 private")

	stdout, err = executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
}

func TestHistory(t *testing.T) {
	srv := newFakeServer(t)
	stdout, err := executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "session c1: 2 turns")
	assert.Contains(t, stdout, "coordinator: step one")

	_, err = executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "missing", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not found")
}

func TestClear(t *testing.T) {
	srv := newFakeServer(t)
	stdout, err := executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "clear", "creative")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Creative history cleared")
	_, _, cleared := srv.snapshot()
	assert.Equal(t, []string{"c1:creative"}, cleared)

	_, err = executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "clear", "ghost")
	require.Error(t, err)
	_, _, cleared = srv.snapshot()
	assert.Len(t, cleared, 1)
}

func TestWatchPrintsFrames(t *testing.T) {
	srv := newFakeServer(t)
	stdout, err := executeCLI(t, t.TempDir(), "--server", srv.URL, "--client-id", "c1", "watch", "--count", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[trace] Coordinator: step one", lines[0])
	assert.Equal(t, "[internal] Coordinator -> Research: handoff", lines[1])
	assert.Equal(t, "[assistant] composite", lines[2])
}

func TestWSURL(t *testing.T) {
	u, err := newClient("https://relay.example.com/base/", "c 1").wsURL("research")
	require.NoError(t, err)
	assert.Equal(t, "wss://relay.example.com/base/ws/c%201/agent/research", u)

	u, err = newClient("http://localhost:8000", "c1").wsURL("")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8000/ws/c1", u)
}

func TestLoadProfileRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\nserver = \"http://x\"\n"), 0o600))
	_, err := loadProfile(path)
	require.Error(t, err)
}
