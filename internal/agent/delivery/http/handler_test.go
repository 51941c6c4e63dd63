package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/agent/orchestrator"
	"multi-agent-collaboration/internal/connection"
	"multi-agent-collaboration/internal/middleware"
	"multi-agent-collaboration/internal/session"
	"multi-agent-collaboration/pkg/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUseCase struct {
	runResult orchestrator.Result
	runErr    error
	runCalls  []string
	runCtx    context.Context

	history    session.Snapshot
	historyErr error

	ended      bool
	clearErr   error
	clearCalls []string
}

func (f *fakeUseCase) Run(ctx context.Context, sessionID, message string) (orchestrator.Result, error) {
	f.runCalls = append(f.runCalls, sessionID+":"+message)
	f.runCtx = ctx
	return f.runResult, f.runErr
}

func (f *fakeUseCase) RunDirect(ctx context.Context, sessionID, agentID, message string) (string, error) {
	return "", nil
}

func (f *fakeUseCase) ClearAgent(ctx context.Context, sessionID, agentID string) error {
	f.clearCalls = append(f.clearCalls, sessionID+":"+agentID)
	return f.clearErr
}

func (f *fakeUseCase) History(ctx context.Context, sessionID string) (session.Snapshot, error) {
	return f.history, f.historyErr
}

func (f *fakeUseCase) EndSession(ctx context.Context, sessionID string) bool {
	return f.ended
}

func (f *fakeUseCase) Expire(ctx context.Context, snap session.Snapshot) {}

type nopChannel struct{}

func (nopChannel) Send(ctx context.Context, msg connection.Message) error { return nil }
func (nopChannel) Close() error { return nil }

func newTestRouter(uc orchestrator.UseCase, throttle Limiter) *gin.Engine {
	return newTestRouterWithRegistry(uc, throttle, connection.New(log.NewNop()))
}

func newTestRouterWithRegistry(uc orchestrator.UseCase, throttle Limiter, registry connection.Registry) *gin.Engine {
	r := gin.New()
	h := New(log.NewNop(), uc, registry, throttle, StatusInfo{ResponderConfigured: true, APIKeyConfigured: true})
	RegisterRoutes(r, r.Group("/api/v1"), h)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		runResult  orchestrator.Result
		runErr     error
		wantCode   int
		wantStatus string
		wantMsg    string
		wantRun    bool
	}{
		{
			name:       "success",
			body:       processReq{ClientID: "c1", Prompt: "plan a trip"},
			runResult:  orchestrator.Result{RunID: "run-1", State: orchestrator.StateDone},
			wantCode:   http.StatusOK,
			wantStatus: statusSuccess,
			wantMsg:    msgProcessed,
			wantRun:    true,
		},
		{
			name:       "creative failed is still success",
			body:       processReq{ClientID: "c1", Prompt: "plan a trip"},
			runResult:  orchestrator.Result{RunID: "run-2", State: orchestrator.StateCreativeFailed},
			wantCode:   http.StatusOK,
			wantStatus: statusSuccess,
			wantMsg:    msgPartial,
			wantRun:    true,
		},
		{
			name: "fatal stage",
			body: processReq{ClientID: "c1", Prompt: "plan a trip"},
			runErr: &orchestrator.StageError{
				State: orchestrator.StateResearch,
				Err:   &agent.ResponderFailure{Agent: "Research", Kind: agent.FailureOther, Err: errors.New("boom")},
			},
			wantCode:   http.StatusOK,
			wantStatus: statusError,
			wantMsg:    fmt.Sprintf(orchestrator.MsgStageFailed, "Research", "boom"),
			wantRun:    true,
		},
		{
			name:       "missing prompt",
			body:       processReq{ClientID: "c1"},
			wantCode:   http.StatusBadRequest,
			wantStatus: statusError,
			wantMsg:    msgMissingFields,
		},
		{
			name:       "malformed body",
			body:       "not an object",
			wantCode:   http.StatusBadRequest,
			wantStatus: statusError,
			wantMsg:    msgMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{runResult: tt.runResult, runErr: tt.runErr}
			w := do(t, newTestRouter(uc, nil), http.MethodPost, "/process", tt.body)

			if w.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			resp := decode[processResp](t, w)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
			if got := len(uc.runCalls) == 1; got != tt.wantRun {
				t.Errorf("run called = %v, want %v", got, tt.wantRun)
			}
			if tt.wantRun && resp.SessionID != "c1" {
				t.Errorf("session_id = %q, want c1", resp.SessionID)
			}
		})
	}
}

func TestProcess_Throttled(t *testing.T) {
	uc := &fakeUseCase{runResult: orchestrator.Result{State: orchestrator.StateDone}}
	r := newTestRouter(uc, middleware.NewThrottle(1))

	body := processReq{ClientID: "c1", Prompt: "hi"}
	if w := do(t, r, http.MethodPost, "/process", body); w.Code != http.StatusOK {
		t.Fatalf("first request code = %d", w.Code)
	}
	w := do(t, r, http.MethodPost, "/process", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request code = %d, want 429", w.Code)
	}
	if len(uc.runCalls) != 1 {
		t.Errorf("run calls = %d, want 1", len(uc.runCalls))
	}
}

func TestProcess_RunOutlivesRequest(t *testing.T) {
	uc := &fakeUseCase{runResult: orchestrator.Result{State: orchestrator.StateDone}}
	r := newTestRouter(uc, nil)

	body, err := json.Marshal(processReq{ClientID: "c1", Prompt: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if len(uc.runCalls) != 1 {
		t.Fatalf("run calls = %d, want 1", len(uc.runCalls))
	}
	if err := uc.runCtx.Err(); err != nil {
		t.Errorf("run context done: %v", err)
	}
}

func TestStatus_ReportsChannels(t *testing.T) {
	ctx := context.Background()
	registry := connection.New(log.NewNop())
	registry.Connect(ctx, "c1", nopChannel{}, connection.BroadcastKey)
	registry.Connect(ctx, "c1", nopChannel{}, "research")
	registry.Connect(ctx, "c2", nopChannel{}, connection.BroadcastKey)

	w := do(t, newTestRouterWithRegistry(&fakeUseCase{}, nil, registry), http.MethodGet, "/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	resp := decode[statusResp](t, w)
	want := channelsResp{Sessions: 2, BroadcastChannels: 2, PrivateChannels: 1}
	if resp.Channels != want {
		t.Errorf("channels = %+v, want %+v", resp.Channels, want)
	}
}

func TestStatus(t *testing.T) {
	w := do(t, newTestRouter(&fakeUseCase{}, nil), http.MethodGet, "/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	resp := decode[statusResp](t, w)
	if resp.Status != statusRunning || !resp.ResponderConfigured || !resp.APIKeyConfigured || resp.ArchiveEnabled {
		t.Errorf("unexpected status %+v", resp)
	}
}

func TestHistory(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	uc := &fakeUseCase{history: session.Snapshot{
		SessionID: "c1",
		CreatedAt: now,
		Turns: []session.Turn{
			{Role: session.RoleUser, Content: "hi", Timestamp: now},
			{Role: session.RoleCoordinator, Content: "plan", Timestamp: now},
		},
		InternalMessages: []session.InternalMessage{
			{From: "Coordinator", To: "Research", Content: "handoff", Timestamp: now},
		},
	}}

	w := do(t, newTestRouter(uc, nil), http.MethodGet, "/api/v1/sessions/c1/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d (%s)", w.Code, w.Body.String())
	}

	body := decode[struct {
		Data struct {
			CreatedAt int64 `json:"created_at"`
			Turns     []struct {
				Role      string `json:"role"`
				Timestamp int64  `json:"timestamp"`
			} `json:"turns"`
			Traces           []json.RawMessage `json:"traces"`
			InternalMessages []struct {
				Message string `json:"message"`
			} `json:"internal_messages"`
		} `json:"data"`
	}](t, w)
	if len(body.Data.Turns) != 2 || body.Data.Turns[1].Role != "coordinator" {
		t.Fatalf("turns = %+v", body.Data.Turns)
	}
	if body.Data.Turns[0].Timestamp != now.UnixMilli() || body.Data.CreatedAt != now.UnixMilli() {
		t.Errorf("timestamps should be epoch millis, got %+v", body.Data)
	}
	if len(body.Data.InternalMessages) != 1 || body.Data.InternalMessages[0].Message != "handoff" {
		t.Errorf("internal messages = %+v", body.Data.InternalMessages)
	}
	if body.Data.Traces == nil {
		t.Error("traces should encode as an empty list")
	}
}

func TestHistory_NotFound(t *testing.T) {
	uc := &fakeUseCase{historyErr: session.ErrSessionNotFound}
	w := do(t, newTestRouter(uc, nil), http.MethodGet, "/api/v1/sessions/c1/history", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestEndSession(t *testing.T) {
	uc := &fakeUseCase{ended: true}
	if w := do(t, newTestRouter(uc, nil), http.MethodDelete, "/api/v1/sessions/c1", nil); w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}

	uc.ended = false
	if w := do(t, newTestRouter(uc, nil), http.MethodDelete, "/api/v1/sessions/c1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", w.Code)
	}
}

func TestClearAgent(t *testing.T) {
	uc := &fakeUseCase{}
	w := do(t, newTestRouter(uc, nil), http.MethodPost, "/api/v1/sessions/c1/agents/research/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	if len(uc.clearCalls) != 1 || uc.clearCalls[0] != "c1:research" {
		t.Errorf("clear calls = %v", uc.clearCalls)
	}

	uc.clearErr = &agent.UnknownAgentError{ID: "ghost"}
	w = do(t, newTestRouter(uc, nil), http.MethodPost, "/api/v1/sessions/c1/agents/ghost/clear", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}
