package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"multi-agent-collaboration/pkg/openai"
)

func TestClient_GenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req openai.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch req.Messages[len(req.Messages)-1].Content {
		case "cause_429":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"Rate limit reached for requests","type":"requests"}}`))
			return
		case "cause_500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`upstream exploded`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "` + req.Model + `",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "mocked answer"}}],
			"usage": {"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10}
		}`))
	}))
	defer ts.Close()

	client, err := openai.New(openai.Config{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Success Flow", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Message{{Role: "user", Content: "Hello"}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Choices[0].Message.Content != "mocked answer" {
			t.Errorf("unexpected content: %s", resp.Choices[0].Message.Content)
		}
		if resp.Model != openai.DefaultModel {
			t.Errorf("expected default model to be filled in, got %s", resp.Model)
		}
		if resp.Usage.TotalTokens != 10 {
			t.Errorf("expected 10 total tokens, got %d", resp.Usage.TotalTokens)
		}
	})

	t.Run("Rate Limited Flow", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Message{{Role: "user", Content: "cause_429"}},
		})
		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if !apiErr.RateLimited() {
			t.Errorf("expected rate limited error")
		}
		if apiErr.Message != "Rate limit reached for requests" {
			t.Errorf("expected parsed error message, got %q", apiErr.Message)
		}
	})

	t.Run("Server Error Flow", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &openai.Request{
			Messages: []openai.Message{{Role: "user", Content: "cause_500"}},
		})
		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.RateLimited() {
			t.Errorf("500 must not count as rate limited")
		}
		if apiErr.Message != "upstream exploded" {
			t.Errorf("expected raw body as message, got %q", apiErr.Message)
		}
	})
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := openai.New(openai.Config{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
