package agent

import (
	"context"
	"strings"

	"multi-agent-collaboration/pkg/llmprovider"
)

// Generator is the slice of llmprovider.Manager used by LLMResponder.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// LLMOptions tunes generation for every agent.
type LLMOptions struct {
	Temperature float64
	MaxTokens   int
}

// LLMResponder is the Responder backed by the configured LLM providers.
type LLMResponder struct {
	llm  Generator
	opts LLMOptions
}

func NewLLMResponder(llm Generator, opts LLMOptions) *LLMResponder {
	return &LLMResponder{llm: llm, opts: opts}
}

func (r *LLMResponder) Respond(ctx context.Context, req ResponderRequest) (string, error) {
	messages := make([]llmprovider.Message, len(req.History))
	for i, turn := range req.History {
		messages[i] = llmprovider.Message{Role: turn.Role, Content: turn.Content}
	}

	resp, err := r.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: req.System,
		Messages:          messages,
		Temperature:       r.opts.Temperature,
		MaxTokens:         r.opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
