// Package assistant wraps a hosted chat-completion API to turn dashboard
// aggregates into short written recommendations.  The platform has no
// hard dependency on it: when no API key is configured every call fails
// with ErrUnavailable and handlers return aggregates without commentary.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUnavailable is returned when the assistant is not configured or
// the upstream API cannot produce a response.
var ErrUnavailable = errors.New("ai assistant unavailable")

// Assistant holds the chat client.  A nil client marks the assistant as
// disabled.
type Assistant struct {
	client *openai.Client
	model  string
}

// New builds an Assistant.  An empty API key yields a disabled instance
// rather than an error so the rest of the platform starts normally.
func New(apiKey, model string) *Assistant {
	if apiKey == "" {
		return &Assistant{}
	}
	return &Assistant{client: openai.NewClient(apiKey), model: model}
}

// Enabled reports whether the assistant can reach the API.
func (a *Assistant) Enabled() bool { return a.client != nil }

// Domain personas mirror the dashboard split: each domain gets a system
// prompt framing the same aggregate data differently.
var personas = map[string]string{
	"incident": "You are a cybersecurity analyst. Given a summary of current security incidents, give three short, concrete recommendations for the security team.",
	"dataset":  "You are a data governance advisor. Given a summary of the datasets on the platform, give three short, concrete recommendations about storage and data quality.",
	"ticket":   "You are an IT operations manager. Given a summary of current support tickets, give three short, concrete recommendations to improve resolution times.",
}

// Summarize forwards a domain aggregate summary to the model and
// returns its commentary.  Fails with ErrUnavailable when disabled or
// when the API errors; callers treat that as "no commentary".
func (a *Assistant) Summarize(ctx context.Context, domain, summary string) (string, error) {
	if !a.Enabled() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("empty summary")
	}
	persona, ok := personas[domain]
	if !ok {
		return "", fmt.Errorf("unknown domain %q", domain)
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(domain, summary)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrUnavailable
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt renders the user message sent alongside the persona.
// Exported for tests; it contains no secrets.
func BuildPrompt(domain, summary string) string {
	return fmt.Sprintf("Current %s summary:\n%s\n\nKeep the advice under 120 words.", domain, summary)
}
