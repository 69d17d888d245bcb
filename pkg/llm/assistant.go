package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	summarizePrompt = "Summarize this page content in simple points:\n\n%s"

	chatSystemPrompt = "You are a voice assistant embedded in a web browser. " +
		"Answer briefly in plain sentences that read well aloud."

	summaryMaxTokens   = 300
	summaryTemperature = 0.7
)

// Assistant runs the summarization and chat requests of the dispatcher on
// top of a Provider.
type Assistant struct {
	provider   Provider
	summarizer Provider
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithSummarizationModel routes Summarize to a different model when the
// provider supports cloning.
func WithSummarizationModel(model string) AssistantOption {
	return func(a *Assistant) {
		if model == "" || a.provider == nil {
			return
		}
		if cloner, ok := a.provider.(ModelCloner); ok {
			a.summarizer = cloner.CloneWithModel(model)
		}
	}
}

// NewAssistant creates an Assistant. A nil provider yields an Assistant whose
// calls fail with ErrNoProvider.
func NewAssistant(provider Provider, opts ...AssistantOption) *Assistant {
	a := &Assistant{provider: provider, summarizer: provider}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize asks the model for a short bullet summary of content. An empty
// reply is returned as an empty string without error.
func (a *Assistant) Summarize(ctx context.Context, content string) (string, error) {
	if a.summarizer == nil {
		return "", ErrNoProvider
	}

	messages := []*Message{NewUserMessage(fmt.Sprintf(summarizePrompt, content))}
	reply, err := a.summarizer.Complete(ctx, messages, CompletionOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}
	return strings.TrimSpace(reply.Content), nil
}

// Chat answers a freeform prompt.
func (a *Assistant) Chat(ctx context.Context, prompt string) (string, error) {
	if a.provider == nil {
		return "", ErrNoProvider
	}

	messages := []*Message{
		NewSystemMessage(chatSystemPrompt),
		NewUserMessage(prompt),
	}
	reply, err := a.provider.Complete(ctx, messages, CompletionOptions{})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return strings.TrimSpace(reply.Content), nil
}
