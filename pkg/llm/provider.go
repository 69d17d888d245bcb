// Package llm provides abstractions for the language-model services used to
// summarize page content and answer freeform chat prompts.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	assistant := llm.NewAssistant(provider)
//	summary, err := assistant.Summarize(ctx, pageText)
package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned by an Assistant without a configured provider.
var ErrNoProvider = errors.New("LLM provider not available")

// MessageRole identifies the author of a message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem is an instruction message.
	RoleUser      MessageRole = "user"      // RoleUser is a message from the user.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is a model reply.
)

// Message is one turn of a completion request.
type Message struct {
	Role    MessageRole
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// CompletionOptions tunes a single completion request. Zero values leave the
// provider defaults in place.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// Provider defines the interface for LLM integrations.
type Provider interface {
	// Complete sends messages to the LLM and returns the full response.
	Complete(ctx context.Context, messages []*Message, opts CompletionOptions) (*Message, error)

	// GetModel returns the model name being used.
	GetModel() string
}

// ModelCloner is an optional interface that providers can implement to
// support per-call model overrides. The returned provider shares credentials
// and transport with the original.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}
