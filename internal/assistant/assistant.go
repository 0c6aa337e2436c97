// Package assistant produces replies for the built-in chat assistant.
package assistant

import (
	"context"
	"errors"
)

const (
	DefaultModel = "gpt-3.5-turbo"

	conversationPrompt = "You are a conversation assistant. Be descriptive and helpful"
	welcomePrompt      = "You are a helpful assistant that welcomes users to the chat."

	// WelcomeFallback is stored when the responder cannot produce a greeting.
	WelcomeFallback = "Welcome to Encrypto-Chat! I'm your friendly chatbot. How can I assist you today?"
)

var ErrEmptyReply = errors.New("assistant: empty reply")

type Responder interface {
	Reply(ctx context.Context, userMessage string) (string, error)
	Welcome(ctx context.Context, firstName string) (string, error)
}

// Static answers without calling out. Used when no API key is configured.
type Static struct{}

func (Static) Reply(_ context.Context, userMessage string) (string, error) {
	return "I'm not connected to a language model right now, but I received: " + userMessage, nil
}

func (Static) Welcome(_ context.Context, _ string) (string, error) {
	return WelcomeFallback, nil
}
