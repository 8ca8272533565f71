// Package llm wraps the external language-model services (completion and
// query embedding) behind small injectable interfaces so the draft engine
// can be exercised with mocks.
package llm

import (
	"context"
)

// Role of a chat message
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single role-tagged chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a bounded chat-completion request
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int32
}

// CompletionClient generates text from a chat-completion request
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// EmbeddingClient generates query embeddings for semantic retrieval
type EmbeddingClient interface {
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
}
