package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float32 // nil -> provider default
}

// ChatResponse carries the assistant message. Message is nil when the provider
// returned no usable choice.
type ChatResponse struct {
	Message *Message
}

// ChatClient is the transport the Structurer depends on.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
