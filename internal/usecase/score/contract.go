package score

import "context"

// Chat message roles accepted by Completer implementations.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat turn sent to the reranking model.
type Message struct {
	Role    string
	Content string
}

// Completer runs a chat completion and returns the raw model output.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
