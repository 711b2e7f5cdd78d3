package interpretation

import "context"

// Role tags a prompt message.
type Role string

// Possible message roles
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged entry of a prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is what an Interpreter receives.
type Request struct {
	Messages []Message

	// Model overrides the provider's configured model when set.
	Model string
}

// Result is the interpretation text and the model that wrote it.
type Result struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Interpreter defines the interface for obtaining an interpretation of a
// prompt from an external language model.
//
// Implementations own their transport, retries and timeouts. Errors wrap one
// of the sentinels in errors.go.
type Interpreter interface {
	Interpret(ctx context.Context, req Request) (Result, error)
}
