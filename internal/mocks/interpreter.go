package mocks

import (
	"context"
	"sync"

	"github.com/tarots-ai/tarots-api/internal/interpretation"
)

// MockInterpreter implements interpretation.Interpreter for testing
type MockInterpreter struct {
	// InterpretFn allows test cases to replace the Interpret behaviour
	InterpretFn func(ctx context.Context, req interpretation.Request) (interpretation.Result, error)

	// Default response values
	Result interpretation.Result
	Err    error

	mu       sync.Mutex
	requests []interpretation.Request
}

var _ interpretation.Interpreter = (*MockInterpreter)(nil)

// Interpret implements interpretation.Interpreter.
func (m *MockInterpreter) Interpret(ctx context.Context, req interpretation.Request) (interpretation.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InterpretFn != nil {
		return m.InterpretFn(ctx, req)
	}
	return m.Result, m.Err
}

// Requests returns every request received so far.
func (m *MockInterpreter) Requests() []interpretation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interpretation.Request(nil), m.requests...)
}

// Calls returns how many times Interpret was called.
func (m *MockInterpreter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
