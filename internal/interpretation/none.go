package interpretation

import "context"

// Unavailable is the Interpreter used when no provider is configured.
type Unavailable struct{}

var _ Interpreter = Unavailable{}

// Interpret always returns ErrUnavailable.
func (Unavailable) Interpret(context.Context, Request) (Result, error) {
	return Result{}, ErrUnavailable
}
