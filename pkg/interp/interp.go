// Package interp defines the interpreter service used by the interactive
// session, and provides an implementation backed by an embedded JavaScript
// engine.
package interp

import "context"

// Interpreter evaluates source text.
type Interpreter interface {
	// Interpret evaluates src. It returns NoResult when the evaluation
	// completed without a value to display.
	Interpret(ctx context.Context, src string) (any, error)
	// AddClassPath adds a directory where code referenced by evaluated source
	// is looked up.
	AddClassPath(path string)
}

// Factory creates fresh interpreters. The session calls it on every reset,
// since interpreters are replaced rather than cleared.
type Factory func() Interpreter

// SyntaxClassifier is implemented by interpreters that can tell syntax errors
// apart from other evaluation failures.
type SyntaxClassifier interface {
	IsSyntaxError(err error) bool
}

type noResult struct{}

func (noResult) String() string { return "<no result>" }

// NoResult is returned by Interpret when there is nothing to display, for
// example after a statement that is not an expression.
var NoResult any = noResult{}

// EvalError is an evaluation failure with the message shown to the user. The
// underlying error is kept for classification.
type EvalError struct {
	Msg string
	Err error
}

func (e *EvalError) Error() string { return e.Msg }
func (e *EvalError) Unwrap() error { return e.Err }
