// Package compiler defines the compiler service used by the model, and
// provides an implementation that runs an external compiler process.
package compiler

import (
	"context"
	"fmt"
	"strings"
)

// Error is one diagnostic produced by a compilation. Line and Column are
// 1-based, or -1 when unknown.
type Error struct {
	File    string
	Line    int
	Column  int
	Message string
	Warning bool
}

// String formats the error like "file:line:column: message", leaving out the
// parts that are unknown.
func (e Error) String() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	if e.Line >= 0 {
		fmt.Fprintf(&sb, "%d:", e.Line)
		if e.Column >= 0 {
			fmt.Fprintf(&sb, "%d:", e.Column)
		}
	}
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	if e.Warning {
		sb.WriteString("warning: ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// Result is the outcome of a compilation. An empty Result means success.
type Result []Error

// OK reports whether the compilation succeeded.
func (r Result) OK() bool { return len(r) == 0 }

// Errors returns the number of entries that are not warnings.
func (r Result) Errors() int {
	n := 0
	for _, e := range r {
		if !e.Warning {
			n++
		}
	}
	return n
}

// Compiler is a compiler service.
type Compiler interface {
	// Name identifies the compiler in configuration and user interfaces.
	Name() string
	// Available reports whether the compiler can be used.
	Available() bool
	// Compile compiles files against the given source root. Diagnostics are
	// reported in the Result; the error is reserved for failures to run the
	// compiler at all.
	Compile(ctx context.Context, root string, files []string) (Result, error)
}

// NoCompiler is the placeholder used when no real compiler is available.
// Every compilation fails with one error saying so.
var NoCompiler Compiler = noCompiler{}

type noCompiler struct{}

func (noCompiler) Name() string    { return "none" }
func (noCompiler) Available() bool { return true }

func (noCompiler) Compile(_ context.Context, _ string, files []string) (Result, error) {
	file := ""
	if len(files) > 0 {
		file = files[0]
	}
	return Result{{File: file, Line: -1, Column: -1, Message: "no compiler available"}}, nil
}
