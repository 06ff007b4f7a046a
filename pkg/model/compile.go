package model

import (
	"context"
	"fmt"

	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/srcroot"
)

// Compile compiles a document with the active compiler. The second return
// value reports whether a compilation was attempted.
//
// A modified document is saved first by emitting SaveRequested; if it is
// still modified afterwards, or if it has no backing file, nothing happens.
// Otherwise CompileStarted and CompileEnded are emitted around the
// compilation, and if it produced no diagnostics the console and the
// interactive session are reset afterwards.
//
// Problems are always reported in the result: a document whose package does
// not match its location, or a compiler that fails to run, yields a single
// diagnostic without a line or column.
func (m *Model) Compile(ctx context.Context, d *Document) (compiler.Result, bool) {
	if d.Modified() {
		m.bus.Notify(event.Event{Kind: event.SaveRequested, Doc: d, Reason: event.ReasonCompile})
		if d.Modified() {
			logger.Printf("document %d not saved, not compiling", d.id)
			return nil, false
		}
	}
	path := d.Path()
	if path == "" {
		return nil, false
	}

	result := m.compile(ctx, d, path)
	if result.OK() {
		m.ResetConsole()
		m.ResetInteractions()
	}
	return result, true
}

func (m *Model) compile(ctx context.Context, d *Document, path string) compiler.Result {
	m.bus.Notify(event.Event{Kind: event.CompileStarted})
	defer m.bus.Notify(event.Event{Kind: event.CompileEnded})

	root, err := srcroot.Resolve(path, d.buf.PackageName())
	if err != nil {
		return compiler.Result{{File: path, Line: -1, Column: -1, Message: err.Error()}}
	}
	c := m.compilers.Active()
	logger.Printf("compiling %s in %s with %s", path, root, c.Name())
	result, err := c.Compile(ctx, root, []string{path})
	if err != nil {
		return compiler.Result{{File: path, Line: -1, Column: -1,
			Message: fmt.Sprintf("%s failed: %v", c.Name(), err)}}
	}
	logger.Printf("%s: %d diagnostics", path, len(result))
	return result
}

// Compilation is the outcome of an asynchronous compilation.
type Compilation struct {
	Doc    *Document
	Result compiler.Result
	// Whether a compilation was attempted; see Model.Compile.
	Attempted bool
}

// CompileAsync runs Compile in a new goroutine. The outcome is sent on the
// returned channel, which is then closed. Events are emitted from that
// goroutine.
func (m *Model) CompileAsync(ctx context.Context, d *Document) <-chan Compilation {
	ch := make(chan Compilation, 1)
	go func() {
		defer close(ch)
		result, attempted := m.Compile(ctx, d)
		ch <- Compilation{Doc: d, Result: result, Attempted: attempted}
	}()
	return ch
}

// ResetInteractions resets the interactive session with the source roots of
// the open documents as its class path. If any source root cannot be found,
// the class path is left empty.
func (m *Model) ResetInteractions() {
	roots, err := m.SourceRoots()
	if err != nil {
		logger.Println("using empty class path:", err)
		roots = nil
	}
	m.session.Reset(roots)
}
