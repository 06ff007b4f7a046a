package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/srcroot"
	"src.wkbench.dev/pkg/textbuf"
)

// Document is an open document. Documents are created by the Model and stay
// valid after they are closed, but a closed document is no longer part of
// the model.
type Document struct {
	m   *Model
	id  int
	buf textbuf.Buffer
	// Guarded by m.mutex.
	path string

	saveMutex sync.Mutex
}

var _ event.Document = (*Document)(nil)

// ID returns a number identifying the document within its model.
func (d *Document) ID() int { return d.id }

// Path returns the absolute path of the file backing the document, or "" if
// the document is untitled.
func (d *Document) Path() string {
	d.m.mutex.Lock()
	defer d.m.mutex.Unlock()
	return d.path
}

// IsUntitled reports whether the document has no backing file.
func (d *Document) IsUntitled() bool { return d.Path() == "" }

// Modified reports whether the document has changed since it was last saved
// or opened.
func (d *Document) Modified() bool { return d.buf.Modified() }

// Buffer returns the text buffer of the document.
func (d *Document) Buffer() textbuf.Buffer { return d.buf }

// Cursor returns the cursor offset.
func (d *Document) Cursor() int { return d.buf.Cursor() }

// SetCursor moves the cursor.
func (d *Document) SetCursor(offset int) { d.buf.SetCursor(offset) }

// GotoLine moves the cursor to the start of a 1-based line and returns the
// new offset. Lines past the end are treated as the last line.
func (d *Document) GotoLine(line int) int {
	d.buf.SetCursor(textbuf.LineOffset(d.buf.Text(), line))
	return d.buf.Cursor()
}

// SourceRoot returns the source root of the document, as determined by the
// package it declares.
func (d *Document) SourceRoot() (string, error) {
	return srcroot.Resolve(d.Path(), d.buf.PackageName())
}

// CanAbandon reports whether the changes of the document may be discarded.
// Unmodified documents can always be abandoned; otherwise every listener is
// asked and any of them can refuse.
func (d *Document) CanAbandon() bool {
	if !d.Modified() {
		return true
	}
	return d.m.bus.Poll(event.Query{Kind: event.AbandonQuery, Doc: d})
}

// Save saves the document to its file. Untitled documents are saved to the
// file chosen by sel, like SaveAs.
func (d *Document) Save(sel Selector) error {
	if path := d.Path(); path != "" {
		sel = PathSelector(path)
	}
	return d.SaveAs(sel)
}

// SaveAs saves the document to the file chosen by sel, which becomes the
// backing file of the document, and emits DocumentSaved. Cancelling sel is
// not an error; nothing is saved. Saving to the file of another open document
// fails with an *AlreadyOpenError.
func (d *Document) SaveAs(sel Selector) error {
	path, err := selectPath(sel)
	if errors.Is(err, ErrCancelled) {
		return nil
	} else if err != nil {
		return err
	}
	if other := d.m.FindByPath(path); other != nil && other != d {
		return &AlreadyOpenError{Doc: other}
	}

	d.saveMutex.Lock()
	err = writeFile(path, d.buf)
	if err == nil {
		d.buf.MarkSaved()
		err = d.m.setPath(d, path)
	}
	d.saveMutex.Unlock()
	if err != nil {
		return err
	}

	logger.Printf("saved document %d to %s", d.id, path)
	d.m.bus.Notify(event.Event{Kind: event.DocumentSaved, Doc: d})
	return nil
}

// Compile compiles the document. See Model.Compile.
func (d *Document) Compile(ctx context.Context) (compiler.Result, bool) {
	return d.m.Compile(ctx, d)
}

func (d *Document) String() string {
	if path := d.Path(); path != "" {
		return path
	}
	return fmt.Sprintf("untitled-%d", d.id)
}

func writeFile(path string, buf textbuf.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot save document: %w", err)
	}
	err = buf.Write(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("cannot save document: %w", err)
	}
	return nil
}
