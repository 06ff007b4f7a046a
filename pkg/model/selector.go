package model

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrCancelled is returned by a Selector when the choice was cancelled.
var ErrCancelled = errors.New("cancelled")

// Selector chooses the file to open or save to.
type Selector interface {
	// Select returns the chosen path, or ErrCancelled.
	Select() (string, error)
}

// SelectorFunc adapts a function to a Selector.
type SelectorFunc func() (string, error)

func (f SelectorFunc) Select() (string, error) { return f() }

// PathSelector is a Selector that always chooses the same path.
type PathSelector string

func (p PathSelector) Select() (string, error) { return string(p), nil }

// AlreadyOpenError is returned when a file to open, or to save to, is
// already open as another document.
type AlreadyOpenError struct {
	Doc *Document
}

func (e *AlreadyOpenError) Error() string {
	return fmt.Sprintf("%s is already open", e.Doc.Path())
}

// Runs a selector and makes the chosen path absolute.
func selectPath(sel Selector) (string, error) {
	path, err := sel.Select()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.New("no file chosen")
	}
	return filepath.Abs(path)
}
