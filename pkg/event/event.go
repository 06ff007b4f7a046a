// Package event implements the listener bus of the model.
//
// Notifications are delivered with Bus.Notify, which calls every listener in
// subscription order. Yes-or-no questions are asked with Bus.Poll, which asks
// every listener, also in subscription order, and combines the answers with a
// logical AND. A single listener can thus veto a decision.
package event

import "fmt"

// Kind is the kind of an Event.
type Kind int

// Possible values of Kind.
const (
	DocumentCreated Kind = iota
	DocumentOpened
	DocumentClosed
	DocumentSaved
	CompileStarted
	CompileEnded
	ConsoleReset
	SessionReset
	SaveRequested
)

var kindNames = [...]string{
	DocumentCreated: "document-created",
	DocumentOpened:  "document-opened",
	DocumentClosed:  "document-closed",
	DocumentSaved:   "document-saved",
	CompileStarted:  "compile-started",
	CompileEnded:    "compile-ended",
	ConsoleReset:    "console-reset",
	SessionReset:    "session-reset",
	SaveRequested:   "save-requested",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// SaveReason is the reason carried by a SaveRequested event.
type SaveReason int

// Possible values of SaveReason.
const (
	NoReason SaveReason = iota
	ReasonCompile
)

func (r SaveReason) String() string {
	switch r {
	case ReasonCompile:
		return "compile"
	default:
		return "none"
	}
}

// Document is the view of an open document carried by events. Listeners that
// need the full document type-assert it to the concrete type of the model.
type Document interface {
	Path() string
	IsUntitled() bool
	Modified() bool
}

// Event is a notification. Doc is set for the document events and
// SaveRequested; Reason is set only for SaveRequested.
type Event struct {
	Kind   Kind
	Doc    Document
	Reason SaveReason
}

func (e Event) String() string {
	switch {
	case e.Kind == SaveRequested:
		return fmt.Sprintf("%v(%s, %v)", e.Kind, docName(e.Doc), e.Reason)
	case e.Doc != nil:
		return fmt.Sprintf("%v(%s)", e.Kind, docName(e.Doc))
	default:
		return e.Kind.String()
	}
}

// QueryKind is the kind of a Query.
type QueryKind int

// Possible values of QueryKind.
const (
	// AbandonQuery asks whether the in-memory changes of Doc may be
	// discarded.
	AbandonQuery QueryKind = iota
)

func (k QueryKind) String() string {
	if k == AbandonQuery {
		return "abandon-query"
	}
	return fmt.Sprintf("query(%d)", int(k))
}

// Query is a yes-or-no question asked of all listeners.
type Query struct {
	Kind QueryKind
	Doc  Document
}

func (q Query) String() string {
	return fmt.Sprintf("%v(%s)", q.Kind, docName(q.Doc))
}

func docName(d Document) string {
	if d == nil {
		return "<nil>"
	}
	if d.IsUntitled() {
		return "untitled"
	}
	return d.Path()
}
