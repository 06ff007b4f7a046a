// Package storedefs contains definitions of the interaction history store
// API.
//
// It is a separate package so that packages that only depend on the API do
// not need to depend on the bbolt-backed implementation.
package storedefs

import "errors"

// ErrNoMatchingEntry is returned when a query for a single entry completes
// with no result.
var ErrNoMatchingEntry = errors.New("no matching history entry")

// Store keeps the history of submitted interactions.
type Store interface {
	NextSeq() (int, error)
	AddEntry(text string) (int, error)
	DelEntry(seq int) error
	Entry(seq int) (string, error)
	Entries(from, upto int) ([]Entry, error)
	NextEntry(from int, prefix string) (Entry, error)
	PrevEntry(upto int, prefix string) (Entry, error)
}

// Entry is one submitted interaction.
type Entry struct {
	Text string
	Seq  int
}
