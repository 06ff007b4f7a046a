package session

// History is the list of submitted interactions plus a cursor used to recall
// them. The cursor is in [0, len(entries)]; len(entries) means that no entry
// is recalled and the line being edited is a new one.
type History struct {
	entries []string
	cursor  int
	// The line being edited when recalling started; restored when moving
	// past the newest entry.
	saved string
}

// NewHistory returns a History with the given entries, oldest first.
func NewHistory(entries ...string) *History {
	return &History{entries: entries, cursor: len(entries)}
}

// Add appends an entry and moves the cursor to the end.
func (h *History) Add(entry string) {
	h.entries = append(h.entries, entry)
	h.ResetCursor()
}

// ResetCursor moves the cursor to the end without touching the entries.
func (h *History) ResetCursor() {
	h.cursor = len(h.entries)
	h.saved = ""
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// HasPrevious reports whether there is an older entry to recall.
func (h *History) HasPrevious() bool { return h.cursor > 0 }

// HasNext reports whether there is a newer entry, or the saved edit line, to
// move to.
func (h *History) HasNext() bool { return h.cursor < len(h.entries) }

// Previous moves the cursor one entry back and returns that entry. current is
// the line being edited; it is saved when leaving the end of the history. It
// must only be called when HasPrevious returns true.
func (h *History) Previous(current string) string {
	if h.cursor == len(h.entries) {
		h.saved = current
	}
	h.cursor--
	return h.entries[h.cursor]
}

// Next moves the cursor one entry forward and returns that entry, or the
// saved edit line when moving past the newest entry. It must only be called
// when HasNext returns true.
func (h *History) Next() string {
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.saved
	}
	return h.entries[h.cursor]
}
