// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.wkbench.dev/pkg/store/storedefs"
)

var (
	pfx     = "+ pfx"
	entries = []string{pfx + " 1", pfx + " 2", "non-pfx 3", "non-pfx 4"}
)

// TestEntries tests the entry API of a storedefs.Store, which must be empty.
func TestEntries(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextSeq() -> %v, %v, want 1, nil", startSeq, err)
	}

	for i, text := range entries {
		wantSeq := startSeq + i
		seq, err := store.AddEntry(text)
		if seq != wantSeq || err != nil {
			t.Errorf("store.AddEntry(%v) -> %v, %v, want %v, nil", text, seq, err, wantSeq)
		}
		seq, err = store.NextSeq()
		if seq != wantSeq+1 || err != nil {
			t.Errorf("store.NextSeq() -> %v, %v, want %v, nil", seq, err, wantSeq+1)
		}
		got, err := store.Entry(seq - 1)
		if got != text || err != nil {
			t.Errorf("store.Entry(%v) -> %v, %v, want %v, nil", seq-1, got, err, text)
		}
	}

	all, err := store.Entries(0, 100)
	if err != nil {
		t.Errorf("store.Entries -> error %v", err)
	}
	want := make([]storedefs.Entry, len(entries))
	for i, text := range entries {
		want[i] = storedefs.Entry{Text: text, Seq: startSeq + i}
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("store.Entries (-want +got):\n%s", diff)
	}

	tests := []struct {
		name    string
		fn      func(int, string) (storedefs.Entry, error)
		seq     int
		prefix  string
		want    storedefs.Entry
		wantErr error
	}{
		{"NextEntry", store.NextEntry, 1, pfx, storedefs.Entry{Text: entries[0], Seq: 1}, nil},
		{"NextEntry", store.NextEntry, 2, pfx, storedefs.Entry{Text: entries[1], Seq: 2}, nil},
		{"NextEntry", store.NextEntry, 3, pfx, storedefs.Entry{}, storedefs.ErrNoMatchingEntry},
		{"PrevEntry", store.PrevEntry, 5, pfx, storedefs.Entry{Text: entries[1], Seq: 2}, nil},
		{"PrevEntry", store.PrevEntry, 100, "non", storedefs.Entry{Text: entries[3], Seq: 4}, nil},
		{"PrevEntry", store.PrevEntry, 1, pfx, storedefs.Entry{}, storedefs.ErrNoMatchingEntry},
	}
	for _, test := range tests {
		got, err := test.fn(test.seq, test.prefix)
		if got != test.want || !matchErr(err, test.wantErr) {
			t.Errorf("store.%s(%v, %q) -> %v, %v, want %v, %v",
				test.name, test.seq, test.prefix, got, err, test.want, test.wantErr)
		}
	}

	if err := store.DelEntry(1); err != nil {
		t.Errorf("store.DelEntry(1) -> error %v", err)
	}
	if _, err := store.Entry(1); !matchErr(err, storedefs.ErrNoMatchingEntry) {
		t.Errorf("store.Entry(1) after deletion -> error %v, want %v", err, storedefs.ErrNoMatchingEntry)
	}
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}
