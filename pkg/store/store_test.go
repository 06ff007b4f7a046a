package store_test

import (
	"path/filepath"
	"testing"

	"src.wkbench.dev/pkg/store"
	"src.wkbench.dev/pkg/store/storetest"
)

func openTemp(t *testing.T) (store.DBStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return st, path
}

func TestEntries(t *testing.T) {
	st, _ := openTemp(t)
	defer st.Close()
	storetest.TestEntries(t, st)
}

func TestEntriesPersistAcrossOpen(t *testing.T) {
	st, path := openTemp(t)
	st.AddEntry("first")
	st.AddEntry("second")
	st.Close()

	st, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	entries, err := st.Entries(0, 100)
	if err != nil || len(entries) != 2 || entries[1].Text != "second" {
		t.Errorf("Entries after reopening -> %v, %v", entries, err)
	}
	if seq, _ := st.NextSeq(); seq != 3 {
		t.Errorf("NextSeq after reopening -> %d, want 3", seq)
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := store.Open(filepath.Join(t.TempDir(), "no", "such", "dir", "db"))
	if err == nil {
		t.Errorf("Open with bad path returns nil error")
	}
}
