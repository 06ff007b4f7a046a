//go:build unix

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"src.wkbench.dev/pkg/prog"
	"src.wkbench.dev/pkg/prog/progtest"
	"src.wkbench.dev/pkg/testutil"
)

func TestProgram_Terminal(t *testing.T) {
	ctrl, tty := progtest.SetupTerminal(t)
	out := &syncBuffer{}
	go io.Copy(out, ctrl)

	dir := testutil.TempDir(t)
	flags := &prog.Flags{Config: filepath.Join(dir, "none.yaml")}
	done := make(chan error, 1)
	go func() { done <- Program{}.Run([3]*os.File{tty, tty, tty}, flags, nil) }()

	waitFor(t, out, "> ")
	ctrl.WriteString("1 + 2\n")
	waitFor(t, out, "3\r\n> ")
	ctrl.WriteString(":new\n:append x\n:quit\n")
	waitFor(t, out, "untitled has unsaved changes. Discard them? [y/N] ")
	ctrl.WriteString("y\n")

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run -> %v", err)
		}
	case <-time.After(testutil.Scaled(5 * time.Second)):
		t.Fatalf("program did not quit; output so far:\n%s", out.String())
	}
}

func waitFor(t *testing.T, out *syncBuffer, s string) {
	t.Helper()
	deadline := time.Now().Add(testutil.Scaled(5 * time.Second))
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), s) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q; output so far:\n%s", s, out.String())
}

type syncBuffer struct {
	mutex sync.Mutex
	buf   bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.String()
}
