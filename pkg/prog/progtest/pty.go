//go:build unix

package progtest

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

// SetupTerminal opens a pseudo-terminal for testing programs that behave
// differently on terminals. It returns the controlling side, where the test
// writes input and reads output, and the terminal side, which is passed to
// the program. Both are closed when the test finishes.
func SetupTerminal(t *testing.T) (ctrl, tty *os.File) {
	ctrl, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ctrl.Close()
	})
	return ctrl, tty
}
