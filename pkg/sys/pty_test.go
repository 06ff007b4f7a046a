//go:build unix

package sys

import (
	"testing"

	"github.com/creack/pty"
	"src.wkbench.dev/pkg/must"
)

func TestIsATTY_PTY(t *testing.T) {
	ctrl, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer ctrl.Close()
	defer tty.Close()

	if !IsATTY(tty) {
		t.Errorf("pty not reported as a terminal")
	}
	must.OK(pty.Setsize(tty, &pty.Winsize{Rows: 30, Cols: 100}))
	if row, col := WinSize(tty); row != 30 || col != 100 {
		t.Errorf("WinSize -> %d, %d, want 30, 100", row, col)
	}
}
