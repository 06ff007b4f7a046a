// Package sys provides terminal and signal utilities with the same API
// across OSes.
package sys

import (
	"context"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WinSize queries the size of the terminal referenced by the given file. It
// returns -1, -1 if the file is not a terminal.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// NotifyInterrupt returns a context that is cancelled when the process
// receives an interrupt, and a function to stop listening. Interrupts do not
// terminate the process until the function is called.
func NotifyInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
