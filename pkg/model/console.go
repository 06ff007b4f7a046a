package model

import (
	"strings"
	"sync"

	"src.wkbench.dev/pkg/event"
)

// Console collects the output of interpreters. It is safe for concurrent use.
type Console struct {
	mutex sync.Mutex
	sb    strings.Builder
}

func (c *Console) Write(p []byte) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sb.Write(p)
}

// String returns everything written since the last reset.
func (c *Console) String() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.sb.String()
}

// Reset discards the content of the console.
func (c *Console) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sb.Reset()
}

// ResetConsole clears the console and emits ConsoleReset.
func (m *Model) ResetConsole() {
	m.console.Reset()
	m.bus.Notify(event.Event{Kind: event.ConsoleReset})
}
