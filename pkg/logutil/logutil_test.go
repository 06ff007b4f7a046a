package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetLogger_WritesToOutputWithPrefix(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	var buf bytes.Buffer
	logger := GetLogger("[test] ")
	SetOutput(&buf)

	logger.Println("hello")

	if got := buf.String(); !strings.Contains(got, "[test] ") || !strings.HasSuffix(got, "hello\n") {
		t.Errorf("got log %q, want prefix [test] and message hello", got)
	}
}

func TestSetOutputFile(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })
	fname := filepath.Join(t.TempDir(), "log")
	logger := GetLogger("[file] ")

	if err := SetOutputFile(fname); err != nil {
		t.Fatal(err)
	}
	logger.Println("to file")
	SetOutputFile("")

	content, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "to file") {
		t.Errorf("log file has %q, want it to contain %q", content, "to file")
	}
}

func TestSetOutputFile_BadPath(t *testing.T) {
	err := SetOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "log"))
	if err == nil {
		t.Errorf("SetOutputFile with bad path returns nil error")
	}
}
