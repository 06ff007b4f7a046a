package interp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"src.wkbench.dev/pkg/must"
)

func interpret(t *testing.T, g *Goja, src string) (string, error) {
	t.Helper()
	v, err := g.Interpret(context.Background(), src)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func TestGoja_Values(t *testing.T) {
	g := NewGoja(nil)
	tests := []struct{ src, want string }{
		{"1 + 2", "3"},
		{"'a' + 'b'", "ab"},
		{"var x = 10", NoResult.(fmt.Stringer).String()},
		{"x * 2", "20"},
		{"null", "null"},
	}
	for _, test := range tests {
		got, err := interpret(t, g, test.src)
		if err != nil {
			t.Errorf("Interpret(%q) -> error %v", test.src, err)
			continue
		}
		if got != test.want {
			t.Errorf("Interpret(%q) -> %q, want %q", test.src, got, test.want)
		}
	}
}

func TestGoja_StatementHasNoResult(t *testing.T) {
	v, err := NewGoja(nil).Interpret(context.Background(), "function f() {}")
	if err != nil || v != NoResult {
		t.Errorf("Interpret -> %v, %v, want NoResult", v, err)
	}
}

func TestGoja_Print(t *testing.T) {
	var sb strings.Builder
	g := NewGoja(&sb)
	if _, err := g.Interpret(context.Background(), "print('a', 1, true)"); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "a 1 true\n" {
		t.Errorf("print wrote %q", sb.String())
	}
}

func TestGoja_SyntaxError(t *testing.T) {
	g := NewGoja(nil)
	_, err := g.Interpret(context.Background(), "1 +* 2")
	if err == nil {
		t.Fatal("no error for bad syntax")
	}
	if !g.IsSyntaxError(err) {
		t.Errorf("IsSyntaxError(%v) -> false", err)
	}
}

func TestGoja_RuntimeError(t *testing.T) {
	g := NewGoja(nil)
	_, err := g.Interpret(context.Background(), "undefinedName")
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("got error %#v, want *EvalError", err)
	}
	if !strings.HasPrefix(err.Error(), "ReferenceError") {
		t.Errorf("error message %q, want ReferenceError", err.Error())
	}
	if g.IsSyntaxError(err) {
		t.Errorf("IsSyntaxError -> true for ReferenceError")
	}
}

func TestGoja_ClassPathAndLoad(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	must.WriteFile(filepath.Join(dir2, "lib.js"), "function twice(x) { return 2 * x }; 'loaded'")
	g := NewGoja(nil)
	g.AddClassPath(dir1)
	g.AddClassPath(dir2)

	if got, err := interpret(t, g, "classpath.length"); err != nil || got != "2" {
		t.Errorf("classpath.length -> %q, %v", got, err)
	}
	if got, err := interpret(t, g, "load('lib.js')"); err != nil || got != "loaded" {
		t.Errorf("load -> %q, %v", got, err)
	}
	if got, err := interpret(t, g, "twice(21)"); err != nil || got != "42" {
		t.Errorf("twice(21) -> %q, %v", got, err)
	}
	if _, err := interpret(t, g, "load('missing.js')"); err == nil {
		t.Errorf("load of missing file does not fail")
	}
	if cp := g.ClassPath(); len(cp) != 2 || cp[1] != dir2 {
		t.Errorf("ClassPath() -> %v", cp)
	}
}

func TestGoja_CancelledContextInterrupts(t *testing.T) {
	g := NewGoja(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Interpret(ctx, "for (;;) {}")
	if err == nil {
		t.Fatal("infinite loop with cancelled context returns nil error")
	}
	if got, err := interpret(t, g, "1"); err != nil || got != "1" {
		t.Errorf("interpreter unusable after interrupt: %q, %v", got, err)
	}
}
