package compiler

import (
	"context"
	"testing"

	"src.wkbench.dev/pkg/tt"
)

func TestError_String(t *testing.T) {
	tt.Test(t, tt.Fn("Error.String", Error.String), tt.Table{
		tt.Args(Error{File: "/a/A.java", Line: 3, Column: 7, Message: "bad"}).
			Rets("/a/A.java:3:7: bad"),
		tt.Args(Error{File: "/a/A.java", Line: 3, Column: -1, Message: "bad"}).
			Rets("/a/A.java:3: bad"),
		tt.Args(Error{File: "/a/A.java", Line: -1, Column: -1, Message: "bad"}).
			Rets("/a/A.java: bad"),
		tt.Args(Error{Line: -1, Column: -1, Message: "bad", Warning: true}).
			Rets("warning: bad"),
	})
}

func TestResult(t *testing.T) {
	var empty Result
	if !empty.OK() {
		t.Errorf("empty Result is not OK")
	}
	r := Result{{Message: "w", Warning: true}, {Message: "e"}}
	if r.OK() {
		t.Errorf("non-empty Result is OK")
	}
	if r.Errors() != 1 {
		t.Errorf("Errors() -> %d, want 1", r.Errors())
	}
}

func TestNoCompiler(t *testing.T) {
	result, err := NoCompiler.Compile(context.Background(), "/a", []string{"/a/A.java"})
	if err != nil {
		t.Fatal(err)
	}
	want := Result{{File: "/a/A.java", Line: -1, Column: -1, Message: "no compiler available"}}
	tt.Test(t, tt.Fn("identity", func(r Result) Result { return r }), tt.Table{
		tt.Args(result).Rets(want),
	})
}

type fakeCompiler struct {
	name      string
	available bool
}

func (c *fakeCompiler) Name() string    { return c.name }
func (c *fakeCompiler) Available() bool { return c.available }
func (c *fakeCompiler) Compile(context.Context, string, []string) (Result, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	a := &fakeCompiler{"a", false}
	b := &fakeCompiler{"b", true}
	c := &fakeCompiler{"c", true}
	r := NewRegistry(a, b, c)

	if got := r.Available(); len(got) != 2 || got[0] != b || got[1] != c {
		t.Errorf("Available() -> %v, want [b c]", got)
	}
	if r.Active() != b {
		t.Errorf("Active() -> %v, want b", r.Active())
	}
	r.SetActive(c)
	if r.Active() != c {
		t.Errorf("Active() after SetActive(c) -> %v, want c", r.Active())
	}
	if got, ok := r.Lookup("c"); !ok || got != c {
		t.Errorf("Lookup(c) -> %v, %v", got, ok)
	}
	if _, ok := r.Lookup("a"); ok {
		t.Errorf("Lookup finds unavailable compiler")
	}
}

func TestRegistry_NeverEmpty(t *testing.T) {
	r := NewRegistry(&fakeCompiler{"a", false})
	got := r.Available()
	if len(got) != 1 || got[0] != NoCompiler {
		t.Errorf("Available() -> %v, want [NoCompiler]", got)
	}
	if r.Active() != NoCompiler {
		t.Errorf("Active() -> %v, want NoCompiler", r.Active())
	}
}
