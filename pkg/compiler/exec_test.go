package compiler

import (
	"context"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.wkbench.dev/pkg/testutil"
)

func TestParseOutput(t *testing.T) {
	out := `/src/com/x/A.java:3: error: cannot find symbol
    foo();
    ^
/src/com/x/A.java:10:5: warning: [deprecation] bar() is deprecated
B.java:1: ';' expected
2 errors
`
	want := Result{
		{File: "/src/com/x/A.java", Line: 3, Column: -1, Message: "cannot find symbol"},
		{File: "/src/com/x/A.java", Line: 10, Column: 5,
			Message: "[deprecation] bar() is deprecated", Warning: true},
		{File: "B.java", Line: 1, Column: -1, Message: "';' expected"},
	}
	if diff := cmp.Diff(want, ParseOutput(out)); diff != "" {
		t.Errorf("ParseOutput (-want +got):\n%s", diff)
	}
}

func TestParseOutput_Empty(t *testing.T) {
	if got := ParseOutput(""); got != nil {
		t.Errorf("ParseOutput(\"\") -> %v, want nil", got)
	}
}

func skipUnlessSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
}

func TestExec_ReportsDiagnostics(t *testing.T) {
	skipUnlessSh(t)
	root := testutil.TempDir(t)
	c := &Exec{ID: "fake", Command: "sh", Args: []string{"-c",
		`for f; do echo "$f:2: error: broken in $(pwd)"; done; exit 1`, "fakec"}}

	result, err := c.Compile(context.Background(), root, []string{"A.java", "B.java"})
	if err != nil {
		t.Fatal(err)
	}
	want := Result{
		{File: "A.java", Line: 2, Column: -1, Message: "broken in " + root},
		{File: "B.java", Line: 2, Column: -1, Message: "broken in " + root},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Compile (-want +got):\n%s", diff)
	}
	if c.Name() != "fake" {
		t.Errorf("Name() -> %q, want fake", c.Name())
	}
}

func TestExec_SuccessIsEmpty(t *testing.T) {
	skipUnlessSh(t)
	c := NewExec("sh", "-c", "exit 0", "fakec")
	result, err := c.Compile(context.Background(), testutil.TempDir(t), []string{"A.java"})
	if err != nil || len(result) != 0 {
		t.Errorf("Compile -> %v, %v, want empty result and nil error", result, err)
	}
}

func TestExec_FailureWithoutDiagnostics(t *testing.T) {
	skipUnlessSh(t)
	c := NewExec("sh", "-c", "echo something went wrong; exit 3", "fakec")
	result, err := c.Compile(context.Background(), testutil.TempDir(t), []string{"A.java"})
	if err != nil {
		t.Fatal(err)
	}
	want := Result{{Line: -1, Column: -1, Message: "something went wrong"}}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Compile (-want +got):\n%s", diff)
	}
}

func TestExec_MissingCommand(t *testing.T) {
	c := NewExec("/no/such/compiler")
	if c.Available() {
		t.Errorf("Available() -> true for missing command")
	}
	if c.Name() != "compiler" {
		t.Errorf("Name() -> %q, want compiler", c.Name())
	}
	if _, err := c.Compile(context.Background(), testutil.TempDir(t), nil); err == nil {
		t.Errorf("Compile with missing command returns nil error")
	}
}
