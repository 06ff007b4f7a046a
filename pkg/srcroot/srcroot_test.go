package srcroot

import (
	"errors"
	"strings"
	"testing"

	"src.wkbench.dev/pkg/tt"
)

func TestResolve(t *testing.T) {
	tt.Test(t, tt.Fn("Resolve", Resolve), tt.Table{
		tt.Args("/a/b/com/x/Y.java", "com.x").Rets("/a/b", nil),
		tt.Args("/a/b/com/x/Y.java", "com/x").Rets("/a/b", nil),
		tt.Args("/a/b/com/x/Y.java", "").Rets("/a/b/com/x", nil),
		tt.Args("/a/b/com/x/Y.java", "x").Rets("/a/b/com", nil),
		tt.Args("/com/x/Y.java", "com.x").Rets("/", nil),

		tt.Args("/a/b/com/y/Y.java", "com.x").Rets("",
			&InvalidPackageError{File: "/a/b/com/y/Y.java", Want: "x", Got: "y"}),
		tt.Args("/a/b/org/x/Y.java", "com.x").Rets("",
			&InvalidPackageError{File: "/a/b/org/x/Y.java", Want: "com", Got: "org"}),
		tt.Args("/x/Y.java", "com.x").Rets("",
			&InvalidPackageError{File: "/x/Y.java", Want: "com"}),
		tt.Args("", "com.x").Rets("", &InvalidPackageError{}),
		tt.Args("", "").Rets("", &InvalidPackageError{}),
	})
}

func TestResolve_ErrorNamesMismatch(t *testing.T) {
	_, err := Resolve("/a/b/com/y/Y.java", "com.x")
	var invalid *InvalidPackageError
	if !errors.As(err, &invalid) {
		t.Fatalf("got error %v, want *InvalidPackageError", err)
	}
	msg := err.Error()
	for _, want := range []string{"/a/b/com/y/Y.java", "directory name y", "package component x"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q does not contain %q", msg, want)
		}
	}
	if invalid.Line() != -1 {
		t.Errorf("Line() -> %d, want -1", invalid.Line())
	}
}

func TestSplit(t *testing.T) {
	tt.Test(t, tt.Fn("Split", Split), tt.Table{
		tt.Args("").Rets([]string{}),
		tt.Args("com").Rets([]string{"com"}),
		tt.Args("com.x.y").Rets([]string{"com", "x", "y"}),
		tt.Args("com/x").Rets([]string{"com", "x"}),
		tt.Args("com..x.").Rets([]string{"com", "x"}),
	})
}
