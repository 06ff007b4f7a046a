package rpc

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"src.wkbench.dev/pkg/compiler"
)

func TestDiagnosticsOf(t *testing.T) {
	root := filepath.FromSlash("/proj/src")
	fallback := filepath.Join(root, "com", "x", "Y.java")
	other := filepath.Join(root, "com", "x", "Z.java")
	result := compiler.Result{
		{File: "", Line: -1, Column: -1, Message: "no file"},
		{File: filepath.Join("com", "x", "Z.java"), Line: 3, Column: 7, Message: "relative"},
		{File: other, Line: 1, Column: -1, Message: "absolute", Warning: true},
	}

	got := diagnosticsOf(result, fallback, root, "javac")

	at := func(line, char int) lsp.Range {
		pos := lsp.Position{Line: line, Character: char}
		return lsp.Range{Start: pos, End: pos}
	}
	want := map[string][]lsp.Diagnostic{
		fallback: {
			{Range: at(0, 0), Severity: lsp.Error, Source: "javac", Message: "no file"},
		},
		other: {
			{Range: at(2, 6), Severity: lsp.Error, Source: "javac", Message: "relative"},
			{Range: at(0, 0), Severity: lsp.Warning, Source: "javac", Message: "absolute"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsOf_ClearsFallback(t *testing.T) {
	got := diagnosticsOf(nil, "/a/Y.java", "/a", "javac")
	if diags, ok := got["/a/Y.java"]; !ok || len(diags) != 0 || len(got) != 1 {
		t.Errorf("diagnosticsOf(nil) -> %v, want only an empty entry for the file", got)
	}
}
