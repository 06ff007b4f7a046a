package rpc

import (
	"path/filepath"

	lsp "github.com/sourcegraph/go-lsp"
	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/model"
)

// Parameters and results of methods.

type initializeParams struct {
	// Answer to every abandon query.
	AllowAbandon bool `json:"allowAbandon"`
	// Whether documents are saved when a compilation asks for it.
	SaveOnCompile bool `json:"saveOnCompile"`
}

type initializeResult struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Compilers []string `json:"compilers"`
	Active    string   `json:"activeCompiler"`
}

type docParams struct {
	ID int `json:"id"`
}

type pathParams struct {
	ID   int    `json:"id,omitempty"`
	Path string `json:"path"`
}

type textParams struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type lineParams struct {
	ID   int `json:"id"`
	Line int `json:"line"`
}

type docInfo struct {
	ID       int    `json:"id"`
	Path     string `json:"path,omitempty"`
	Modified bool   `json:"modified"`
	// Set by document/open when the file was already open.
	AlreadyOpen bool `json:"alreadyOpen,omitempty"`
}

type closeResult struct {
	Closed bool `json:"closed"`
}

type compileResult struct {
	Attempted bool           `json:"attempted"`
	Errors    []compileError `json:"errors"`
}

type compileError struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Warning bool   `json:"warning,omitempty"`
}

type submitParams struct {
	Text string `json:"text"`
}

type submitResult struct {
	Output string `json:"output"`
}

type recallParams struct {
	// "previous" or "next".
	Direction string `json:"direction"`
}

type recallResult struct {
	OK      bool   `json:"ok"`
	Pending string `json:"pending"`
}

type textResult struct {
	Text string `json:"text"`
}

type offsetResult struct {
	Offset int `json:"offset"`
}

type compilerParams struct {
	Name string `json:"name"`
}

// Parameters of the model/event notification.
type eventParams struct {
	Kind   string   `json:"kind"`
	Doc    *docInfo `json:"doc,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func infoOf(d *model.Document) docInfo {
	return docInfo{ID: d.ID(), Path: d.Path(), Modified: d.Modified()}
}

func eventParamsOf(e event.Event) eventParams {
	p := eventParams{Kind: e.Kind.String()}
	if d, ok := e.Doc.(*model.Document); ok {
		info := infoOf(d)
		p.Doc = &info
	}
	if e.Kind == event.SaveRequested {
		p.Reason = e.Reason.String()
	}
	return p
}

func compileErrorsOf(r compiler.Result) []compileError {
	errs := make([]compileError, len(r))
	for i, e := range r {
		errs[i] = compileError{e.File, e.Line, e.Column, e.Message, e.Warning}
	}
	return errs
}

func uriOf(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + filepath.ToSlash(path))
}

// Groups diagnostics by file. Diagnostics without a file are attributed to
// fallback, and relative files are taken relative to root. The fallback file
// is always present in the result, so that its old diagnostics are cleared.
func diagnosticsOf(r compiler.Result, fallback, root, source string) map[string][]lsp.Diagnostic {
	byFile := map[string][]lsp.Diagnostic{fallback: {}}
	for _, e := range r {
		file := e.File
		switch {
		case file == "":
			file = fallback
		case !filepath.IsAbs(file):
			file = filepath.Join(root, file)
		}
		severity := lsp.Error
		if e.Warning {
			severity = lsp.Warning
		}
		pos := lsp.Position{Line: max(e.Line-1, 0), Character: max(e.Column-1, 0)}
		byFile[file] = append(byFile[file], lsp.Diagnostic{
			Range:    lsp.Range{Start: pos, End: pos},
			Severity: severity,
			Source:   source,
			Message:  e.Message,
		})
	}
	return byFile
}
