package repl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"src.wkbench.dev/pkg/model"
	"src.wkbench.dev/pkg/sys"
)

type command struct {
	args string
	desc string
	fn   func(r *repl, arg string) error
}

var commands map[string]command

func init() {
	// Initialized here because :help refers to the table.
	commands = map[string]command{
		"help":     {"", "show this help", (*repl).help},
		"new":      {"", "create an untitled document", (*repl).newDocument},
		"open":     {"path", "open a file", (*repl).open},
		"docs":     {"", "list open documents", (*repl).docs},
		"use":      {"id", "make a document current", (*repl).use},
		"text":     {"", "show the current document", (*repl).text},
		"append":   {"line", "append a line to the current document", (*repl).appendLine},
		"goto":     {"n", "move the cursor of the current document to line n", (*repl).gotoLine},
		"save":     {"[path]", "save the current document, to path if given", (*repl).save},
		"close":    {"", "close the current document", (*repl).close},
		"compile":  {"", "compile the current document", (*repl).compile},
		"compiler": {"[name]", "show the compilers, or make one active", (*repl).compiler},
		"reset":    {"", "reset the interactions", (*repl).reset},
		"history":  {"[prefix]", "list stored interactions, optionally by prefix", (*repl).history},
		"redo":     {"[seq|prefix]", "evaluate a stored interaction again", (*repl).redo},
		"forget":   {"seq", "delete a stored interaction", (*repl).forget},
		"quit":     {"", "close all documents and quit", (*repl).quitCommand},
	}
}

var commandOrder = []string{
	"help", "new", "open", "docs", "use", "text", "append", "goto",
	"save", "close", "compile", "compiler", "reset",
	"history", "redo", "forget", "quit"}

var errNoCurrent = errors.New("no current document; use :new or :open")

func (r *repl) command(name, arg string) {
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(r.errOut, "unknown command :%s; try :help\n", name)
		return
	}
	if err := cmd.fn(r, arg); err != nil {
		fmt.Fprintln(r.errOut, err)
	}
}

func (r *repl) help(string) error {
	for _, name := range commandOrder {
		cmd := commands[name]
		usage := ":" + name
		if cmd.args != "" {
			usage += " " + cmd.args
		}
		fmt.Fprintf(r.out, "%-16s %s\n", usage, cmd.desc)
	}
	fmt.Fprintln(r.out, "Other lines are evaluated in the interactions.")
	return nil
}

func (r *repl) newDocument(string) error {
	r.current = r.m.NewFile()
	fmt.Fprintln(r.out, r.describe(r.current))
	return nil
}

func (r *repl) open(path string) error {
	if path == "" {
		return errors.New("usage: :open path")
	}
	d, err := r.m.OpenFile(model.PathSelector(path))
	var alreadyOpen *model.AlreadyOpenError
	if errors.As(err, &alreadyOpen) {
		d = alreadyOpen.Doc
		fmt.Fprintln(r.out, "Already open:")
	} else if err != nil {
		return err
	}
	r.current = d
	fmt.Fprintln(r.out, r.describe(d))
	return nil
}

func (r *repl) docs(string) error {
	_, width := sys.WinSize(r.out)
	for _, d := range r.m.Documents() {
		line := r.describe(d)
		if width > 16 && len(line) > width {
			// Keep the end of the path, which is the informative part.
			line = line[:5] + "..." + line[len(line)-(width-8):]
		}
		fmt.Fprintln(r.out, line)
	}
	return nil
}

// Formats a document as "* [id] name (modified)", where the leading "*" marks
// the current document.
func (r *repl) describe(d *model.Document) string {
	var sb strings.Builder
	if d == r.current {
		sb.WriteString("* ")
	} else {
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "[%d] %s", d.ID(), docName(d))
	if d.Modified() {
		sb.WriteString(" (modified)")
	}
	return sb.String()
}

func (r *repl) use(arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: :use id")
	}
	d := r.m.Document(id)
	if d == nil {
		return fmt.Errorf("no document with id %d", id)
	}
	r.current = d
	return nil
}

func (r *repl) text(string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	text := d.Buffer().Text()
	fmt.Fprint(r.out, text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *repl) appendLine(line string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	buf := d.Buffer()
	buf.SetText(buf.Text() + line + "\n")
	return nil
}

func (r *repl) gotoLine(arg string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: :goto n")
	}
	fmt.Fprintln(r.out, "Cursor at offset", d.GotoLine(n))
	return nil
}

func (r *repl) save(path string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	if path != "" {
		err = d.SaveAs(model.PathSelector(path))
	} else {
		err = d.Save(noChoice)
	}
	if err != nil {
		return err
	}
	if d.IsUntitled() {
		return errors.New("untitled document not saved; use :save path")
	}
	fmt.Fprintln(r.out, "Saved", d.Path())
	return nil
}

// Selects nothing, for saving documents when no path was given.
var noChoice = model.SelectorFunc(func() (string, error) { return "", model.ErrCancelled })

func (r *repl) close(string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	if !r.m.CloseFile(d) {
		return errors.New("not closed")
	}
	r.current = nil
	if docs := r.m.Documents(); len(docs) > 0 {
		r.current = docs[len(docs)-1]
	}
	return nil
}

func (r *repl) compile(string) error {
	d, err := r.currentDoc()
	if err != nil {
		return err
	}
	ctx, stop := sys.NotifyInterrupt(context.Background())
	defer stop()
	result, attempted := r.m.Compile(ctx, d)
	if !attempted {
		return errors.New("not compiled; save the document first")
	}
	for _, e := range result {
		fmt.Fprintln(r.out, e)
	}
	switch n := result.Errors(); {
	case result.OK():
		fmt.Fprintln(r.out, "Compilation succeeded.")
	case n == 0:
		fmt.Fprintln(r.out, "Compilation succeeded with warnings.")
	default:
		fmt.Fprintf(r.out, "Compilation failed with %d error(s).\n", n)
	}
	return nil
}

func (r *repl) compiler(name string) error {
	reg := r.m.Compilers()
	if name == "" {
		active := reg.Active()
		for _, c := range reg.Available() {
			mark := "  "
			if c == active {
				mark = "* "
			}
			fmt.Fprintln(r.out, mark+c.Name())
		}
		return nil
	}
	c, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("no available compiler named %s", name)
	}
	reg.SetActive(c)
	return nil
}

func (r *repl) reset(string) error {
	r.m.ResetInteractions()
	return nil
}

func (r *repl) history(prefix string) error {
	entries, err := r.m.Session().SearchHistory(prefix)
	for _, e := range entries {
		fmt.Fprintf(r.out, "%4d  %s\n", e.Seq, e.Text)
	}
	return err
}

// Evaluates the entry with the given sequence number, or else the newest one
// starting with arg.
func (r *repl) redo(arg string) error {
	s := r.m.Session()
	var text string
	if seq, err := strconv.Atoi(arg); err == nil {
		text, err = s.HistoryEntry(seq)
		if err != nil {
			return err
		}
	} else {
		e, err := s.LastMatching(arg)
		if err != nil {
			return err
		}
		text = e.Text
	}
	fmt.Fprintln(r.out, text)
	r.eval(text)
	return nil
}

func (r *repl) forget(arg string) error {
	seq, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: :forget seq")
	}
	return r.m.Session().ForgetEntry(seq)
}

func (r *repl) quitCommand(string) error {
	if !r.m.Quit() {
		return errors.New("not quitting")
	}
	logger.Println("quitting")
	return nil
}

func (r *repl) currentDoc() (*model.Document, error) {
	if r.current == nil {
		return nil, errNoCurrent
	}
	return r.current, nil
}
