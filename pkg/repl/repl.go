// Package repl is the line-oriented front-end of wkbench. Lines starting with
// ":" are commands acting on documents; everything else is submitted to the
// interactive session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/model"
	"src.wkbench.dev/pkg/prog"
	"src.wkbench.dev/pkg/sys"
	"src.wkbench.dev/pkg/workbench"
)

var logger = logutil.GetLogger("[repl] ")

// Program is the interactive subprogram. It is the fallback when no other
// subprogram is suitable, and its arguments are files to open at startup.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	r := newREPL(fds)
	w, err := workbench.Open(f.Config, func() { r.quit = true })
	if err != nil {
		return err
	}
	defer w.Close()
	r.attach(w.Model)
	if err := w.OpenFiles(args); err != nil {
		return err
	}
	if docs := w.Model.Documents(); len(docs) > 0 {
		r.current = docs[len(docs)-1]
	}
	r.loop()
	// Input ended without :quit. Exit with 1 if some documents could not
	// be closed.
	if !r.quit && !r.m.Quit() {
		return prog.Exit(1)
	}
	return nil
}

type repl struct {
	m       *model.Model
	in      *bufio.Reader
	out     *os.File
	errOut  io.Writer
	tty     bool
	current *model.Document
	// Length of the console output already shown.
	consoleSeen int
	quit        bool
}

func newREPL(fds [3]*os.File) *repl {
	return &repl{
		in: bufio.NewReader(fds[0]), out: fds[1], errOut: fds[2],
		tty: sys.IsATTY(fds[0]),
	}
}

func (r *repl) attach(m *model.Model) {
	r.m = m
	m.Bus().Subscribe(r)
}

func (r *repl) loop() {
	for !r.quit {
		if r.tty {
			fmt.Fprint(r.out, r.m.Session().Prompt())
		}
		line, err := r.readLine()
		if err == io.EOF && line == "" {
			if r.tty {
				fmt.Fprintln(r.out)
			}
			return
		} else if err != nil && err != io.EOF {
			fmt.Fprintln(r.errOut, "cannot read input:", err)
			return
		}
		r.eval(line)
	}
}

func (r *repl) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (r *repl) eval(line string) {
	if strings.HasPrefix(line, ":") {
		name, arg, _ := strings.Cut(strings.TrimSpace(line[1:]), " ")
		r.command(name, strings.TrimSpace(arg))
		return
	}
	ctx, stop := sys.NotifyInterrupt(context.Background())
	defer stop()
	output := r.m.Session().Submit(ctx, line)
	r.flushConsole()
	if output != "" {
		fmt.Fprintln(r.out, output)
	}
}

// Writes the part of the console output that has not been shown yet.
func (r *repl) flushConsole() {
	text := r.m.Console().String()
	if len(text) < r.consoleSeen {
		r.consoleSeen = 0
	}
	if len(text) > r.consoleSeen {
		io.WriteString(r.out, text[r.consoleSeen:])
		r.consoleSeen = len(text)
	}
}

// Listener implementation.

func (r *repl) Handle(e event.Event) {
	switch e.Kind {
	case event.SaveRequested:
		d, ok := e.Doc.(*model.Document)
		if !ok || d.IsUntitled() {
			return
		}
		fmt.Fprintln(r.out, "Saving", d.Path())
		if err := d.Save(model.PathSelector(d.Path())); err != nil {
			fmt.Fprintln(r.errOut, err)
		}
	case event.ConsoleReset:
		r.consoleSeen = 0
	case event.SessionReset:
		fmt.Fprintln(r.out, "Interactions reset.")
	}
}

func (r *repl) Answer(q event.Query) bool {
	if q.Kind != event.AbandonQuery {
		return true
	}
	name := docName(q.Doc)
	if !r.tty {
		fmt.Fprintf(r.errOut, "%s has unsaved changes\n", name)
		return false
	}
	fmt.Fprintf(r.out, "%s has unsaved changes. Discard them? [y/N] ", name)
	answer, err := r.readLine()
	if err != nil && answer == "" {
		fmt.Fprintln(r.out)
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func docName(d event.Document) string {
	if d == nil || d.IsUntitled() {
		return "untitled"
	}
	return d.Path()
}
