package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"
)

// Goja is an Interpreter that evaluates JavaScript with goja. Each instance
// owns one runtime, so definitions persist between calls until the session
// replaces the interpreter.
//
// Besides the standard library, evaluated code sees:
//
//   - print(...args): writes the arguments, separated by spaces, to the
//     output of the interpreter.
//   - classpath: an array of the directories added with AddClassPath.
//   - load(name): evaluates the file name found in the first class path
//     directory that has it, and returns its value.
type Goja struct {
	vm        *goja.Runtime
	out       io.Writer
	classpath []string
}

var _ SyntaxClassifier = (*Goja)(nil)

// NewGoja creates a Goja interpreter whose print function writes to out. A
// nil out discards printed text.
func NewGoja(out io.Writer) *Goja {
	if out == nil {
		out = io.Discard
	}
	g := &Goja{vm: goja.New(), out: out}
	g.vm.Set("print", g.print)
	g.vm.Set("load", g.load)
	g.vm.Set("classpath", g.vm.NewArray())
	return g
}

// GojaFactory returns a Factory making Goja interpreters that print to out.
func GojaFactory(out io.Writer) Factory {
	return func() Interpreter { return NewGoja(out) }
}

// ClassPath returns the directories added with AddClassPath.
func (g *Goja) ClassPath() []string {
	return append([]string(nil), g.classpath...)
}

func (g *Goja) AddClassPath(path string) {
	g.classpath = append(g.classpath, path)
	values := make([]any, len(g.classpath))
	for i, p := range g.classpath {
		values[i] = p
	}
	g.vm.Set("classpath", g.vm.NewArray(values...))
}

func (g *Goja) Interpret(ctx context.Context, src string) (any, error) {
	stop := context.AfterFunc(ctx, func() { g.vm.Interrupt(ctx.Err()) })
	defer stop()
	v, err := g.vm.RunString(src)
	if err != nil {
		g.vm.ClearInterrupt()
		return nil, wrapError(err)
	}
	if v == nil || goja.IsUndefined(v) {
		return NoResult, nil
	}
	return v, nil
}

// IsSyntaxError reports whether err comes from source that could not be
// parsed.
func (g *Goja) IsSyntaxError(err error) bool {
	var compileErr *goja.CompilerSyntaxError
	if errors.As(err, &compileErr) {
		return true
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		if obj, ok := exc.Value().(*goja.Object); ok {
			name := obj.Get("name")
			return name != nil && name.String() == "SyntaxError"
		}
	}
	return false
}

// Exceptions carry a stack trace in their Error method; the user only needs
// the thrown value.
func wrapError(err error) error {
	var exc *goja.Exception
	if errors.As(err, &exc) && exc.Value() != nil {
		return &EvalError{Msg: exc.Value().String(), Err: err}
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &EvalError{Msg: fmt.Sprint("interrupted: ", interrupted.Value()), Err: err}
	}
	return err
}

func (g *Goja) print(call goja.FunctionCall) goja.Value {
	args := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = arg.String()
	}
	fmt.Fprintln(g.out, strings.Join(args, " "))
	return goja.Undefined()
}

func (g *Goja) load(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	for _, dir := range g.classpath {
		path := filepath.Join(dir, name)
		code, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		v, err := g.vm.RunScript(path, string(code))
		if err != nil {
			var exc *goja.Exception
			if errors.As(err, &exc) {
				panic(exc.Value())
			}
			panic(g.vm.NewGoError(err))
		}
		return v
	}
	panic(g.vm.NewGoError(fmt.Errorf("cannot find %s on the class path", name)))
}
