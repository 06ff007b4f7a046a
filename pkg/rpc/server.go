package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.wkbench.dev/pkg/buildinfo"
	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/model"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

func errNoDocument(id int) error {
	return &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: fmt.Sprintf("no document with id %d", id)}
}

// The server is also a listener of the model: events are forwarded to the
// client as model/event notifications, and queries are answered by the
// policy set with initialize.
type server struct {
	m *model.Model

	mutex         sync.Mutex
	conn          jsonrpc2.JSONRPC2
	allowAbandon  bool
	saveOnCompile bool
}

func newServer(m *model.Model) *server {
	s := &server{m: m}
	m.Bus().Subscribe(s)
	return s
}

// Sets the connection notifications are sent on.
func (s *server) bind(conn jsonrpc2.JSONRPC2) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.conn = conn
}

func (s *server) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":  s.initialize,
		"initialized": noop,
		"shutdown":    s.shutdown,
		"exit":        exit,

		"document/new":      s.newDocument,
		"document/open":     s.open,
		"document/list":     s.list,
		"document/text":     s.text,
		"document/setText":  s.setText,
		"document/save":     s.save,
		"document/saveAs":   s.saveAs,
		"document/close":    s.close,
		"document/gotoLine": s.gotoLine,

		"compiler/setActive": s.setActiveCompiler,

		"session/submit": s.submit,
		"session/reset":  s.reset,
		"session/recall": s.recall,
		"console/text":   s.consoleText,
	}, map[string]deferredMethod{
		"document/compile": s.compile,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, conn.Close()
}

// A deferredMethod starts handling a request and returns a function that
// finishes it. That function is called in a new goroutine and the reply is
// sent when it returns, so that later requests are handled meanwhile.
type deferredMethod func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (func() (any, error), error)

func routingHandler(methods map[string]method, deferred map[string]deferredMethod) jsonrpc2.Handler {
	return handlerFunc(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		if fn, ok := deferred[req.Method]; ok {
			finish, err := fn(ctx, conn, params)
			if err != nil {
				reply(ctx, conn, req, nil, err)
				return
			}
			go func() {
				result, err := finish()
				reply(ctx, conn, req, result, err)
			}()
			return
		}
		fn, ok := methods[req.Method]
		if !ok {
			reply(ctx, conn, req, nil, errMethodNotFound)
			return
		}
		result, err := fn(ctx, conn, params)
		reply(ctx, conn, req, result, err)
	})
}

type handlerFunc func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request)

func (f handlerFunc) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	f(ctx, conn, req)
}

// Sends the reply to req, or logs err if req is a notification.
func reply(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, result any, err error) {
	jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
		return result, err
	}).Handle(ctx, conn, req)
}

// Decodes params into v. Absent params leave v unchanged.
func decode(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if json.Unmarshal(params, v) != nil {
		return errInvalidParams
	}
	return nil
}

func (s *server) doc(params json.RawMessage) (*model.Document, error) {
	var p docParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	d := s.m.Document(p.ID)
	if d == nil {
		return nil, errNoDocument(p.ID)
	}
	return d, nil
}

// Listener implementation.

func (s *server) Handle(e event.Event) {
	s.notify("model/event", eventParamsOf(e))
	if e.Kind == event.SaveRequested && s.policy().saveOnCompile {
		if d, ok := e.Doc.(*model.Document); ok && !d.IsUntitled() {
			if err := d.Save(model.PathSelector(d.Path())); err != nil {
				logger.Println("cannot save before compiling:", err)
			}
		}
	}
}

func (s *server) Answer(q event.Query) bool {
	return s.policy().allowAbandon
}

type policy struct{ allowAbandon, saveOnCompile bool }

func (s *server) policy() policy {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return policy{s.allowAbandon, s.saveOnCompile}
}

func (s *server) notify(method string, params any) {
	s.mutex.Lock()
	conn := s.conn
	s.mutex.Unlock()
	if conn == nil {
		return
	}
	if err := conn.Notify(context.Background(), method, params); err != nil {
		logger.Printf("cannot send %s: %v", method, err)
	}
}

// Handler implementations. Except for compile, these are all called
// synchronously.

func (s *server) initialize(_ context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p initializeParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	s.mutex.Lock()
	s.conn = conn
	s.allowAbandon = p.AllowAbandon
	s.saveOnCompile = p.SaveOnCompile
	s.mutex.Unlock()

	compilers := s.m.Compilers()
	var names []string
	for _, c := range compilers.Available() {
		names = append(names, c.Name())
	}
	return &initializeResult{
		Name:      "wkbench",
		Version:   buildinfo.Value.Version,
		Compilers: names,
		Active:    compilers.Active().Name(),
	}, nil
}

func (s *server) shutdown(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return closeResult{s.m.CloseAll()}, nil
}

func (s *server) newDocument(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return infoOf(s.m.NewFile()), nil
}

func (s *server) open(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p pathParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, errInvalidParams
	}
	d, err := s.m.OpenFile(model.PathSelector(p.Path))
	var alreadyOpen *model.AlreadyOpenError
	if errors.As(err, &alreadyOpen) {
		info := infoOf(alreadyOpen.Doc)
		info.AlreadyOpen = true
		return info, nil
	} else if err != nil {
		return nil, err
	}
	return infoOf(d), nil
}

func (s *server) list(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	docs := s.m.Documents()
	infos := make([]docInfo, len(docs))
	for i, d := range docs {
		infos[i] = infoOf(d)
	}
	return infos, nil
}

func (s *server) text(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	d, err := s.doc(params)
	if err != nil {
		return nil, err
	}
	return textResult{d.Buffer().Text()}, nil
}

func (s *server) setText(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p textParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	d := s.m.Document(p.ID)
	if d == nil {
		return nil, errNoDocument(p.ID)
	}
	d.Buffer().SetText(p.Text)
	return infoOf(d), nil
}

func (s *server) save(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p pathParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	d := s.m.Document(p.ID)
	if d == nil {
		return nil, errNoDocument(p.ID)
	}
	if err := d.Save(selectorFor(p.Path)); err != nil {
		return nil, err
	}
	return infoOf(d), nil
}

func (s *server) saveAs(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p pathParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	d := s.m.Document(p.ID)
	if d == nil {
		return nil, errNoDocument(p.ID)
	}
	if err := d.SaveAs(selectorFor(p.Path)); err != nil {
		return nil, err
	}
	return infoOf(d), nil
}

// An empty path means that the client did not choose a file.
func selectorFor(path string) model.Selector {
	if path == "" {
		return model.SelectorFunc(func() (string, error) { return "", model.ErrCancelled })
	}
	return model.PathSelector(path)
}

func (s *server) close(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	d, err := s.doc(params)
	if err != nil {
		return nil, err
	}
	return closeResult{s.m.CloseFile(d)}, nil
}

// Replies when the compilation ends, after publishing its diagnostics.
func (s *server) compile(ctx context.Context, conn jsonrpc2.JSONRPC2, params json.RawMessage) (func() (any, error), error) {
	d, err := s.doc(params)
	if err != nil {
		return nil, err
	}
	done := s.m.CompileAsync(ctx, d)
	return func() (any, error) {
		c := <-done
		if c.Attempted {
			s.publish(ctx, conn, c)
		}
		return compileResult{c.Attempted, compileErrorsOf(c.Result)}, nil
	}, nil
}

func (s *server) publish(ctx context.Context, conn jsonrpc2.JSONRPC2, c model.Compilation) {
	path := c.Doc.Path()
	root, err := c.Doc.SourceRoot()
	if err != nil {
		root = ""
	}
	source := s.m.Compilers().Active().Name()
	for file, diags := range diagnosticsOf(c.Result, path, root, source) {
		err := conn.Notify(ctx, "textDocument/publishDiagnostics",
			lsp.PublishDiagnosticsParams{URI: uriOf(file), Diagnostics: diags})
		if err != nil {
			logger.Println("cannot publish diagnostics:", err)
		}
	}
}

func (s *server) gotoLine(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p lineParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	d := s.m.Document(p.ID)
	if d == nil {
		return nil, errNoDocument(p.ID)
	}
	return offsetResult{d.GotoLine(p.Line)}, nil
}

func (s *server) setActiveCompiler(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p compilerParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	c, ok := s.m.Compilers().Lookup(p.Name)
	if !ok {
		return nil, &jsonrpc2.Error{
			Code: jsonrpc2.CodeInvalidParams, Message: "no available compiler named " + p.Name}
	}
	s.m.Compilers().SetActive(c)
	return nil, nil
}

func (s *server) submit(ctx context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p submitParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return submitResult{s.m.Session().Submit(ctx, p.Text)}, nil
}

func (s *server) reset(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	s.m.ResetInteractions()
	return nil, nil
}

func (s *server) recall(_ context.Context, _ jsonrpc2.JSONRPC2, params json.RawMessage) (any, error) {
	var p recallParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	sess := s.m.Session()
	ok := true
	failed := func() { ok = false }
	switch p.Direction {
	case "previous":
		sess.RecallPrevious(failed)
	case "next":
		sess.RecallNext(failed)
	default:
		return nil, errInvalidParams
	}
	return recallResult{ok, sess.Pending()}, nil
}

func (s *server) consoleText(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return textResult{s.m.Console().String()}, nil
}
