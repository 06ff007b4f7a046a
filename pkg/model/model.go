// Package model implements the global model: the registry of open documents,
// the compile protocol, the console and the interactive session, tied
// together by an event bus.
//
// Operations of the model may be called from several goroutines. The model
// never holds its lock while notifying listeners or calling the compiler or
// the interpreter, so listeners may call back into the model.
package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/errutil"
	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/interp"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/session"
	"src.wkbench.dev/pkg/textbuf"
)

var logger = logutil.GetLogger("[model] ")

// Config keeps the collaborators of a Model. Every field is optional.
type Config struct {
	// Bus listeners subscribe to. A new Bus is used if nil.
	Bus *event.Bus
	// Compilers to choose from. If nil, a registry with no compiler is used.
	Compilers *compiler.Registry
	// Makes the interpreter factory of the session, given the console as the
	// output of interpreters. Defaults to interp.GojaFactory.
	Interpreter func(console io.Writer) interp.Factory
	// Configuration of the interactive session.
	Session session.Config
	// Makes the buffer of a new document. Defaults to an empty textbuf.Mem.
	NewBuffer func() textbuf.Buffer
	// Called by Quit after all documents have been closed.
	Exit func()
}

// Model is the global model.
type Model struct {
	bus       *event.Bus
	compilers *compiler.Registry
	console   *Console
	session   *session.Session
	newBuffer func() textbuf.Buffer
	exit      func()

	mutex  sync.Mutex
	nextID int
	docs   []*Document
	byPath map[string]*Document
}

// New creates a Model.
func New(cfg Config) *Model {
	m := &Model{
		bus: cfg.Bus, compilers: cfg.Compilers, console: &Console{},
		newBuffer: cfg.NewBuffer, exit: cfg.Exit,
		byPath: make(map[string]*Document),
	}
	if m.bus == nil {
		m.bus = &event.Bus{}
	}
	if m.compilers == nil {
		m.compilers = compiler.NewRegistry()
	}
	if m.newBuffer == nil {
		m.newBuffer = func() textbuf.Buffer { return &textbuf.Mem{} }
	}
	makeFactory := cfg.Interpreter
	if makeFactory == nil {
		makeFactory = interp.GojaFactory
	}
	m.session = session.New(m.bus, makeFactory(m.console), cfg.Session)
	return m
}

// Bus returns the event bus of the model.
func (m *Model) Bus() *event.Bus { return m.bus }

// Compilers returns the compiler registry of the model.
func (m *Model) Compilers() *compiler.Registry { return m.compilers }

// Console returns the console, which receives the output of interpreters.
func (m *Model) Console() *Console { return m.console }

// Session returns the interactive session.
func (m *Model) Session() *session.Session { return m.session }

// NewFile creates an untitled document and emits DocumentCreated.
func (m *Model) NewFile() *Document {
	m.mutex.Lock()
	d := m.newDocument("", m.newBuffer())
	m.docs = append(m.docs, d)
	m.mutex.Unlock()

	logger.Printf("created document %d", d.id)
	m.bus.Notify(event.Event{Kind: event.DocumentCreated, Doc: d})
	return d
}

// Must be called with the mutex held.
func (m *Model) newDocument(path string, buf textbuf.Buffer) *Document {
	m.nextID++
	return &Document{m: m, id: m.nextID, path: path, buf: buf}
}

// OpenFile opens the file chosen by sel and emits DocumentOpened.
//
// The error is ErrCancelled if sel is cancelled, and an *AlreadyOpenError if
// the file is already open.
func (m *Model) OpenFile(sel Selector) (*Document, error) {
	path, err := selectPath(sel)
	if err != nil {
		return nil, err
	}
	if d := m.FindByPath(path); d != nil {
		return nil, &AlreadyOpenError{Doc: d}
	}
	buf := m.newBuffer()
	if err := readFile(path, buf); err != nil {
		return nil, fmt.Errorf("cannot open document: %w", err)
	}
	buf.MarkSaved()

	m.mutex.Lock()
	if d := m.byPath[path]; d != nil {
		// Opened by someone else while the file was being read.
		m.mutex.Unlock()
		return nil, &AlreadyOpenError{Doc: d}
	}
	d := m.newDocument(path, buf)
	m.docs = append(m.docs, d)
	m.byPath[path] = d
	m.mutex.Unlock()

	logger.Printf("opened %s as document %d", path, d.id)
	m.bus.Notify(event.Event{Kind: event.DocumentOpened, Doc: d})
	return d, nil
}

// DocumentForFile returns the document of the file at path, opening it if it
// is not open yet.
func (m *Model) DocumentForFile(path string) (*Document, error) {
	d, err := m.OpenFile(PathSelector(path))
	if alreadyOpen, ok := err.(*AlreadyOpenError); ok {
		return alreadyOpen.Doc, nil
	}
	return d, err
}

// CloseFile closes a document. If the document is modified, listeners are
// asked whether its changes can be abandoned first. It returns whether the
// document was closed; documents that are not open are never closed.
func (m *Model) CloseFile(d *Document) bool {
	if !d.CanAbandon() {
		return false
	}
	m.mutex.Lock()
	i := m.indexOf(d)
	if i == -1 {
		m.mutex.Unlock()
		return false
	}
	m.docs = append(m.docs[:i:i], m.docs[i+1:]...)
	if d.path != "" {
		delete(m.byPath, d.path)
	}
	m.mutex.Unlock()

	logger.Printf("closed document %d", d.id)
	m.bus.Notify(event.Event{Kind: event.DocumentClosed, Doc: d})
	return true
}

// CloseAll closes documents in order until one refuses to close. It returns
// whether all documents were closed.
func (m *Model) CloseAll() bool {
	for {
		m.mutex.Lock()
		if len(m.docs) == 0 {
			m.mutex.Unlock()
			return true
		}
		first := m.docs[0]
		m.mutex.Unlock()
		if !m.CloseFile(first) {
			return false
		}
	}
}

// Quit closes all documents and, if that succeeds, calls the exit function.
// It returns whether all documents were closed.
func (m *Model) Quit() bool {
	if !m.CloseAll() {
		return false
	}
	if m.exit != nil {
		m.exit()
	}
	return true
}

// FindByPath returns the open document of the file at path, or nil.
func (m *Model) FindByPath(path string) *Document {
	if path == "" {
		return nil
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.byPath[path]
}

// Document returns the open document with the given ID, or nil.
func (m *Model) Document(id int) *Document {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, d := range m.docs {
		if d.id == id {
			return d
		}
	}
	return nil
}

// Documents returns the open documents, in the order they were opened.
func (m *Model) Documents() []*Document {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*Document(nil), m.docs...)
}

// SourceRoots returns the distinct source roots of the open documents, in the
// order of the documents. Documents whose source root cannot be found,
// including untitled ones, do not stop the others from being resolved; their
// errors are combined into the returned error.
func (m *Model) SourceRoots() ([]string, error) {
	var roots []string
	var errs []error
	seen := make(map[string]bool)
	for _, d := range m.Documents() {
		root, err := d.SourceRoot()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots, errutil.Multi(errs...)
}

// Must be called with the mutex held.
func (m *Model) indexOf(d *Document) int {
	for i, doc := range m.docs {
		if doc == d {
			return i
		}
	}
	return -1
}

// Changes the path of a document, keeping the path index up to date if the
// document is open. It fails if another open document has the new path.
func (m *Model) setPath(d *Document, path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if other := m.byPath[path]; other != nil && other != d {
		return &AlreadyOpenError{Doc: other}
	}
	if m.indexOf(d) != -1 {
		if d.path != "" {
			delete(m.byPath, d.path)
		}
		m.byPath[path] = d
	}
	d.path = path
	return nil
}

func readFile(path string, buf textbuf.Buffer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := buf.Read(f); err != nil {
		return &os.PathError{Op: "read", Path: path, Err: err}
	}
	return nil
}
