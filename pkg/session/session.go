// Package session implements the interactive session: a read-eval-print loop
// against an interpreter service, with a recallable history of submissions.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/interp"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[session] ")

// Defaults for Config.
const (
	DefaultLauncher = "java"
	DefaultPrompt   = "> "
)

// Message prefix reported by one interpreter for parse failures. Such
// messages name interpreter internals and are replaced with a generic notice.
const legacySyntaxSignature = "koala.dynamicjava.interpreter.InterpreterException: Encountered"

// Config keeps the configuration of a Session. The zero value is usable.
type Config struct {
	// Keyword of the launch form; DefaultLauncher if empty.
	Launcher string
	// Builds the call the launch form is rewritten into; JavaLaunch if nil.
	LaunchSyntax LaunchSyntax
	// Prompt written after every evaluation; DefaultPrompt if empty.
	Prompt string
	// If not nil, history is loaded from and appended to this store.
	Store storedefs.Store
	// If not nil, everything appended to the transcript is also written
	// here. Write errors are logged and otherwise ignored.
	Mirror io.Writer
}

// Session is an interactive session. Its methods may be called from several
// goroutines, but calls into the interpreter are not serialized: submitting
// while another submission is being evaluated is the caller's problem.
type Session struct {
	bus       *event.Bus
	newInterp interp.Factory
	launcher  string
	syntax    LaunchSyntax
	prompt    string
	store     storedefs.Store
	mirror    io.Writer

	mutex      sync.Mutex
	interp     interp.Interpreter
	history    *History
	pending    string
	transcript strings.Builder
}

// New creates a Session with a fresh interpreter. It does not emit any event;
// call Reset to start over with a class path.
func New(bus *event.Bus, factory interp.Factory, cfg Config) *Session {
	s := &Session{
		bus: bus, newInterp: factory,
		launcher: cfg.Launcher, syntax: cfg.LaunchSyntax, prompt: cfg.Prompt,
		store: cfg.Store, mirror: cfg.Mirror,
	}
	if s.launcher == "" {
		s.launcher = DefaultLauncher
	}
	if s.syntax == nil {
		s.syntax = JavaLaunch
	}
	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}
	s.history = NewHistory(loadHistory(cfg.Store)...)
	s.interp = factory()
	s.transcript.WriteString(s.prompt)
	s.writeMirror(s.prompt)
	return s
}

func loadHistory(st storedefs.Store) []string {
	if st == nil {
		return nil
	}
	upto, err := st.NextSeq()
	if err != nil {
		logger.Println("cannot load history:", err)
		return nil
	}
	entries, err := st.Entries(0, upto)
	if err != nil {
		logger.Println("cannot load history:", err)
		return nil
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}

// Reset replaces the interpreter with a fresh one whose class path has the
// given roots, clears the transcript and emits SessionReset. History entries
// are kept; only the recall position is reset.
func (s *Session) Reset(roots []string) {
	it := s.newInterp()
	for _, root := range roots {
		it.AddClassPath(root)
	}
	s.mutex.Lock()
	s.interp = it
	s.history.ResetCursor()
	s.pending = ""
	s.transcript.Reset()
	s.transcript.WriteString(s.prompt)
	s.mutex.Unlock()
	s.writeMirror("\n" + s.prompt)

	logger.Printf("reset with class path %q", roots)
	s.bus.Notify(event.Event{Kind: event.SessionReset})
}

// Prompt returns the prompt written after every evaluation.
func (s *Session) Prompt() string { return s.prompt }

// Interpreter returns the live interpreter.
func (s *Session) Interpreter() interp.Interpreter {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.interp
}

// SetPending replaces the line being edited.
func (s *Session) SetPending(line string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pending = line
}

// Pending returns the line being edited.
func (s *Session) Pending() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pending
}

// Transcript returns everything shown by the session since the last reset.
func (s *Session) Transcript() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.transcript.String()
}

// History returns all submitted lines, oldest first.
func (s *Session) History() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.history.Entries()
}

// ErrNotPersistent is returned by the methods that look up the history store
// when the session has none.
var ErrNotPersistent = errors.New("history is not persistent; set session.history in the configuration")

// SearchHistory returns the stored entries starting with prefix, oldest
// first.
func (s *Session) SearchHistory(prefix string) ([]storedefs.Entry, error) {
	if s.store == nil {
		return nil, ErrNotPersistent
	}
	var entries []storedefs.Entry
	for from := 0; ; {
		e, err := s.store.NextEntry(from, prefix)
		if err == storedefs.ErrNoMatchingEntry {
			return entries, nil
		} else if err != nil {
			return entries, err
		}
		entries = append(entries, e)
		from = e.Seq + 1
	}
}

// LastMatching returns the newest stored entry starting with prefix.
func (s *Session) LastMatching(prefix string) (storedefs.Entry, error) {
	if s.store == nil {
		return storedefs.Entry{}, ErrNotPersistent
	}
	upto, err := s.store.NextSeq()
	if err != nil {
		return storedefs.Entry{}, err
	}
	return s.store.PrevEntry(upto, prefix)
}

// HistoryEntry returns the text of the stored entry with the given sequence
// number.
func (s *Session) HistoryEntry(seq int) (string, error) {
	if s.store == nil {
		return "", ErrNotPersistent
	}
	return s.store.Entry(seq)
}

// ForgetEntry deletes a stored entry and reloads the recallable history from
// the store.
func (s *Session) ForgetEntry(seq int) error {
	if s.store == nil {
		return ErrNotPersistent
	}
	if _, err := s.store.Entry(seq); err != nil {
		return err
	}
	if err := s.store.DelEntry(seq); err != nil {
		return err
	}
	entries := loadHistory(s.store)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.history = NewHistory(entries...)
	return nil
}

// RecallPrevious replaces the pending line with the previous history entry.
// If there is none, it calls failed and changes nothing.
func (s *Session) RecallPrevious(failed func()) {
	s.mutex.Lock()
	if !s.history.HasPrevious() {
		s.mutex.Unlock()
		failed()
		return
	}
	s.pending = s.history.Previous(s.pending)
	s.mutex.Unlock()
}

// RecallNext replaces the pending line with the next history entry, or with
// the line that was being edited before recalling started. If there is none,
// it calls failed and changes nothing.
func (s *Session) RecallNext(failed func()) {
	s.mutex.Lock()
	if !s.history.HasNext() {
		s.mutex.Unlock()
		failed()
		return
	}
	s.pending = s.history.Next()
	s.mutex.Unlock()
}

// SubmitPending submits the pending line.
func (s *Session) SubmitPending(ctx context.Context) string {
	return s.Submit(ctx, s.Pending())
}

// Submit evaluates one line of input and returns the text appended to the
// transcript for it, not counting the prompt. Evaluation failures are
// reported in that text, never as errors.
//
// The raw line is always added to the history. Blank lines are not
// evaluated. A line in launch form is rewritten into a call before
// evaluation.
func (s *Session) Submit(ctx context.Context, raw string) string {
	s.mutex.Lock()
	s.pending = ""
	s.history.Add(raw)
	s.transcript.WriteString(raw)
	it := s.interp
	s.mutex.Unlock()
	s.persist(raw)

	var output string
	if src := strings.TrimSpace(raw); src != "" {
		if rewritten, ok := RewriteLaunch(s.launcher, s.syntax, src); ok {
			logger.Printf("rewrote %q to %q", src, rewritten)
			src = rewritten
		}
		output = s.evaluate(ctx, it, src)
	}

	tail := output + "\n" + s.prompt
	s.mutex.Lock()
	s.transcript.WriteString(tail)
	s.mutex.Unlock()
	s.writeMirror(raw + tail)
	return strings.TrimPrefix(output, "\n")
}

// Failing to mirror must not stop the session from prompting again.
func (s *Session) writeMirror(text string) {
	if s.mirror == nil {
		return
	}
	if _, err := io.WriteString(s.mirror, text); err != nil {
		logger.Println("cannot mirror transcript:", err)
	}
}

func (s *Session) persist(raw string) {
	if s.store == nil {
		return
	}
	if _, err := s.store.AddEntry(raw); err != nil {
		logger.Println("cannot save history entry:", err)
	}
}

func (s *Session) evaluate(ctx context.Context, it interp.Interpreter, src string) string {
	result, err := it.Interpret(ctx, src)
	if err == nil {
		if result == interp.NoResult {
			return ""
		}
		var text string
		text, err = display(result)
		if err == nil {
			return "\n" + text
		}
	}
	return "\nError in evaluation: " + describe(it, err)
}

// Converts a result to text. A panicking String method is reported as an
// error, as if the evaluation itself had failed.
func display(v any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	if stringer, ok := v.(fmt.Stringer); ok {
		return stringer.String(), nil
	}
	return fmt.Sprint(v), nil
}

func describe(it interp.Interpreter, err error) string {
	msg := err.Error()
	if msg == "" {
		msg = fmt.Sprintf("%T", err)
	}
	if strings.HasPrefix(msg, legacySyntaxSignature) {
		return "Invalid syntax"
	}
	if classifier, ok := it.(interp.SyntaxClassifier); ok && classifier.IsSyntaxError(err) {
		return "Invalid syntax"
	}
	return msg
}
