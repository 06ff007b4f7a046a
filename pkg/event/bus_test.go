package event_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	. "src.wkbench.dev/pkg/event"
	"src.wkbench.dev/pkg/event/eventtest"
)

type fakeDoc struct{ path string }

func (d *fakeDoc) Path() string     { return d.path }
func (d *fakeDoc) IsUntitled() bool { return d.path == "" }
func (d *fakeDoc) Modified() bool   { return false }

func TestNotify_CallsListenersInSubscriptionOrder(t *testing.T) {
	var b Bus
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		b.Subscribe(&Funcs{HandleFunc: func(Event) { order = append(order, name) }})
	}

	b.Notify(Event{Kind: CompileStarted})

	if diff := cmp.Diff([]string{"a", "b", "c"}, order); diff != "" {
		t.Errorf("notification order (-want +got):\n%s", diff)
	}
}

func TestPoll_NoListenersIsVacuousConsent(t *testing.T) {
	var b Bus
	if !b.Poll(Query{Kind: AbandonQuery}) {
		t.Errorf("Poll with no listeners -> false, want true")
	}
}

func TestPoll_AsksEveryListenerAfterVeto(t *testing.T) {
	var b Bus
	first := eventtest.NewRecorder(false)
	second := eventtest.NewRecorder(true)
	b.Subscribe(first)
	b.Subscribe(second)

	doc := &fakeDoc{"/a/b.java"}
	got := b.Poll(Query{Kind: AbandonQuery, Doc: doc})

	if got {
		t.Errorf("Poll -> true, want false")
	}
	if n := len(second.Queries()); n != 1 {
		t.Errorf("second listener asked %d times, want 1", n)
	}
}

func TestPoll_AllAllow(t *testing.T) {
	var b Bus
	b.Subscribe(eventtest.NewRecorder(true))
	b.Subscribe(&Funcs{})
	if !b.Poll(Query{Kind: AbandonQuery}) {
		t.Errorf("Poll -> false, want true")
	}
}

func TestUnsubscribe_RemovesFirstOccurrence(t *testing.T) {
	var b Bus
	r := eventtest.NewRecorder(true)
	other := eventtest.NewRecorder(true)
	b.Subscribe(r)
	b.Subscribe(other)
	b.Subscribe(r)

	b.Unsubscribe(r)
	b.Notify(Event{Kind: ConsoleReset})

	if b.Len() != 2 {
		t.Errorf("Len -> %d, want 2", b.Len())
	}
	if n := r.Count(ConsoleReset); n != 1 {
		t.Errorf("remaining duplicate got %d events, want 1", n)
	}
	b.Unsubscribe(eventtest.NewRecorder(true))
	if b.Len() != 2 {
		t.Errorf("Unsubscribe of unknown listener changed Len to %d", b.Len())
	}
}

// A listener value that cannot be compared with ==.
type funcListener struct{ handle func(Event) }

func (l funcListener) Handle(e Event)    { l.handle(e) }
func (l funcListener) Answer(Query) bool { return true }

func TestUnsubscribe_UncomparableListeners(t *testing.T) {
	var b Bus
	r := eventtest.NewRecorder(true)
	uncomparable := funcListener{func(Event) {}}
	b.Subscribe(uncomparable)
	b.Subscribe(r)

	b.Unsubscribe(r)
	b.Unsubscribe(uncomparable)

	if b.Len() != 1 {
		t.Errorf("Len -> %d, want 1", b.Len())
	}
}

func TestNotify_ListenerMayUnsubscribeDuringDispatch(t *testing.T) {
	var b Bus
	r := eventtest.NewRecorder(true)
	var self *Funcs
	self = &Funcs{HandleFunc: func(Event) { b.Unsubscribe(self) }}
	b.Subscribe(self)
	b.Subscribe(r)

	b.Notify(Event{Kind: SessionReset})
	b.Notify(Event{Kind: SessionReset})

	if n := r.Count(SessionReset); n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
	if b.Len() != 1 {
		t.Errorf("Len -> %d, want 1", b.Len())
	}
}

func TestEventString(t *testing.T) {
	doc := &fakeDoc{"/src/A.java"}
	tests := []struct {
		e    Event
		want string
	}{
		{Event{Kind: CompileEnded}, "compile-ended"},
		{Event{Kind: DocumentOpened, Doc: doc}, "document-opened(/src/A.java)"},
		{Event{Kind: DocumentCreated, Doc: &fakeDoc{}}, "document-created(untitled)"},
		{Event{Kind: SaveRequested, Doc: doc, Reason: ReasonCompile},
			"save-requested(/src/A.java, compile)"},
		{Event{Kind: Kind(100)}, "kind(100)"},
	}
	for _, test := range tests {
		if got := test.e.String(); got != test.want {
			t.Errorf("String() -> %q, want %q", got, test.want)
		}
	}
}
