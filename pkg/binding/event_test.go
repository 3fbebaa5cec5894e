package binding_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/part"
)

// TestEventListenerReplacementScenario is spec's end-to-end scenario 2:
// rebinding an Event part to a new handler must remove the old listener and
// add the new one, so only the latest handler fires.
func TestEventListenerReplacementScenario(t *testing.T) {
	button := memdom.New().CreateElement("button", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewEvent(button, "click")

	var calls []string
	first := func(backend.Event) { calls = append(calls, "first") }
	b := binding.NewEvent(p, first)
	b.Commit()

	button.Dispatch(&fakeEvent{typ: "click"})
	if got := []string{"first"}; !equalStrings(calls, got) {
		t.Fatalf("got %v, want %v", calls, got)
	}

	second := func(backend.Event) { calls = append(calls, "second") }
	if !b.ShouldBind(second) {
		t.Fatalf("expected a new func value to always be treated as changed")
	}
	b.Rollback()
	b.Bind(second)
	b.Commit()

	calls = nil
	button.Dispatch(&fakeEvent{typ: "click"})
	if got := []string{"second"}; !equalStrings(calls, got) {
		t.Fatalf("after rebind: got %v, want %v (old listener must not fire)", calls, got)
	}
}

func TestEventOnceRemovesItselfAfterFiring(t *testing.T) {
	button := memdom.New().CreateElement("button", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	p := part.NewEvent(button, "click")
	n := 0
	b := binding.NewEvent(p, &binding.Listener{Handle: func(backend.Event) { n++ }, Once: true})
	b.Commit()

	button.Dispatch(&fakeEvent{typ: "click"})
	button.Dispatch(&fakeEvent{typ: "click"})
	if n != 1 {
		t.Fatalf("expected a Once listener to fire exactly once, fired %d times", n)
	}
}

type fakeEvent struct{ typ string }

func (e *fakeEvent) Type() string         { return e.typ }
func (e *fakeEvent) Target() backend.Node { return nil }
func (e *fakeEvent) PreventDefault()      {}
func (e *fakeEvent) StopPropagation()     {}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var _ backend.Event = (*fakeEvent)(nil)
