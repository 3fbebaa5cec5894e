package binding

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Listener is the object form of an event value: a handler plus the
// capture/once/passive options, mirroring the source's `handleEvent`
// object-listener protocol (spec §3, §4.3).
type Listener struct {
	Handle  func(backend.Event)
	Capture bool
	Once    bool
	Passive bool
}

// toListener normalizes an Event Part's bound value (a plain func or a
// *Listener) into a *Listener, or nil if the value is not callable.
func toListener(value any) *Listener {
	switch v := value.(type) {
	case nil:
		return nil
	case *Listener:
		return v
	case func(backend.Event):
		return &Listener{Handle: v}
	case func():
		return &Listener{Handle: func(backend.Event) { v() }}
	default:
		return nil
	}
}

// Event is the binding itself acting as the listener dispatcher: it calls
// the user function (or handleEvent-equivalent), honoring capture/once/
// passive (spec §3, §4.3). Swapping listeners removes the old one with its
// original options before adding the new one.
type Event struct {
	base
	listener *Listener
}

// NewEvent constructs an Event binding for p with the given initial value.
func NewEvent(p *part.Part, value any) *Event {
	return &Event{base: base{p: p, value: value}, listener: toListener(value)}
}

// ShouldBind overrides the default: events compare by listener identity
// (same function pointer is not observable in Go, so any rebind is treated
// as a change unless the value is the identical *Listener instance).
func (e *Event) ShouldBind(newValue any) bool {
	if lv, ok := newValue.(*Listener); ok {
		return lv != e.listener
	}
	return true
}

func (e *Event) Bind(newValue any) {
	e.value = newValue
	e.listener = toListener(newValue)
}

func (e *Event) Connect(ctx Context) {
	if e.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: e.Commit, Label: "event:" + e.p.Name})
	}
}

func (e *Event) Disconnect(ctx Context) {
	if e.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: e.Rollback, Label: "event:" + e.p.Name + ":rollback"})
	}
}

func (e *Event) dispatch(evt backend.Event) {
	if e.listener == nil || e.listener.Handle == nil {
		return
	}
	if e.listener.Once {
		e.removeCurrent()
	}
	e.listener.Handle(evt)
}

func (e *Event) opts() backend.EventOptions {
	if e.listener == nil {
		return backend.EventOptions{}
	}
	return backend.EventOptions{Capture: e.listener.Capture, Once: e.listener.Once, Passive: e.listener.Passive}
}

func (e *Event) Commit() {
	e.p.Node.AddEventListener(e.p.Name, e.opts(), e.dispatch)
	e.committed.Store(true)
}

func (e *Event) removeCurrent() {
	e.p.Node.RemoveEventListener(e.p.Name, e.opts(), e.dispatch)
}

func (e *Event) Rollback() {
	if !e.committed.Load() {
		return
	}
	e.removeCurrent()
	e.committed.Store(false)
}

func (e *Event) Hydrate(tree HydrationTree) error {
	e.committed.Store(true)
	e.connected.Store(true)
	return nil
}
