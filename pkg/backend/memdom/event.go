package memdom

import "github.com/filament-ui/filament/pkg/backend"

// Event is a minimal backend.Event for driving Event-part handlers in
// tests: NewEvent(typ, target) plus flags tests can assert on afterward.
type Event struct {
	typ              string
	target           *Node
	defaultPrevented bool
	propagationStopped bool
}

func NewEvent(typ string, target *Node) *Event {
	return &Event{typ: typ, target: target}
}

func (e *Event) Type() string            { return e.typ }
func (e *Event) Target() backend.Node    { return e.target }
func (e *Event) PreventDefault()         { e.defaultPrevented = true }
func (e *Event) StopPropagation()        { e.propagationStopped = true }
func (e *Event) DefaultPrevented() bool  { return e.defaultPrevented }
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

var _ backend.Event = (*Event)(nil)
