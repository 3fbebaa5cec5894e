package wshost

import "github.com/filament-ui/filament/pkg/backend"

// Event is the backend.Event wshost constructs from an inbound clientEvent
// frame. PreventDefault/StopPropagation are no-ops: nothing is recorded and
// nothing is sent back to the client - there is no further client-side default action for
// this module's own event model to suppress wire-side, unlike a real
// browser's event loop.
type Event struct {
	typ    string
	target *Node
}

func (e *Event) Type() string         { return e.typ }
func (e *Event) Target() backend.Node { return e.target }
func (e *Event) PreventDefault()      {}
func (e *Event) StopPropagation()     {}

var _ backend.Event = (*Event)(nil)
