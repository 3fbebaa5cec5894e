// Package backend defines the contract between the reactive core and the
// concrete environment that hosts a live DOM tree.
//
// Per spec §6.1 the BackEnd is the only seam at which this module touches a
// real document: everything in pkg/part, pkg/binding, pkg/slot, pkg/hooks,
// pkg/reconcile, pkg/scheduler, pkg/hydrate and pkg/template is written
// purely in terms of these interfaces. Two reference implementations ship
// alongside this package: backend/memdom (an in-process fake DOM used by
// the test suite) and backend/wshost (a websocket-streamed live page).
package backend

import "context"

// Priority mirrors the host's notion of task priority, independent of the
// scheduler's internal Lanes bitmask (see pkg/scheduler).
type Priority int

const (
	PriorityUserBlocking Priority = iota
	PriorityUserVisible
	PriorityBackground
)

// Phase identifies which effect bucket is being committed.
type Phase int

const (
	PhaseMutation Phase = iota
	PhaseLayout
	PhasePassive
)

func (p Phase) String() string {
	switch p {
	case PhaseMutation:
		return "mutation"
	case PhaseLayout:
		return "layout"
	case PhasePassive:
		return "passive"
	default:
		return "unknown"
	}
}

// NodeKind discriminates the handful of DOM node kinds the core needs to
// reason about structurally (element vs text vs comment).
type NodeKind int

const (
	NodeElement NodeKind = iota
	NodeText
	NodeComment
	NodeDocumentFragment
)

// Node is the opaque handle the core holds for a position in the live tree.
// Concrete backends implement this over whatever they actually are: a real
// browser node behind syscall/js, or an in-memory struct for tests.
type Node interface {
	Kind() NodeKind

	// Tree navigation, pre-order.
	Parent() Node
	FirstChild() Node
	NextSibling() Node

	// Mutation primitives used by bindings (§4.3).
	InsertBefore(child Node, anchor Node)
	RemoveChild(child Node)
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	SetProperty(name string, value any)
	GetProperty(name string) any
	SetTextData(data string)
	TextData() string

	// AddEventListener/RemoveEventListener back Event parts (§4.3).
	AddEventListener(event string, opts EventOptions, fn func(Event))
	RemoveEventListener(event string, opts EventOptions, fn func(Event))

	// Debug returns a short human-readable description for error messages.
	Debug() string
}

// EventOptions mirrors the capture/once/passive trio from spec §4.3.
type EventOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

// Event is the minimal event surface a listener needs.
type Event interface {
	Type() string
	Target() Node
	PreventDefault()
	StopPropagation()
}

// Effect is one committed/rolled-back unit of work enqueued by a Binding
// during connect/disconnect (§4.3, §4.7).
type Effect struct {
	Commit   func()
	Rollback func()
	// Label is used only for metrics/tracing, never for control flow.
	Label string
}

// BackEnd is the full contract from spec §6.1.
type BackEnd interface {
	// GetCurrentPriority returns the host's ambient task priority.
	GetCurrentPriority() Priority

	// RequestCallback arranges for cb to run at the given priority on a
	// future turn of the host's task queue, returning a handle that can be
	// awaited.
	RequestCallback(priority Priority, cb func()) <-chan struct{}

	// YieldToMain cooperatively yields; it resolves on the next available
	// task slot at the calling lane's priority.
	YieldToMain(ctx context.Context) error

	// ShouldYield reports whether the current callback should return
	// control to the host before continuing more work.
	ShouldYield() bool

	// StartViewTransition runs cb within a visual transition boundary,
	// returning once the transition has been started (not necessarily
	// finished animating).
	StartViewTransition(cb func()) error

	// CommitEffects invokes each effect's Commit in enqueue order for the
	// given phase. A Binding's Disconnect queues its Rollback method as an
	// ordinary effect's Commit func; implementations never call
	// Effect.Rollback.
	CommitEffects(effects []Effect, phase Phase)

	// CreateElement / CreateText / CreateComment construct new nodes of the
	// given kind, used by the template compiler when instantiating a
	// cloned template and by directives that synthesize nodes directly.
	CreateElement(tag string, namespaceURI string) Node
	CreateText(data string) Node
	CreateComment(data string) Node
}
