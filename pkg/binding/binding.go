// Package binding implements the per-directive state machine that owns a
// Part and applies its DOM effects (spec §3 "Binding", §4.3).
package binding

import (
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
)

// Context is an alias for directive.Context: the commit-phase effect
// buckets plus directive resolution. Aliasing (rather than duplicating)
// means a concrete Binding's Connect/Disconnect methods, typed in terms of
// this Context, satisfy directive.Binding's identical methods by the exact
// same type, not merely the same method shape. This package may import
// directive safely because directive, in turn, only depends on this
// package's Binding *shape* (pkg/directive/directive.go's own Binding
// interface), never importing pkg/binding itself.
type Context = directive.Context

// HydrationTree is the minimal walker surface a Binding.Hydrate needs; see
// pkg/hydrate for the concrete implementation.
type HydrationTree interface {
	NextNode(expected backend.NodeKind) (backend.Node, error)
	PeekNode(expected backend.NodeKind) (backend.Node, error)

	// SplitText divides the current text node after its first prefixLen
	// runes, leaving the prefix in the existing node and returning a freshly
	// created node holding the remainder, inserted immediately after it and
	// adopted as the new current node.
	SplitText(prefixLen int) (backend.Node, error)
}

// State is the lifecycle state from the diagram in spec §4.3.
type State uint8

const (
	StateNew State = iota
	StateConnected
	StateCommitted
	StateDisconnected
)

// Binding is the full contract from spec §4.3: shouldBind, bind, connect,
// disconnect, commit, rollback, hydrate. Every concrete binding (Attribute,
// Property, Live, Event, Element, ChildNode, Text) implements this.
type Binding interface {
	// ShouldBind is a pure comparison: default `!Object.is`, overridden by
	// Event and Attribute per spec §4.3.
	ShouldBind(newValue any) bool

	// Bind updates the stored value; must not touch the DOM.
	Bind(newValue any)

	// Connect enqueues self into the appropriate effect bucket. Idempotent.
	Connect(ctx Context)

	// Disconnect enqueues a rollback effect. Idempotent.
	Disconnect(ctx Context)

	// Commit performs the DOM mutation; safe to call once per connect cycle.
	Commit()

	// Rollback undoes the last committed mutation; valid only once committed.
	Rollback()

	// Hydrate adopts pre-existing DOM without mutation, or returns a
	// *hydrate.Error-compatible error on mismatch.
	Hydrate(tree HydrationTree) error

	// Value returns the currently bound value.
	Value() any

	// Part returns the Part this binding owns.
	Part() *part.Part

	// State reports the current lifecycle state (for invariant checks/tests).
	State() State
}

// base holds the bookkeeping shared by every concrete binding: the current
// value, lifecycle flags, and the owning Part. Concrete bindings embed base
// and implement the DOM-touching parts of the contract themselves.
type base struct {
	p     *part.Part
	value any

	connected atomic.Bool
	committed atomic.Bool
}

func (b *base) Part() *part.Part { return b.p }
func (b *base) Value() any       { return b.value }

func (b *base) State() State {
	switch {
	case b.committed.Load():
		return StateCommitted
	case b.connected.Load():
		return StateConnected
	default:
		return StateDisconnected
	}
}

// shouldBindDefault implements spec §4.3's default: `!Object.is(newValue,
// currentValue)`. Go panics comparing interface values whose dynamic type
// is uncomparable (slice, map, func); such values are always considered
// changed, which is the conservative (always-recommit) choice.
func shouldBindDefault(current, next any) (changed bool) {
	defer func() {
		if recover() != nil {
			changed = true
		}
	}()
	return current != next
}
