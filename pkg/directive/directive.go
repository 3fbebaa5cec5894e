// Package directive maps an arbitrary dynamic value to a (Directive,
// binding-constructor) pair, consulting back-end primitives and the value's
// shape (spec §4.2).
package directive

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Binding is the minimal surface the directive package needs from a
// binding implementation, to avoid an import cycle with pkg/binding (which
// depends on Directive, not the other way around). pkg/binding's Binding
// type satisfies this.
type Binding interface {
	ShouldBind(newValue any) bool
	Bind(newValue any)
	Connect(ctx Context)
	Disconnect(ctx Context)
	Commit()
	Rollback()
	Value() any
}

// Context is the subset of the scheduler/commit context a directive needs
// to resolve a binding (mutation/layout/passive enqueue, plus directive
// resolution for nested values).
type Context interface {
	EnqueueMutation(effect backend.Effect)
	EnqueueLayout(effect backend.Effect)
	EnqueuePassive(effect backend.Effect)
	ResolveDirective(value any, p *part.Part) (*Directive, error)
}

// Directive is an identity-bearing descriptor: name, a constructor from
// (value, part, ctx) to a Binding, and an optional identity comparison.
type Directive struct {
	Name string

	// ResolveBinding constructs a fresh Binding for this directive, given
	// the initial value and the Part it will own.
	ResolveBinding func(value any, p *part.Part, ctx Context) (Binding, error)

	// Equals compares this directive to another for identity purposes. If
	// nil, pointer equality on the *Directive itself is used.
	Equals func(other *Directive) bool
}

// Is reports whether two directives are the same for Slot reconciliation
// purposes (spec §3: "Identity-compared via equals ?? ===").
func Is(a, b *Directive) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if a.Equals != nil {
		return a.Equals(b)
	}
	return false
}

// Primitive is the back-end's built-in mapping from a value shape to a
// Directive for a given Part, consulted when the value does not implement
// Directed.
type Primitive func(value any, p *part.Part) (*Directive, error)

// Directed is the "to-directive" protocol: a value that knows how to
// resolve itself into a Directive for a given Part (spec §4.2, first
// clause). This is the Go expression of the source's duck-typed
// `[$toDirective]` symbol protocol — a capability interface instead of a
// runtime shape check.
type Directed interface {
	ToDirective(p *part.Part, ctx Context) (*Directive, error)
}

// MisuseError reports that a directive was used on a Part kind it does not
// support (spec §7: DirectiveMisuseError).
type MisuseError struct {
	DirectiveName string
	Part          *part.Part
	Reason        string
}

func (e *MisuseError) Error() string {
	return "directive misuse: " + e.DirectiveName + " on " + e.Part.Debug() + ": " + e.Reason
}

// Resolver resolves a (value, part) pair to a Directive, first trying the
// Directed protocol and falling back to the supplied Primitive table.
type Resolver struct {
	Primitive Primitive
}

// NewResolver builds a Resolver around the given back-end Primitive lookup.
func NewResolver(primitive Primitive) *Resolver {
	return &Resolver{Primitive: primitive}
}

// Resolve implements spec §4.2: try the to-directive protocol, then the
// back-end's resolvePrimitive.
func (r *Resolver) Resolve(value any, p *part.Part, ctx Context) (*Directive, error) {
	if d, ok := value.(Directed); ok {
		return d.ToDirective(p, ctx)
	}
	if r.Primitive == nil {
		return nil, &MisuseError{DirectiveName: "<none>", Part: p, Reason: "no primitive resolver configured"}
	}
	return r.Primitive(value, p)
}
