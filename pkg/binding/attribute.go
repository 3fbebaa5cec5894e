package binding

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Attribute binds a value to an HTML attribute (spec §3, §4.3):
// null/nil → remove; bool → toggle; otherwise String(value).
type Attribute struct {
	base
	pending any
}

// NewAttribute constructs an Attribute binding for p with the given initial
// value already bound (not yet connected or committed).
func NewAttribute(p *part.Part, value any) *Attribute {
	return &Attribute{base: base{p: p, value: value}}
}

// ShouldBind overrides the default: attribute values compare by their
// string/boolean semantics, not raw identity, since "1" and 1 both render
// identically and should not cause redundant DOM writes.
func (a *Attribute) ShouldBind(newValue any) bool {
	return !attrEqual(a.value, newValue)
}

func attrEqual(a, b any) bool {
	return attrString(a) == attrString(b) && attrIsNil(a) == attrIsNil(b)
}

func attrIsNil(v any) bool { return v == nil }

func attrString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (a *Attribute) Bind(newValue any) { a.value = newValue }

func (a *Attribute) Connect(ctx Context) {
	if a.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: a.Commit, Label: "attribute:" + a.p.Name})
	}
}

func (a *Attribute) Disconnect(ctx Context) {
	if a.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: a.Rollback, Label: "attribute:" + a.p.Name + ":rollback"})
	}
}

func (a *Attribute) Commit() {
	a.applyTo(a.p.Node, a.value)
	a.committed.Store(true)
}

func (a *Attribute) Rollback() {
	if !a.committed.Load() {
		return
	}
	a.p.Node.RemoveAttribute(a.p.Name)
	a.committed.Store(false)
}

func (a *Attribute) applyTo(node backend.Node, value any) {
	switch v := value.(type) {
	case nil:
		node.RemoveAttribute(a.p.Name)
	case bool:
		if v {
			node.SetAttribute(a.p.Name, "")
		} else {
			node.RemoveAttribute(a.p.Name)
		}
	default:
		node.SetAttribute(a.p.Name, attrString(v))
	}
}

func (a *Attribute) Hydrate(tree HydrationTree) error {
	a.committed.Store(true)
	a.connected.Store(true)
	return nil
}
