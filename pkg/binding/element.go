package binding

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Element binds a map of microbinding keys ("foo"/".foo"/"@foo"/"$foo") to
// Attribute/Property/Event/Live submicrobindings for "the whole element"
// (spec §3, §4.3). Removing a key from one render to the next rolls back
// that microbinding.
type Element struct {
	base
	micro map[string]Binding
}

// NewElement constructs an Element binding for p with an empty microbinding
// set; Bind populates it from the first map value.
func NewElement(p *part.Part) *Element {
	return &Element{base: base{p: p}, micro: make(map[string]Binding)}
}

func (el *Element) ShouldBind(newValue any) bool {
	// An Element part always re-diffs its microbindings; the cost of a
	// spurious diff is a handful of map lookups, not a DOM write.
	return true
}

func (el *Element) Bind(newValue any) { el.value = newValue }

func (el *Element) Connect(ctx Context) {
	if !el.connected.CompareAndSwap(false, true) {
		return
	}
	ctx.EnqueueMutation(backend.Effect{Commit: el.Commit, Label: "element"})
}

func (el *Element) Disconnect(ctx Context) {
	if !el.connected.CompareAndSwap(true, false) {
		return
	}
	ctx.EnqueueMutation(backend.Effect{Commit: el.Rollback, Label: "element:rollback"})
}

// Commit diffs el.value (a map[string]any, or nil) against the previously
// committed microbindings, creating/updating/removing submicrobindings as
// needed, then commits every dirty one.
func (el *Element) Commit() {
	next, _ := el.value.(map[string]any)

	for key := range el.micro {
		if _, ok := next[key]; !ok {
			el.micro[key].Rollback()
			delete(el.micro, key)
		}
	}

	for key, v := range next {
		if mb, ok := el.micro[key]; ok {
			if mb.ShouldBind(v) {
				mb.Bind(v)
				mb.Commit()
			}
			continue
		}
		kind, name := part.ClassifyAttrName(key)
		var mb Binding
		switch kind {
		case part.KindEvent:
			mb = NewEvent(part.NewEvent(el.p.Node, name), v)
		case part.KindProperty:
			mb = NewProperty(part.NewProperty(el.p.Node, name, nil), v)
		case part.KindLive:
			mb = NewLive(part.NewLive(el.p.Node, name, nil), v)
		default:
			mb = NewAttribute(part.NewAttribute(el.p.Node, name), v)
		}
		mb.Commit()
		el.micro[key] = mb
	}

	el.committed.Store(true)
}

func (el *Element) Rollback() {
	if !el.committed.Load() {
		return
	}
	for key, mb := range el.micro {
		mb.Rollback()
		delete(el.micro, key)
	}
	el.committed.Store(false)
}

func (el *Element) Hydrate(tree HydrationTree) error {
	el.committed.Store(true)
	el.connected.Store(true)
	return nil
}
