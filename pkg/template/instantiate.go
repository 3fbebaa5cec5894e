package template

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/hydrate"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/slot"
)

// slotEntry remembers which Binds index fed a slot, so Update can re-drive
// it with the corresponding new value on a later render.
type slotEntry struct {
	index int
	s     slot.Slot
}

// Result is one instantiation of a Plan: the live root nodes it created (or
// adopted, for a hydrated instance) plus every hole's Slot, in Plan order.
type Result struct {
	Roots []backend.Node
	slots []slotEntry
}

// Commit runs every dirty slot's commit, in the order holes appear in the
// template (spec §4.4; a commit pass after Instantiate or Update).
func (r *Result) Commit() {
	for _, e := range r.slots {
		e.s.Commit()
	}
}

// Rollback undoes every slot's last commit (used when a parent's render is
// itself rolled back).
func (r *Result) Rollback() {
	for _, e := range r.slots {
		e.s.Rollback()
	}
}

// Update feeds each hole's corresponding entry in binds through its slot's
// Reconcile, in Plan order.
func (r *Result) Update(binds []any, ctx *Context) error {
	for _, e := range r.slots {
		if _, err := e.s.Reconcile(binds[e.index], ctx); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate realizes plan against a fresh subtree, built with be, binding
// each hole in binds to a Slot (spec §4.1's "instantiate" step). The
// returned Result's nodes are not yet attached anywhere; the caller inserts
// r.Roots into the live tree and then calls r.Commit() within the same
// frame.
func Instantiate(plan *Plan, binds []any, be backend.BackEnd, ctx *Context) (*Result, error) {
	r := &Result{}
	for _, root := range plan.roots {
		node, err := instantiateNode(root, plan.mode, binds, be, ctx, r)
		if err != nil {
			return nil, err
		}
		if node != nil {
			r.Roots = append(r.Roots, node)
		}
	}
	return r, nil
}

func instantiateNode(pn *planNode, mode Mode, binds []any, be backend.BackEnd, ctx *Context, r *Result) (backend.Node, error) {
	switch pn.kind {
	case planText:
		return be.CreateText(pn.text), nil

	case planComment:
		return be.CreateComment(pn.text), nil

	case planChildHole:
		anchor := be.CreateComment("")
		p := part.NewChildNode(anchor, nil, mode.namespaceURI())
		s, err := resolveAndBuildSlot(p, binds[pn.holeIndex], ctx)
		if err != nil {
			return nil, err
		}
		r.slots = append(r.slots, slotEntry{index: pn.holeIndex, s: s})
		return anchor, nil

	case planElement:
		node := be.CreateElement(pn.tag, mode.namespaceURI())
		for _, a := range pn.staticAttrs {
			node.SetAttribute(a.name, a.value)
		}
		for _, h := range pn.attrHoles {
			p := newAttrPart(node, h.name)
			s, err := resolveAndBuildSlot(p, binds[h.index], ctx)
			if err != nil {
				return nil, err
			}
			r.slots = append(r.slots, slotEntry{index: h.index, s: s})
		}
		if pn.elementHole {
			p := part.NewElement(node)
			s, err := resolveAndBuildSlot(p, binds[pn.elementHoleIdx], ctx)
			if err != nil {
				return nil, err
			}
			r.slots = append(r.slots, slotEntry{index: pn.elementHoleIdx, s: s})
		}
		for _, c := range pn.children {
			child, err := instantiateNode(c, mode, binds, be, ctx, r)
			if err != nil {
				return nil, err
			}
			if child != nil {
				node.InsertBefore(child, nil)
			}
		}
		return node, nil

	default:
		return nil, nil
	}
}

// newAttrPart builds the right Part variant for a compiled attribute hole,
// dispatching on name's `@`/`.`/`$` prefix (spec §4.1 step 5 / §6.3).
func newAttrPart(node backend.Node, rawName string) *part.Part {
	kind, name := part.ClassifyAttrName(rawName)
	switch kind {
	case part.KindEvent:
		return part.NewEvent(node, name)
	case part.KindProperty:
		return part.NewProperty(node, name, nil)
	case part.KindLive:
		return part.NewLive(node, name, nil)
	default:
		return part.NewAttribute(node, name)
	}
}

func resolveAndBuildSlot(p *part.Part, value any, ctx *Context) (slot.Slot, error) {
	dir, err := ctx.ResolveDirective(value, p)
	if err != nil {
		return nil, err
	}
	raw, err := dir.ResolveBinding(value, p, ctx)
	if err != nil {
		return nil, err
	}
	b, ok := raw.(binding.Binding)
	if !ok {
		return nil, &CompileError{Reason: "resolved binding does not implement the full binding contract"}
	}
	b.Connect(ctx)
	return slot.NewFlexible(p, dir, b), nil
}

// InstantiateHydrate is Instantiate's counterpart for adopting server
// rendered markup: instead of creating nodes, it walks w in lock-step with
// plan, matching expected node kinds and binding each hole's Binding.Hydrate
// rather than Commit (spec §4.9).
func InstantiateHydrate(plan *Plan, binds []any, be backend.BackEnd, ctx *Context, w *hydrate.Walker) (*Result, error) {
	r := &Result{}
	for _, root := range plan.roots {
		node, err := hydrateNode(root, plan.mode, binds, be, ctx, w, r)
		if err != nil {
			return nil, err
		}
		if node != nil {
			r.Roots = append(r.Roots, node)
		}
	}
	return r, nil
}

func hydrateNode(pn *planNode, mode Mode, binds []any, be backend.BackEnd, ctx *Context, w *hydrate.Walker, r *Result) (backend.Node, error) {
	switch pn.kind {
	case planText:
		n, err := w.NextNode(backend.NodeText)
		if err != nil {
			return nil, err
		}
		return n, nil

	case planComment:
		n, err := w.NextNode(backend.NodeComment)
		if err != nil {
			return nil, err
		}
		return n, nil

	case planChildHole:
		anchor, err := w.NextNode(backend.NodeComment)
		if err != nil {
			return nil, err
		}
		p := part.NewChildNode(anchor, nil, mode.namespaceURI())
		s, err := hydrateSlot(p, binds[pn.holeIndex], ctx, w)
		if err != nil {
			return nil, err
		}
		r.slots = append(r.slots, slotEntry{index: pn.holeIndex, s: s})
		return anchor, nil

	case planElement:
		node, err := w.NextNode(backend.NodeElement)
		if err != nil {
			return nil, err
		}
		for _, h := range pn.attrHoles {
			p := newAttrPart(node, h.name)
			s, err := hydrateSlot(p, binds[h.index], ctx, w)
			if err != nil {
				return nil, err
			}
			r.slots = append(r.slots, slotEntry{index: h.index, s: s})
		}
		if pn.elementHole {
			p := part.NewElement(node)
			s, err := hydrateSlot(p, binds[pn.elementHoleIdx], ctx, w)
			if err != nil {
				return nil, err
			}
			r.slots = append(r.slots, slotEntry{index: pn.elementHoleIdx, s: s})
		}
		child := w.Child(node)
		for _, c := range pn.children {
			if _, err := hydrateNode(c, mode, binds, be, ctx, child, r); err != nil {
				return nil, err
			}
		}
		return node, nil

	default:
		return nil, nil
	}
}

func hydrateSlot(p *part.Part, value any, ctx *Context, w *hydrate.Walker) (slot.Slot, error) {
	dir, err := ctx.ResolveDirective(value, p)
	if err != nil {
		return nil, err
	}
	raw, err := dir.ResolveBinding(value, p, ctx)
	if err != nil {
		return nil, err
	}
	// ResolveBinding's declared return type is directive.Binding (the
	// narrow shape pkg/directive defines to avoid importing pkg/binding);
	// every concrete binding this package resolves also implements the
	// full binding.Binding, including Hydrate, so the assertion always
	// succeeds for bindings built through template.Context.
	b, ok := raw.(binding.Binding)
	if !ok {
		return nil, &CompileError{Reason: "resolved binding does not support hydration"}
	}
	if err := b.Hydrate(w); err != nil {
		return nil, err
	}
	return slot.NewFlexible(p, dir, b), nil
}
