// Package directives is the built-in directive catalog layered on top of
// the core binding/slot machinery: Component (a hook-bearing, independently
// schedulable nested render), Repeat (a keyed list), Signal (a fine-grained
// reactive value), and Async (a resource that renders its pending/settled
// states). None of these are part of the core contract in spec §3/§4 — a
// template author could write equivalents with pkg/template, pkg/hooks and
// pkg/reconcile directly — but every non-trivial template in this module
// uses at least Component, so they ship as the reference catalog (spec
// §4.8, "ADDED, thin").
package directives

import (
	"fmt"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/hooks"
	"github.com/filament-ui/filament/pkg/hydrate"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/scope"
	"github.com/filament-ui/filament/pkg/template"
)

// ComponentFunc is a component's render body: it may call pkg/hooks
// functions (UseState, UseEffect, ...) and must return the template it
// wants rendered for the current props/state.
type ComponentFunc func() template.Literal

// Component wraps a ComponentFunc as a ChildNode value: bound into a hole,
// it mounts a hooks.Frame that can re-render itself on its own schedule
// (driven by its own hook dispatches) independently of its parent
// template's render cycle (spec §4.8).
type Component struct {
	Render ComponentFunc
}

var componentDirective = &directive.Directive{Name: "component", ResolveBinding: resolveComponent}

// ToDirective implements directive.Directed. The directive identity never
// changes across renders (every Component shares componentDirective), so a
// Flexible slot reconciles in place rather than tearing the component down
// whenever its parent re-renders with a fresh Component value.
func (Component) ToDirective(p *part.Part, _ directive.Context) (*directive.Directive, error) {
	if p.Kind != part.KindChildNode {
		return nil, &directive.MisuseError{DirectiveName: "component", Part: p, Reason: "a component can only bind to a ChildNode part"}
	}
	return componentDirective, nil
}

func resolveComponent(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	comp, ok := value.(Component)
	if !ok {
		return nil, fmt.Errorf("directives: component directive resolved a non-Component value")
	}
	tctx, ok := ctx.(*template.Context)
	if !ok {
		return nil, fmt.Errorf("directives: component directive requires a *template.Context to resolve")
	}
	if tctx.Runtime() == nil {
		return nil, fmt.Errorf("directives: component directive requires a runtime context (see template.NewRuntimeContext)")
	}
	return newComponentBinding(p, comp, tctx), nil
}

// componentBinding is the ChildNode binding a Component resolves to. It
// owns a hooks.Frame (the component's hook array and re-render entry
// point) and, inside that frame's render, the nested template.Result its
// last render produced.
//
// Re-renders reach this binding two ways: the parent template reconciles
// the hole with a fresh Component value (Bind, then Commit), or the
// component's own hook state schedules a render directly against the
// Frame (forceUpdate -> runtime.ScheduleUpdate(frame, lanes)), bypassing
// this binding's Commit entirely. Both paths converge on renderOnce,
// which is the Frame's renderFn.
type componentBinding struct {
	p    *part.Part
	tctx *template.Context
	comp Component

	frame *hooks.Frame
	scope *scope.Scope

	pending template.Literal
	plan    *template.Plan
	result  *template.Result

	hydrating bool
	walker    *hydrate.Walker

	connected atomic.Bool
	committed atomic.Bool
}

func newComponentBinding(p *part.Part, comp Component, tctx *template.Context) *componentBinding {
	cb := &componentBinding{p: p, comp: comp, tctx: tctx}
	cb.scope = scope.NewChild(tctx.Scope())
	cb.frame = hooks.New(cb.renderOnce, tctx.Runtime(), cb.scope)
	return cb
}

// renderOnce is the Frame's renderFn: it runs the component body (which may
// call hooks, reading/writing this Frame's state) and immediately applies
// the resulting template to the live tree, routing effects into whichever
// scheduler frame is currently resuming this Frame — the frame this
// render was entered from, fetched via cb.frame.Context(), not necessarily
// the frame that originally connected this binding.
func (cb *componentBinding) renderOnce() {
	cb.pending = cb.comp.Render()

	fc := cb.frame.Context()
	rctx := template.NewRuntimeContext(fc, cb.tctx.BackEnd(), cb.tctx.Runtime(), cb.scope)

	if cb.hydrating {
		cb.applyHydrate(rctx)
		return
	}
	cb.applyCommit(rctx)
}

func (cb *componentBinding) applyCommit(rctx *template.Context) {
	plan, err := template.Get(cb.pending.Mode, cb.pending.Source)
	if err != nil {
		panic(err)
	}

	if cb.result == nil || plan != cb.plan {
		cb.teardown()
		res, err := template.Instantiate(plan, cb.pending.Source.Binds, rctx.BackEnd(), rctx)
		if err != nil {
			panic(err)
		}
		cb.plan, cb.result = plan, res
		cb.attach()
		cb.result.Commit()
	} else if err := cb.result.Update(cb.pending.Source.Binds, rctx); err != nil {
		panic(err)
	} else {
		cb.result.Commit()
	}

	cb.syncAnchor()
}

func (cb *componentBinding) applyHydrate(rctx *template.Context) {
	plan, err := template.Get(cb.pending.Mode, cb.pending.Source)
	if err != nil {
		panic(err)
	}
	res, err := template.InstantiateHydrate(plan, cb.pending.Source.Binds, rctx.BackEnd(), rctx, cb.walker)
	if err != nil {
		panic(err)
	}
	cb.plan, cb.result = plan, res
	cb.syncAnchor()
}

func (cb *componentBinding) ShouldBind(any) bool { return true }
func (cb *componentBinding) Bind(newValue any)   { cb.comp = newValue.(Component) }
func (cb *componentBinding) Value() any          { return cb.comp }
func (cb *componentBinding) Part() *part.Part    { return cb.p }

func (cb *componentBinding) State() binding.State {
	switch {
	case cb.committed.Load():
		return binding.StateCommitted
	case cb.connected.Load():
		return binding.StateConnected
	default:
		return binding.StateDisconnected
	}
}

func (cb *componentBinding) Connect(ctx directive.Context) {
	if c, ok := ctx.(*template.Context); ok {
		cb.tctx = c
	}
	if cb.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: cb.mount, Label: "component"})
	}
}

func (cb *componentBinding) Disconnect(ctx directive.Context) {
	if cb.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: cb.unmount, Label: "component:rollback"})
	}
}

func (cb *componentBinding) mount() {
	cb.frame.RunSync(cb.tctx.FrameContext)
	cb.committed.Store(true)
}

// Commit re-renders the component in place: called whenever the parent
// template reconciles this hole with a fresh Component value (new props
// captured by the closure), as distinct from the component rescheduling
// its own re-render via a hook dispatch.
func (cb *componentBinding) Commit() {
	cb.frame.Resume(cb.tctx.FrameContext)
	cb.committed.Store(true)
}

func (cb *componentBinding) Rollback() { cb.unmount() }

func (cb *componentBinding) unmount() {
	if !cb.committed.Load() {
		return
	}
	cb.frame.Dispose()
	cb.teardown()
	cb.syncAnchor()
	cb.committed.Store(false)
}

func (cb *componentBinding) attach() {
	parent := cb.p.Node.Parent()
	if parent == nil || cb.result == nil {
		return
	}
	for _, n := range cb.result.Roots {
		parent.InsertBefore(n, cb.p.Node)
	}
}

func (cb *componentBinding) teardown() {
	if cb.result == nil {
		return
	}
	cb.result.Rollback()
	for _, n := range cb.result.Roots {
		if parent := n.Parent(); parent != nil {
			parent.RemoveChild(n)
		}
	}
	cb.result, cb.plan = nil, nil
}

func (cb *componentBinding) syncAnchor() {
	if cb.result != nil && len(cb.result.Roots) > 0 {
		cb.p.AnchorNode = cb.result.Roots[0]
	} else {
		cb.p.AnchorNode = nil
	}
}

// Hydrate adopts pre-rendered markup instead of creating it: the component
// still runs its render body once (so its hooks initialize normally), but
// renderOnce's nested apply routes through applyHydrate rather than
// applyCommit. applyHydrate panics on a structural mismatch the same way
// applyCommit does; recovered here and surfaced as an error, since Hydrate
// is the one call in this contract that reports failure by return value.
func (cb *componentBinding) Hydrate(tree binding.HydrationTree) (err error) {
	w, ok := tree.(*hydrate.Walker)
	if !ok {
		return fmt.Errorf("directives: component hydration requires a *hydrate.Walker")
	}
	cb.walker, cb.hydrating = w, true
	defer func() {
		cb.hydrating = false
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("directives: component hydration panic: %v", r)
			}
		}
	}()

	cb.frame.RunSync(cb.tctx.FrameContext)
	cb.connected.Store(true)
	cb.committed.Store(true)
	return nil
}

var _ binding.Binding = (*componentBinding)(nil)
