package template

import (
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/hydrate"
	"github.com/filament-ui/filament/pkg/part"
)

// Literal is the value a `html`/`svg`/`math`/`text` tag function produces
// (the root package's HTML/SVG/Math/Text helpers build one): Go's stand-in
// for what a JS engine assembles for a tagged template call, a Source plus
// the Mode selecting how it parses (spec §4.1). Binding a Literal to a
// ChildNode hole — the common case of a component returning a template, or
// nesting one template inside another — drives Compile/Instantiate/Update
// automatically through the Directed protocol (spec §4.2's "to-directive"
// clause), without the caller ever touching this package directly.
type Literal struct {
	Mode   Mode
	Source Source
}

// literalDirective is shared by every Literal value: keeping one *Directive
// identity means a Flexible slot never tears down and rebuilds the
// literalBinding just because a component returned a new Literal value (a
// fresh struct every render) — it reconciles through the same binding
// instead, matching spec §4.4's "behave like Strict" branch when the
// directive hasn't changed.
var literalDirective = &directive.Directive{Name: "template-literal", ResolveBinding: resolveLiteral}

// ToDirective implements directive.Directed.
func (l Literal) ToDirective(p *part.Part, _ directive.Context) (*directive.Directive, error) {
	if p.Kind != part.KindChildNode {
		return nil, &directive.MisuseError{DirectiveName: "template-literal", Part: p, Reason: "a template literal can only bind to a ChildNode part"}
	}
	return literalDirective, nil
}

func resolveLiteral(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	lit, ok := value.(Literal)
	if !ok {
		return nil, &CompileError{Reason: "template-literal directive resolved a non-Literal value"}
	}
	tctx, ok := ctx.(*Context)
	if !ok {
		return nil, &CompileError{Reason: "a template literal requires a *template.Context to resolve"}
	}
	return newLiteralBinding(p, lit, tctx), nil
}

// literalBinding is the ChildNode binding that owns a nested template
// instance: on Commit it compiles (via the package cache) and instantiates
// (or, if the plan is unchanged from the last commit, updates) a Result,
// inserting its root nodes into the part's owned range.
type literalBinding struct {
	p   *part.Part
	ctx *Context
	lit Literal

	plan   *Plan
	result *Result

	connected atomic.Bool
	committed atomic.Bool
}

func newLiteralBinding(p *part.Part, lit Literal, ctx *Context) *literalBinding {
	return &literalBinding{p: p, lit: lit, ctx: ctx}
}

// ShouldBind always reports a change: Literal wraps a Source whose Binds
// may be uncomparable (slices, funcs), so the conservative default is to
// always re-commit; Commit/Update below is the actual point at which
// per-hole ShouldBind comparisons skip real DOM writes.
func (lb *literalBinding) ShouldBind(any) bool { return true }

func (lb *literalBinding) Bind(newValue any) { lb.lit = newValue.(Literal) }

func (lb *literalBinding) Value() any         { return lb.lit }
func (lb *literalBinding) Part() *part.Part   { return lb.p }

func (lb *literalBinding) State() binding.State {
	switch {
	case lb.committed.Load():
		return binding.StateCommitted
	case lb.connected.Load():
		return binding.StateConnected
	default:
		return binding.StateDisconnected
	}
}

func (lb *literalBinding) Connect(ctx directive.Context) {
	if c, ok := ctx.(*Context); ok {
		lb.ctx = c
	}
	if lb.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: lb.Commit, Label: "template-literal"})
	}
}

func (lb *literalBinding) Disconnect(ctx directive.Context) {
	if lb.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: lb.Rollback, Label: "template-literal:rollback"})
	}
}

// Commit compiles lb.lit, then either instantiates a fresh Result (first
// commit, or the component switched to a structurally different template)
// or updates the existing one in place.
func (lb *literalBinding) Commit() {
	plan, err := Get(lb.lit.Mode, lb.lit.Source)
	if err != nil {
		panic(err)
	}

	if lb.result == nil || plan != lb.plan {
		lb.teardown()
		res, err := Instantiate(plan, lb.lit.Source.Binds, lb.ctx.BackEnd(), lb.ctx)
		if err != nil {
			panic(err)
		}
		lb.plan = plan
		lb.result = res
		lb.attach()
		lb.result.Commit()
	} else if err := lb.result.Update(lb.lit.Source.Binds, lb.ctx); err != nil {
		panic(err)
	} else {
		lb.result.Commit()
	}

	lb.syncAnchor()
	lb.committed.Store(true)
}

func (lb *literalBinding) Rollback() {
	if !lb.committed.Load() {
		return
	}
	lb.teardown()
	lb.syncAnchor()
	lb.committed.Store(false)
}

// attach inserts the current result's root nodes immediately before this
// part's comment marker (spec §4.3: "commit inserts new child nodes before
// the comment anchor").
func (lb *literalBinding) attach() {
	parent := lb.p.Node.Parent()
	if parent == nil || lb.result == nil {
		return
	}
	for _, n := range lb.result.Roots {
		parent.InsertBefore(n, lb.p.Node)
	}
}

func (lb *literalBinding) teardown() {
	if lb.result == nil {
		return
	}
	lb.result.Rollback()
	for _, n := range lb.result.Roots {
		if parent := n.Parent(); parent != nil {
			parent.RemoveChild(n)
		}
	}
	lb.result = nil
	lb.plan = nil
}

// syncAnchor maintains invariant I4: anchorNode equals the first node of
// the owned range, or nil when the range is empty.
func (lb *literalBinding) syncAnchor() {
	if lb.result != nil && len(lb.result.Roots) > 0 {
		lb.p.AnchorNode = lb.result.Roots[0]
	} else {
		lb.p.AnchorNode = nil
	}
}

func (lb *literalBinding) Hydrate(tree binding.HydrationTree) error {
	w, ok := tree.(*hydrate.Walker)
	if !ok {
		return &CompileError{Reason: "template literal hydration requires a *hydrate.Walker"}
	}
	plan, err := Get(lb.lit.Mode, lb.lit.Source)
	if err != nil {
		return err
	}
	res, err := InstantiateHydrate(plan, lb.lit.Source.Binds, lb.ctx.BackEnd(), lb.ctx, w)
	if err != nil {
		return err
	}
	lb.plan = plan
	lb.result = res
	lb.syncAnchor()
	lb.committed.Store(true)
	lb.connected.Store(true)
	return nil
}

var _ binding.Binding = (*literalBinding)(nil)
