package directives

import (
	"fmt"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/reconcile"
	"github.com/filament-ui/filament/pkg/template"
)

// Repeat is the keyed-list directive: Items rendered through Render, keyed
// by Key, reconciled against the previous render with pkg/reconcile's
// two-ended diff rather than a full teardown/rebuild on every change (spec
// §4.6's consumer in the directive catalog).
type Repeat[T any] struct {
	Items  []T
	Key    func(item T) any
	Render func(item T) template.Literal
}

// repeatRow is one reconciled row: the instantiated template for one Items
// element, plus the key it was keyed under, kept around so Commit can diff
// against it on the next render without re-running Key/Render (a
// binding.Binding can't be generic, since the directive.Binding interface it
// satisfies isn't parameterized, so Repeat[T] is erased to the repeater
// interface before it reaches repeatBinding).
type repeatRow struct {
	plan   *template.Plan
	result *template.Result
	key    any
}

var repeatDirective = &directive.Directive{Name: "repeat", ResolveBinding: resolveRepeat}

// ToDirective implements directive.Directed.
func (Repeat[T]) ToDirective(p *part.Part, _ directive.Context) (*directive.Directive, error) {
	if p.Kind != part.KindChildNode {
		return nil, &directive.MisuseError{DirectiveName: "repeat", Part: p, Reason: "a repeat directive can only bind to a ChildNode part"}
	}
	return repeatDirective, nil
}

// repeater is the narrow surface repeatBinding needs from a Repeat[T],
// erasing T so the binding implementation can stay non-generic.
type repeater interface {
	keys() []any
	literals() []template.Literal
}

func (r Repeat[T]) keys() []any {
	ks := make([]any, len(r.Items))
	for i, it := range r.Items {
		ks[i] = r.Key(it)
	}
	return ks
}

func (r Repeat[T]) literals() []template.Literal {
	ls := make([]template.Literal, len(r.Items))
	for i, it := range r.Items {
		ls[i] = r.Render(it)
	}
	return ls
}

func resolveRepeat(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	rep, ok := value.(repeater)
	if !ok {
		return nil, fmt.Errorf("directives: repeat directive resolved a value that doesn't implement the Repeat contract")
	}
	tctx, ok := ctx.(*template.Context)
	if !ok {
		return nil, fmt.Errorf("directives: repeat directive requires a *template.Context to resolve")
	}
	return newRepeatBinding(p, rep, tctx), nil
}

// repeatBinding owns one live template.Result per row, keyed by Repeat's Key
// function, reconciled with pkg/reconcile.Reconcile on every commit.
type repeatBinding struct {
	p    *part.Part
	tctx *template.Context
	rep  repeater

	rows []*repeatRow

	connected atomic.Bool
	committed atomic.Bool
}

func newRepeatBinding(p *part.Part, rep repeater, tctx *template.Context) *repeatBinding {
	return &repeatBinding{p: p, rep: rep, tctx: tctx}
}

func (rb *repeatBinding) ShouldBind(any) bool { return true }
func (rb *repeatBinding) Bind(newValue any)   { rb.rep = newValue.(repeater) }
func (rb *repeatBinding) Value() any          { return rb.rep }
func (rb *repeatBinding) Part() *part.Part    { return rb.p }

func (rb *repeatBinding) State() binding.State {
	switch {
	case rb.committed.Load():
		return binding.StateCommitted
	case rb.connected.Load():
		return binding.StateConnected
	default:
		return binding.StateDisconnected
	}
}

func (rb *repeatBinding) Connect(ctx directive.Context) {
	if c, ok := ctx.(*template.Context); ok {
		rb.tctx = c
	}
	if rb.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: rb.Commit, Label: "repeat"})
	}
}

func (rb *repeatBinding) Disconnect(ctx directive.Context) {
	if rb.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: rb.Rollback, Label: "repeat:rollback"})
	}
}

func (rb *repeatBinding) handler() reconcile.Handler[int, *repeatRow] {
	keys := rb.rep.keys()
	literals := rb.rep.literals()
	return reconcile.Handler[int, *repeatRow]{
		Key: func(i int) any { return keys[i] },
		Create: func(i int, _ int) *repeatRow {
			// Reconcile always follows a Create with a Move (flushMoves),
			// so the row is instantiated here and inserted into the DOM
			// there — never both here.
			row := &repeatRow{key: keys[i]}
			rb.renderRow(row, literals[i])
			return row
		},
		Update: func(row *repeatRow, i int) {
			rb.renderRow(row, literals[i])
		},
		Move: func(row *repeatRow, anchor *repeatRow, hasAnchor bool) {
			rb.insertRow(row, rowAnchor(anchor, hasAnchor, rb.p.Node))
		},
		Remove: func(row *repeatRow) {
			rb.removeRow(row)
		},
	}
}

func rowAnchor(anchor *repeatRow, hasAnchor bool, fallback backend.Node) backend.Node {
	if hasAnchor && anchor != nil && len(anchor.result.Roots) > 0 {
		return anchor.result.Roots[0]
	}
	return fallback
}

// Commit reconciles rb.rows against the current index range [0, len(Items)),
// using each index as the stand-in T value (the concrete key/render
// extraction happens through rb.rep, erased from the generic T).
func (rb *repeatBinding) Commit() {
	n := len(rb.rep.keys())
	indices := make([]int, n)
	keys := make([]any, len(rb.rows))
	for i := range indices {
		indices[i] = i
	}
	for i, row := range rb.rows {
		keys[i] = row.key
	}
	rb.rows = reconcile.Reconcile(rb.rows, keys, indices, rb.handler())
	rb.committed.Store(true)
}

func (rb *repeatBinding) renderRow(row *repeatRow, lit template.Literal) {
	plan, err := template.Get(lit.Mode, lit.Source)
	if err != nil {
		panic(err)
	}
	if row.result == nil || plan != row.plan {
		if row.result != nil {
			rb.removeRow(row)
		}
		res, err := template.Instantiate(plan, lit.Source.Binds, rb.tctx.BackEnd(), rb.tctx)
		if err != nil {
			panic(err)
		}
		row.plan, row.result = plan, res
		return
	}
	if err := row.result.Update(lit.Source.Binds, rb.tctx); err != nil {
		panic(err)
	}
	row.result.Commit()
}

func (rb *repeatBinding) insertRow(row *repeatRow, anchor backend.Node) {
	parent := rb.p.Node.Parent()
	if parent == nil || row.result == nil {
		return
	}
	for _, n := range row.result.Roots {
		parent.InsertBefore(n, anchor)
	}
	row.result.Commit()
}

func (rb *repeatBinding) removeRow(row *repeatRow) {
	if row.result == nil {
		return
	}
	row.result.Rollback()
	for _, n := range row.result.Roots {
		if parent := n.Parent(); parent != nil {
			parent.RemoveChild(n)
		}
	}
	row.result, row.plan = nil, nil
}

func (rb *repeatBinding) Rollback() {
	if !rb.committed.Load() {
		return
	}
	for _, row := range rb.rows {
		rb.removeRow(row)
	}
	rb.rows = nil
	rb.committed.Store(false)
}

func (rb *repeatBinding) Hydrate(tree binding.HydrationTree) error {
	return fmt.Errorf("directives: repeat does not yet support hydration")
}

var _ binding.Binding = (*repeatBinding)(nil)
