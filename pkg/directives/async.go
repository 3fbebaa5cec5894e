package directives

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/template"
)

// Async is the resource directive: Run executes once per mount (and once
// more each time Key changes across renders) on its own goroutine, and the
// ChildNode it's bound to renders Pending, then whichever of Success or
// Failure matches how Run completed (spec §5's cooperative-scheduling
// model extended to genuinely asynchronous work, rather than a coroutine
// that only yields between synchronous render slices).
type Async[T any] struct {
	// Key identifies one logical fetch; Run only re-executes when Key
	// changes from the previous render (compared with !=), matching the
	// effect-hooks' dependency-array convention elsewhere in this module.
	Key     any
	Run     func(ctx context.Context) (T, error)
	Pending func() template.Literal
	Success func(value T) template.Literal
	Failure func(err error) template.Literal
}

// asyncer erases T so asyncBinding can stay non-generic.
type asyncer interface {
	key() any
	start(ctx context.Context, report func(result any, err error))
	render(status asyncStatus, result any, err error) template.Literal
}

type asyncStatus int

const (
	asyncPending asyncStatus = iota
	asyncSuccess
	asyncFailure
)

func (a Async[T]) key() any { return a.Key }

func (a Async[T]) start(ctx context.Context, report func(result any, err error)) {
	go func() {
		v, err := a.Run(ctx)
		report(v, err)
	}()
}

func (a Async[T]) render(status asyncStatus, result any, err error) template.Literal {
	switch status {
	case asyncSuccess:
		var zero T
		if result != nil {
			zero = result.(T)
		}
		return a.Success(zero)
	case asyncFailure:
		return a.Failure(err)
	default:
		return a.Pending()
	}
}

var asyncDirective = &directive.Directive{Name: "async", ResolveBinding: resolveAsync}

// ToDirective implements directive.Directed.
func (Async[T]) ToDirective(p *part.Part, _ directive.Context) (*directive.Directive, error) {
	if p.Kind != part.KindChildNode {
		return nil, &directive.MisuseError{DirectiveName: "async", Part: p, Reason: "an async directive can only bind to a ChildNode part"}
	}
	return asyncDirective, nil
}

func resolveAsync(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	a, ok := value.(asyncer)
	if !ok {
		return nil, fmt.Errorf("directives: async directive resolved a value that doesn't implement the Async contract")
	}
	tctx, ok := ctx.(*template.Context)
	if !ok {
		return nil, fmt.Errorf("directives: async directive requires a *template.Context to resolve")
	}
	if tctx.Runtime() == nil {
		return nil, fmt.Errorf("directives: async directive requires a runtime context (see template.NewRuntimeContext)")
	}
	return newAsyncBinding(p, a, tctx), nil
}

// asyncBinding drives Run on a background goroutine and, on completion,
// hands the result back to the owning Runtime's dedicated goroutine (via
// Runtime.Go) to render Success/Failure in place, the same ChildNode
// machinery literalBinding uses for synchronous nested templates.
type asyncBinding struct {
	p    *part.Part
	tctx *template.Context
	a    asyncer

	lastKey any
	status  asyncStatus
	value   any
	err     error

	cancel context.CancelFunc

	plan   *template.Plan
	output *template.Result

	connected atomic.Bool
	committed atomic.Bool
}

func newAsyncBinding(p *part.Part, a asyncer, tctx *template.Context) *asyncBinding {
	return &asyncBinding{p: p, a: a, tctx: tctx}
}

func (ab *asyncBinding) ShouldBind(any) bool { return true }
func (ab *asyncBinding) Bind(newValue any)   { ab.a = newValue.(asyncer) }
func (ab *asyncBinding) Value() any          { return ab.a }
func (ab *asyncBinding) Part() *part.Part    { return ab.p }

func (ab *asyncBinding) State() binding.State {
	switch {
	case ab.committed.Load():
		return binding.StateCommitted
	case ab.connected.Load():
		return binding.StateConnected
	default:
		return binding.StateDisconnected
	}
}

func (ab *asyncBinding) Connect(ctx directive.Context) {
	if c, ok := ctx.(*template.Context); ok {
		ab.tctx = c
	}
	if ab.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: ab.Commit, Label: "async"})
	}
}

func (ab *asyncBinding) Disconnect(ctx directive.Context) {
	if ab.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: ab.Rollback, Label: "async:rollback"})
	}
}

// Commit renders the current status immediately (Pending, on first
// mount or a Key change; whatever status is already known, otherwise) and,
// on a Key change, (re)starts Run.
func (ab *asyncBinding) Commit() {
	key := ab.a.key()
	if ab.cancel == nil || key != ab.lastKey {
		ab.restart(key)
	}
	ab.renderCurrent()
	ab.committed.Store(true)
}

func (ab *asyncBinding) restart(key any) {
	if ab.cancel != nil {
		ab.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ab.cancel = cancel
	ab.lastKey = key
	ab.status, ab.value, ab.err = asyncPending, nil, nil

	runtime := ab.tctx.Runtime()
	ab.a.start(ctx, func(result any, err error) {
		runtime.Go(func() {
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				ab.status, ab.err = asyncFailure, err
			} else {
				ab.status, ab.value = asyncSuccess, result
			}
			ab.renderCurrent()
		})
	})
}

func (ab *asyncBinding) renderCurrent() {
	lit := ab.a.render(ab.status, ab.value, ab.err)
	plan, err := template.Get(lit.Mode, lit.Source)
	if err != nil {
		panic(err)
	}

	if ab.output == nil || plan != ab.plan {
		ab.teardown()
		res, err := template.Instantiate(plan, lit.Source.Binds, ab.tctx.BackEnd(), ab.tctx)
		if err != nil {
			panic(err)
		}
		ab.plan, ab.output = plan, res
		ab.attach()
		ab.output.Commit()
	} else if err := ab.output.Update(lit.Source.Binds, ab.tctx); err != nil {
		panic(err)
	} else {
		ab.output.Commit()
	}
	ab.syncAnchor()
}

func (ab *asyncBinding) attach() {
	parent := ab.p.Node.Parent()
	if parent == nil || ab.output == nil {
		return
	}
	for _, n := range ab.output.Roots {
		parent.InsertBefore(n, ab.p.Node)
	}
}

func (ab *asyncBinding) teardown() {
	if ab.output == nil {
		return
	}
	ab.output.Rollback()
	for _, n := range ab.output.Roots {
		if parent := n.Parent(); parent != nil {
			parent.RemoveChild(n)
		}
	}
	ab.output, ab.plan = nil, nil
}

func (ab *asyncBinding) syncAnchor() {
	if ab.output != nil && len(ab.output.Roots) > 0 {
		ab.p.AnchorNode = ab.output.Roots[0]
	} else {
		ab.p.AnchorNode = nil
	}
}

func (ab *asyncBinding) Rollback() {
	if !ab.committed.Load() {
		return
	}
	if ab.cancel != nil {
		ab.cancel()
		ab.cancel = nil
	}
	ab.teardown()
	ab.syncAnchor()
	ab.committed.Store(false)
}

func (ab *asyncBinding) Hydrate(tree binding.HydrationTree) error {
	return fmt.Errorf("directives: async does not yet support hydration")
}

var _ binding.Binding = (*asyncBinding)(nil)
