package directives

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/template"
)

// Signal is a fine-grained reactive value: bound directly into a template
// hole (Attribute, Property, Live, Text, or ChildNode), it re-commits only
// that one Part on Set, never the surrounding component: through
// Runtime.Go when bound with a Runtime, inline otherwise, with no lane
// attached to that commit. Unlike the hook-driven re-render a Component
// schedules for itself through forceUpdate, a Signal's subscribers run
// outside any hooks.Frame, so Signal is usable from plain package-level
// state as well as from inside a component body.
type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	subs  map[int]func(T)
	nextID int
}

// NewSignal constructs a Signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial, subs: make(map[int]func(T))}
}

// Get reads the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and synchronously notifies every subscriber currently
// registered (template holes bound to this Signal).
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(value)
	}
}

// Update reads the current value, computes the next one with fn, and Sets
// it — the functional-update form, for callers that don't want a
// read-modify-write race against a concurrent Set.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	subs := make([]func(T), 0, len(s.subs))
	for _, f := range s.subs {
		subs = append(subs, f)
	}
	s.mu.Unlock()
	for _, f := range subs {
		f(next)
	}
}

func (s *Signal[T]) subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// signalValue erases T so signalBinding, and the directive machinery that
// stores values as `any`, can work with a Signal[T] without itself being
// generic.
type signalValue interface {
	get() any
	subscribeAny(fn func(any)) func()
}

func (s *Signal[T]) get() any { return s.Get() }

func (s *Signal[T]) subscribeAny(fn func(any)) func() {
	return s.subscribe(func(v T) { fn(v) })
}

var signalDirective = &directive.Directive{Name: "signal", ResolveBinding: resolveSignal}

// ToDirective implements directive.Directed: a Signal binds to any
// value-bearing Part kind (everything except Event and Element, which
// don't carry a single scalar value).
func (s *Signal[T]) ToDirective(p *part.Part, _ directive.Context) (*directive.Directive, error) {
	switch p.Kind {
	case part.KindEvent, part.KindElement:
		return nil, &directive.MisuseError{DirectiveName: "signal", Part: p, Reason: "a signal cannot bind to an Event or Element part"}
	}
	return signalDirective, nil
}

func resolveSignal(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	sv, ok := value.(signalValue)
	if !ok {
		return nil, fmt.Errorf("directives: signal directive resolved a value that doesn't implement the Signal contract")
	}
	tctx, ok := ctx.(*template.Context)
	if !ok {
		return nil, fmt.Errorf("directives: signal directive requires a *template.Context to resolve")
	}
	return newSignalBinding(p, sv, tctx), nil
}

// signalBinding delegates actual DOM application to the Part's default
// primitive binding (the same Attribute/Property/Live/Text/ChildNode
// binding a plain scalar value would resolve to), re-driven every time
// either the bound Signal changes identity (a new Signal replaces the old
// one across renders) or the current Signal fires a Set.
type signalBinding struct {
	p       *part.Part
	tctx    *template.Context
	sig     signalValue
	inner   binding.Binding
	unsub   func()
	runtime *scheduler.Runtime

	connected atomic.Bool
	committed atomic.Bool
}

func newSignalBinding(p *part.Part, sig signalValue, tctx *template.Context) *signalBinding {
	return &signalBinding{p: p, sig: sig, tctx: tctx, runtime: tctx.Runtime()}
}

func (sb *signalBinding) buildInner() binding.Binding {
	prim := template.DefaultPrimitive(sb.tctx.BackEnd())
	dir, err := prim(sb.sig.get(), sb.p)
	if err != nil {
		panic(err)
	}
	b, err := dir.ResolveBinding(sb.sig.get(), sb.p, sb.tctx)
	if err != nil {
		panic(err)
	}
	return b.(binding.Binding)
}

func (sb *signalBinding) ShouldBind(newValue any) bool {
	next, ok := newValue.(signalValue)
	return !ok || next != sb.sig
}

func (sb *signalBinding) Bind(newValue any) {
	if next, ok := newValue.(signalValue); ok {
		sb.sig = next
	}
}

func (sb *signalBinding) Value() any       { return sb.sig }
func (sb *signalBinding) Part() *part.Part { return sb.p }

func (sb *signalBinding) State() binding.State {
	switch {
	case sb.committed.Load():
		return binding.StateCommitted
	case sb.connected.Load():
		return binding.StateConnected
	default:
		return binding.StateDisconnected
	}
}

func (sb *signalBinding) Connect(ctx directive.Context) {
	if c, ok := ctx.(*template.Context); ok {
		sb.tctx = c
		if sb.runtime == nil {
			sb.runtime = c.Runtime()
		}
	}
	if sb.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: sb.Commit, Label: "signal"})
	}
}

func (sb *signalBinding) Disconnect(ctx directive.Context) {
	if sb.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: sb.Rollback, Label: "signal:rollback"})
	}
}

// Commit (re)builds the inner binding against the Signal's current value,
// subscribing for future Set calls if this is the first commit (or the
// Signal identity changed since the last one).
func (sb *signalBinding) Commit() {
	if sb.inner == nil {
		sb.inner = sb.buildInner()
		sb.inner.Connect(sb.tctx)
		sb.resubscribe()
	} else if sb.inner.ShouldBind(sb.sig.get()) {
		sb.inner.Bind(sb.sig.get())
		sb.inner.Commit()
	}
	sb.committed.Store(true)
}

// resubscribe registers a listener that schedules a standalone commit of
// this binding alone whenever the Signal fires, via the owning Runtime if
// one is available (a live component tree), or synchronously against the
// BackEnd otherwise (a Signal used outside any scheduler, e.g. in a unit
// test driving memdom directly).
func (sb *signalBinding) resubscribe() {
	if sb.unsub != nil {
		sb.unsub()
	}
	sb.unsub = sb.sig.subscribeAny(func(any) {
		sb.applyChange()
	})
}

func (sb *signalBinding) applyChange() {
	if sb.runtime == nil {
		sb.inner.Bind(sb.sig.get())
		sb.inner.Commit()
		return
	}
	sb.runtime.Go(func() {
		sb.inner.Bind(sb.sig.get())
		sb.inner.Commit()
	})
}

func (sb *signalBinding) Rollback() {
	if !sb.committed.Load() {
		return
	}
	if sb.unsub != nil {
		sb.unsub()
		sb.unsub = nil
	}
	if sb.inner != nil {
		sb.inner.Rollback()
	}
	sb.committed.Store(false)
}

func (sb *signalBinding) Hydrate(tree binding.HydrationTree) error {
	sb.inner = sb.buildInner()
	if err := sb.inner.Hydrate(tree); err != nil {
		return err
	}
	sb.resubscribe()
	sb.connected.Store(true)
	sb.committed.Store(true)
	return nil
}

var _ binding.Binding = (*signalBinding)(nil)
