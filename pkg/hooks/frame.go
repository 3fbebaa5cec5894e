// Package hooks implements the positional hook array that gives a
// component's render function stable, order-dependent state across renders:
// useState/useReducer, useMemo/useCallback/useRef, the three effect hooks,
// useId, useSyncExternalStore, useDeferredValue, use, and the
// forceUpdate/waitForUpdate/isUpdatePending/context trio (spec §3 "Hook",
// §4.5).
//
// Hook functions (UseState, UseEffect, ...) are free functions rather than
// Frame methods because template-author code calls them without a Frame in
// scope, the same way React/Solid components call useState() directly; the
// "current Frame" is tracked per goroutine (tracking.go), adapted from the
// teacher's per-goroutine tracking context.
package hooks

import (
	"fmt"
	"sync"

	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/scope"
)

// Cleanup is returned by an effect callback to be run before the next
// invocation of that effect, or when the Frame is torn down.
type Cleanup func()

// Frame is one component instance's hook array plus enough scheduling
// context to implement scheduler.Coroutine directly: resuming a Frame means
// re-running its render function with the hook cursor rewound to zero.
type Frame struct {
	renderFn func()
	runtime  *scheduler.Runtime
	scope    *scope.Scope

	records   []Record
	cursor    int
	finalized bool

	mu           sync.Mutex
	pendingLanes scheduler.Lanes
	waiters      []chan struct{}

	frameCtx *scheduler.FrameContext
}

// New constructs a Frame bound to renderFn (the component's render body,
// which calls the package's hook functions), a Runtime used by dispatches
// to schedule updates, and a Scope used by GetContextValue/SetContextValue.
func New(renderFn func(), runtime *scheduler.Runtime, sc *scope.Scope) *Frame {
	return &Frame{renderFn: renderFn, runtime: runtime, scope: sc}
}

// Scope returns the Frame's Scope, so callers composing Frame with a
// binding/slot tree can hand descendants a child scope.
func (f *Frame) Scope() *scope.Scope { return f.scope }

// Context returns the scheduler.FrameContext of the render currently in
// progress on this Frame (valid only while renderFn is executing, i.e.
// called from within the render function itself), so a component's render
// body can route the output of that render into the same frame's effect
// buckets rather than a frame of its own.
func (f *Frame) Context() *scheduler.FrameContext { return f.frameCtx }

// RunSync performs one render pass outside the scheduler, used for a
// component's initial mount. ctx may be nil if the render enqueues no
// commit-phase effects (rare; most components schedule at least a mutation
// effect on mount).
func (f *Frame) RunSync(ctx *scheduler.FrameContext) {
	f.frameCtx = ctx
	f.render()
}

// PendingLanes implements scheduler.Coroutine.
func (f *Frame) PendingLanes() scheduler.Lanes {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLanes
}

// Resume implements scheduler.Coroutine: re-run the render function with
// the hook cursor rewound, honoring any pendingState queued by dispatch
// calls since the last render.
func (f *Frame) Resume(ctx *scheduler.FrameContext) scheduler.Result {
	f.frameCtx = ctx
	f.render()
	if f.PendingLanes() != 0 {
		return scheduler.ResultYielded
	}
	return scheduler.ResultDone
}

func (f *Frame) render() {
	f.mu.Lock()
	f.pendingLanes = 0
	waiters := f.waiters
	f.waiters = nil
	f.mu.Unlock()

	restore := enter(f)
	f.cursor = 0
	func() {
		defer restore()
		f.renderFn()
	}()
	if !f.finalized {
		f.finalized = true
	} else if f.cursor != len(f.records) {
		panic(&MisuseError{Index: f.cursor, Expected: "(end of hooks)", Got: fmt.Sprintf("only %d of %d hooks called", f.cursor, len(f.records))})
	}

	for _, w := range waiters {
		close(w)
	}
}

// nextRecord returns the k-th hook record, validating that its kind matches
// what this render is asking for (invariant I5: hook-order stability), or
// constructs a fresh one via construct if this is the first render to reach
// this slot.
func (f *Frame) nextRecord(kind string, construct func() Record) Record {
	if f.cursor < len(f.records) {
		r := f.records[f.cursor]
		f.cursor++
		if r.Kind() != kind {
			panic(&MisuseError{Index: f.cursor - 1, Expected: r.Kind(), Got: kind})
		}
		return r
	}
	if f.finalized {
		panic(&MisuseError{Index: f.cursor, Expected: "(end of hooks)", Got: kind})
	}
	r := construct()
	f.records = append(f.records, r)
	f.cursor++
	return r
}

// forceUpdate requests a re-render at lanes, merging into any pendingLanes
// already queued, and asks the Runtime to schedule it.
func (f *Frame) forceUpdate(lanes scheduler.Lanes) {
	f.mu.Lock()
	f.pendingLanes |= lanes
	f.mu.Unlock()
	f.runtime.ScheduleUpdate(f, lanes)
}

// waitForUpdate returns a channel closed once the Frame's next render
// completes.
func (f *Frame) waitForUpdate() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	if f.pendingLanes == 0 {
		close(ch)
		return ch
	}
	f.waiters = append(f.waiters, ch)
	return ch
}

func (f *Frame) isUpdatePending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLanes != 0
}

// Dispose tears the Frame down: every effect's last cleanup runs, and every
// external store subscription is cancelled. Call this when the component
// owning the Frame unmounts.
func (f *Frame) Dispose() {
	for _, r := range f.records {
		switch rec := r.(type) {
		case *effectRecord:
			if rec.cleanup != nil {
				rec.cleanup()
				rec.cleanup = nil
			}
		case *externalStoreRecord:
			if rec.unsubscribe != nil {
				rec.unsubscribe()
				rec.unsubscribe = nil
			}
		}
	}
}
