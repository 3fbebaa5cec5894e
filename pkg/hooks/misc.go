package hooks

import (
	"fmt"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/scheduler"
)

var idSeq atomic.Uint64

// UseId returns an identifier stable for the lifetime of the calling
// Frame, unique across every Frame in the process, suitable for
// aria-describedby-style cross-references between parts of one component's
// output.
func UseId() string {
	f := current()
	if f == nil {
		panic("hooks: UseId called with no Frame rendering")
	}
	rec := f.nextRecord("id", func() Record {
		return &idRecord{id: fmt.Sprintf(":f%d:", idSeq.Add(1))}
	}).(*idRecord)
	return rec.id
}

// UseSyncExternalStore subscribes to an external store on first render and
// re-renders (at user-blocking priority) whenever the store calls
// onStoreChange, reading getSnapshot fresh on every render.
func UseSyncExternalStore[T any](subscribe func(onStoreChange func()) (unsubscribe func()), getSnapshot func() T) T {
	f := current()
	if f == nil {
		panic("hooks: UseSyncExternalStore called with no Frame rendering")
	}
	f.nextRecord("external-store", func() Record {
		rec := &externalStoreRecord{}
		rec.unsubscribe = subscribe(func() { f.forceUpdate(scheduler.LaneUserBlocking) })
		return rec
	})
	return getSnapshot()
}

// UseDeferredValue returns value immediately once it stops changing, but
// while value is changing faster than the host can render at background
// priority, returns the last value adopted and schedules a background
// render to catch up (spec §4.5).
func UseDeferredValue[T any](value T) T {
	f := current()
	if f == nil {
		panic("hooks: UseDeferredValue called with no Frame rendering")
	}
	rec := f.nextRecord("deferred-value", func() Record {
		return &deferredValueRecord{deferred: value}
	}).(*deferredValueRecord)

	if shallowEqual(rec.deferred, value) {
		return value
	}
	if f.frameCtx != nil && !f.frameCtx.Lanes.Has(scheduler.LaneBackground) {
		f.forceUpdate(scheduler.LaneBackground)
		return rec.deferred.(T)
	}
	rec.deferred = value
	return value
}

// Use unwraps a synchronous usable outside the positional hook array (it
// may be called conditionally, unlike every other hook in this package).
// Usables that need to suspend rendering until an asynchronous result
// arrives are handled by the Async directive, not by this hook.
func Use[T any](usable func() (T, error)) T {
	v, err := usable()
	if err != nil {
		panic(err)
	}
	return v
}

// ForceUpdate requests a re-render of the calling Frame at the given lanes
// (defaulting to LaneUserBlocking).
func ForceUpdate(lanes ...scheduler.Lanes) {
	f := current()
	if f == nil {
		panic("hooks: ForceUpdate called with no Frame rendering")
	}
	l := scheduler.LaneUserBlocking
	if len(lanes) > 0 {
		l = lanes[0]
	}
	f.forceUpdate(l)
}

// WaitForUpdate returns a channel closed once the calling Frame's next
// render completes (or immediately, if no render is currently pending).
func WaitForUpdate() <-chan struct{} {
	f := current()
	if f == nil {
		panic("hooks: WaitForUpdate called with no Frame rendering")
	}
	return f.waitForUpdate()
}

// IsUpdatePending reports whether the calling Frame has a render queued.
func IsUpdatePending() bool {
	f := current()
	if f == nil {
		panic("hooks: IsUpdatePending called with no Frame rendering")
	}
	return f.isUpdatePending()
}

// GetContextValue looks up key in the calling Frame's Scope chain.
func GetContextValue(key any) (any, bool) {
	f := current()
	if f == nil {
		panic("hooks: GetContextValue called with no Frame rendering")
	}
	return f.scope.Get(key)
}

// SetContextValue stores key/value in the calling Frame's Scope, visible to
// descendant scopes.
func SetContextValue(key, value any) {
	f := current()
	if f == nil {
		panic("hooks: SetContextValue called with no Frame rendering")
	}
	f.scope.Set(key, value)
}
