package filament

import (
	"github.com/filament-ui/filament/pkg/hooks"
	"github.com/filament-ui/filament/pkg/scheduler"
)

// This file re-exports pkg/hooks at the package level (spec §6.2): a
// component body written against this module imports only
// "github.com/filament-ui/filament", not pkg/hooks directly, the same way
// a JS component imports useState etc. from the framework's own package
// rather than an internal module. Generic functions can't be re-exported
// with a `var X = hooks.X` alias, so each is a one-line forwarding
// wrapper; non-generic names (types, DispatchOption, WithLanes, the
// no-generic-param functions) are plain aliases.

type (
	// Ref is the mutable container returned by UseRef.
	Ref[T any] = hooks.Ref[T]
	// Dispatch sends an action into a reducer hook.
	Dispatch = hooks.Dispatch
	// DispatchOption configures a single Dispatch call.
	DispatchOption = hooks.DispatchOption
	// Cleanup is returned by an effect callback.
	Cleanup = hooks.Cleanup
)

// WithLanes overrides the lanes a Dispatch call schedules its update at.
func WithLanes(lanes scheduler.Lanes) DispatchOption { return hooks.WithLanes(lanes) }

// UseReducer is spec §6.2's useReducer.
func UseReducer[S, A any](initial S, reducer func(state S, action A) S) (S, Dispatch) {
	return hooks.UseReducer(initial, reducer)
}

// UseState is spec §6.2's useState.
func UseState[S any](initial S) (S, Dispatch) {
	return hooks.UseState(initial)
}

// UseEffect is spec §6.2's useEffect.
func UseEffect(effect func() Cleanup, deps []any) { hooks.UseEffect(effect, deps) }

// UseLayoutEffect is spec §6.2's useLayoutEffect.
func UseLayoutEffect(effect func() Cleanup, deps []any) { hooks.UseLayoutEffect(effect, deps) }

// UseInsertionEffect is spec §6.2's useInsertionEffect.
func UseInsertionEffect(effect func() Cleanup, deps []any) { hooks.UseInsertionEffect(effect, deps) }

// UseMemo is spec §6.2's useMemo.
func UseMemo[T any](compute func() T, deps []any) T { return hooks.UseMemo(compute, deps) }

// UseCallback is spec §6.2's useCallback.
func UseCallback[F any](fn F, deps []any) F { return hooks.UseCallback(fn, deps) }

// UseRef is spec §6.2's useRef.
func UseRef[T any](initial T) *Ref[T] { return hooks.UseRef(initial) }

// UseId is spec §6.2's useId.
func UseId() string { return hooks.UseId() }

// UseSyncExternalStore is spec §6.2's useSyncExternalStore.
func UseSyncExternalStore[T any](subscribe func(onStoreChange func()) (unsubscribe func()), getSnapshot func() T) T {
	return hooks.UseSyncExternalStore(subscribe, getSnapshot)
}

// UseDeferredValue is spec §6.2's useDeferredValue.
func UseDeferredValue[T any](value T) T { return hooks.UseDeferredValue(value) }

// Use is spec §6.2's use(usable).
func Use[T any](usable func() (T, error)) T { return hooks.Use(usable) }

// ForceUpdate is spec §6.2's forceUpdate(options?).
func ForceUpdate(lanes ...scheduler.Lanes) { hooks.ForceUpdate(lanes...) }

// WaitForUpdate is spec §6.2's waitForUpdate().
func WaitForUpdate() <-chan struct{} { return hooks.WaitForUpdate() }

// IsUpdatePending is spec §6.2's isUpdatePending().
func IsUpdatePending() bool { return hooks.IsUpdatePending() }

// GetContextValue is spec §6.2's getContextValue(key).
func GetContextValue(key any) (any, bool) { return hooks.GetContextValue(key) }

// SetContextValue is spec §6.2's setContextValue(key, value).
func SetContextValue(key, value any) { hooks.SetContextValue(key, value) }
