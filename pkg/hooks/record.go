package hooks

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/scheduler"
)

// Record is one positional hook slot. Concrete kinds are unexported; a
// Frame only ever compares Kind() strings to validate call-order stability.
type Record interface {
	Kind() string
}

// reducerRecord backs both useState and useReducer: useState is useReducer
// with a reducer that replaces the state with the dispatched action, or
// applies a dispatched func(S) S updater to the current state (spec §4.5).
type reducerRecord struct {
	reducer func(state, action any) any

	memoizedState any
	pendingState  any
	havePending   bool
	pendingLanes  scheduler.Lanes

	dispatch Dispatch
}

func (*reducerRecord) Kind() string { return "reducer" }

// memoRecord backs useMemo and useCallback: a value recomputed only when
// dependencies change.
type memoRecord struct {
	value any
	deps  []any
}

func (*memoRecord) Kind() string { return "memo" }

// refRecord backs useRef: a mutable container returned unconditionally,
// never recomputed. ref holds a *Ref[T] for whatever T the call site uses;
// useRef asserts it back to the caller's concrete type.
type refRecord struct {
	ref any
}

func (*refRecord) Kind() string { return "ref" }

// effectRecord backs useEffect / useLayoutEffect / useInsertionEffect.
type effectRecord struct {
	phase   backend.Phase
	deps    []any
	haveRun bool
	cleanup Cleanup
}

func (*effectRecord) Kind() string { return "effect" }

// idRecord backs useId: a value stable for the lifetime of the Frame.
type idRecord struct {
	id string
}

func (*idRecord) Kind() string { return "id" }

// externalStoreRecord backs useSyncExternalStore.
type externalStoreRecord struct {
	subscribe   func(onStoreChange func()) (unsubscribe func())
	unsubscribe func()
	lastValue   any
}

func (*externalStoreRecord) Kind() string { return "external-store" }

// deferredValueRecord backs useDeferredValue.
type deferredValueRecord struct {
	deferred any
	lanes    scheduler.Lanes
}

func (*deferredValueRecord) Kind() string { return "deferred-value" }
