package hooks

import "github.com/filament-ui/filament/pkg/scheduler"

// Dispatch sends an action into a reducer hook, scheduling a re-render at
// the given (or default) lanes.
type Dispatch func(action any, opts ...DispatchOption)

// DispatchOption configures a single dispatch call.
type DispatchOption func(*dispatchOptions)

type dispatchOptions struct {
	lanes scheduler.Lanes
}

// WithLanes overrides the default lanes (LaneUserBlocking) a dispatch
// schedules its update at, e.g. WithLanes(scheduler.LaneBackground) for a
// low-priority update inside useTransition-style code.
func WithLanes(lanes scheduler.Lanes) DispatchOption {
	return func(o *dispatchOptions) { o.lanes = lanes }
}

// UseReducer is the general form: state starts at initial, and every
// dispatched action is passed through reducer along with the latest state
// (the queued pendingState if there is one, else memoizedState) to compute
// pendingState. The next render of the Frame adopts pendingState as
// memoizedState, whatever lanes that render runs at: the dispatched lanes
// are accumulated in pendingLanes but never compared against the render's
// lanes (spec §9 decisions).
func UseReducer[S, A any](initial S, reducer func(state S, action A) S) (S, Dispatch) {
	f := current()
	if f == nil {
		panic("hooks: UseReducer called with no Frame rendering")
	}
	rec := f.nextRecord("reducer", func() Record {
		return &reducerRecord{
			reducer: func(state, action any) any {
				return reducer(state.(S), action.(A))
			},
			memoizedState: initial,
		}
	}).(*reducerRecord)

	if rec.havePending {
		rec.memoizedState = rec.pendingState
		rec.pendingState = nil
		rec.havePending = false
	}

	if rec.dispatch == nil {
		rec.dispatch = func(action any, opts ...DispatchOption) {
			o := dispatchOptions{lanes: scheduler.LaneUserBlocking}
			for _, opt := range opts {
				opt(&o)
			}
			base := rec.memoizedState
			if rec.havePending {
				base = rec.pendingState
			}
			rec.pendingState = rec.reducer(base, action)
			rec.havePending = true
			rec.pendingLanes |= o.lanes
			f.forceUpdate(o.lanes)
		}
	}

	return rec.memoizedState.(S), rec.dispatch
}

// UseState is UseReducer with a reducer that replaces state with whatever
// is dispatched, optionally an updater function state -> state (mirroring
// the functional-update form of React's setState).
func UseState[S any](initial S) (S, Dispatch) {
	return UseReducer(initial, func(state S, action any) S {
		if fn, ok := action.(func(S) S); ok {
			return fn(state)
		}
		return action.(S)
	})
}
