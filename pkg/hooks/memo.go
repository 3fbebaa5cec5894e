package hooks

// Ref is the mutable container returned by UseRef: stable across renders,
// never recomputed, and not itself reactive (writing Current doesn't
// schedule a re-render).
type Ref[T any] struct {
	Current T
}

// depsChanged reports whether next differs from prev by length or by any
// element failing a shallow (==) comparison, treating an uncomparable
// element as always-changed rather than panicking.
func depsChanged(prev, next []any) bool {
	if prev == nil || len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !shallowEqual(prev[i], next[i]) {
			return true
		}
	}
	return false
}

func shallowEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// UseMemo recomputes value by calling compute only when deps has changed
// (by shallow comparison) since the last render; the first render always
// computes.
func UseMemo[T any](compute func() T, deps []any) T {
	f := current()
	if f == nil {
		panic("hooks: UseMemo called with no Frame rendering")
	}
	rec := f.nextRecord("memo", func() Record {
		return &memoRecord{value: compute(), deps: deps}
	}).(*memoRecord)

	if depsChanged(rec.deps, deps) {
		rec.value = compute()
		rec.deps = deps
	}
	return rec.value.(T)
}

// UseCallback is UseMemo specialized to returning fn itself, so identity is
// stable across renders whose deps haven't changed — useful as a dependency
// of a child's UseEffect.
func UseCallback[F any](fn F, deps []any) F {
	return UseMemo(func() F { return fn }, deps)
}

// UseRef returns a stable mutable container, initialized to initial on the
// first render and left untouched (even if initial's expression changes) on
// every later render.
func UseRef[T any](initial T) *Ref[T] {
	f := current()
	if f == nil {
		panic("hooks: UseRef called with no Frame rendering")
	}
	rec := f.nextRecord("ref", func() Record {
		return &refRecord{ref: &Ref[T]{Current: initial}}
	}).(*refRecord)
	return rec.ref.(*Ref[T])
}
