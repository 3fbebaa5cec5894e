package hooks

import (
	"github.com/filament-ui/filament/pkg/backend"
)

// useEffectAt is the shared implementation behind UseEffect,
// UseLayoutEffect and UseInsertionEffect: each phase maps onto one of the
// scheduler's three commit buckets (spec §4.7's Mutation/Layout/Passive
// split), so the only difference between the three public hooks is which
// bucket their callback lands in.
func useEffectAt(phase backend.Phase, effect func() Cleanup, deps []any) {
	f := current()
	if f == nil {
		panic("hooks: effect hook called with no Frame rendering")
	}
	rec := f.nextRecord("effect", func() Record {
		return &effectRecord{phase: phase}
	}).(*effectRecord)

	if rec.haveRun && !depsChanged(rec.deps, deps) {
		rec.deps = deps
		return
	}
	rec.deps = deps
	rec.haveRun = true

	run := func() {
		if rec.cleanup != nil {
			rec.cleanup()
			rec.cleanup = nil
		}
		rec.cleanup = effect()
	}

	if f.frameCtx == nil {
		run()
		return
	}
	be := backend.Effect{Commit: run, Label: phase.String() + "-effect"}
	switch phase {
	case backend.PhaseMutation:
		f.frameCtx.EnqueueMutation(be)
	case backend.PhaseLayout:
		f.frameCtx.EnqueueLayout(be)
	default:
		f.frameCtx.EnqueuePassive(be)
	}
}

// UseEffect schedules effect to run (after any previous cleanup) once this
// render commits, during the passive phase, whenever deps has changed since
// the last render effect actually ran.
func UseEffect(effect func() Cleanup, deps []any) {
	useEffectAt(backend.PhasePassive, effect, deps)
}

// UseLayoutEffect is UseEffect scheduled into the layout phase, for
// callbacks that must observe layout before the host paints.
func UseLayoutEffect(effect func() Cleanup, deps []any) {
	useEffectAt(backend.PhaseLayout, effect, deps)
}

// UseInsertionEffect is UseEffect scheduled into the mutation phase, for
// callbacks (e.g. injecting stylesheet rules) that must run before other
// mutation-phase effects observe the tree.
func UseInsertionEffect(effect func() Cleanup, deps []any) {
	useEffectAt(backend.PhaseMutation, effect, deps)
}
