package scheduler

import "github.com/filament-ui/filament/pkg/backend"

// frame is one UpdateFrame: the scheduler opens a frame for a batch of
// coroutines sharing (a union of) lanes, drains their FIFO to a fixed
// point, then commits the three effect buckets in Mutation -> Layout ->
// Passive order (spec §3 "UpdateFrame", §4.7).
type frame struct {
	id    uint64
	lanes Lanes

	pending []Coroutine

	mutation []backend.Effect
	layout   []backend.Effect
	passive  []backend.Effect
}

// commit runs the frame's effect buckets against be, in phase order.
func (f *frame) commit(be backend.BackEnd) {
	if len(f.mutation) > 0 {
		be.CommitEffects(f.mutation, backend.PhaseMutation)
	}
	if len(f.layout) > 0 {
		be.CommitEffects(f.layout, backend.PhaseLayout)
	}
	if len(f.passive) > 0 {
		be.CommitEffects(f.passive, backend.PhasePassive)
	}
}
