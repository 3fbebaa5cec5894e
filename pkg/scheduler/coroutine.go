package scheduler

import "github.com/filament-ui/filament/pkg/backend"

// Result is what a Coroutine reports after one Resume call.
type Result int

const (
	// ResultDone means the coroutine has no more pending lanes; it is
	// dropped from the schedule.
	ResultDone Result = iota

	// ResultYielded means the coroutine still has pendingLanes (it
	// scheduled more work on itself, or a child coroutine asked to run in
	// the same frame) and should be resumed again, either later in this
	// frame (if it enqueued a child into FrameContext.pendingCoroutines)
	// or in a future frame.
	ResultYielded
)

// Coroutine is anything the scheduler can resume: components, in this
// module's vocabulary, but the interface is deliberately narrow so tests
// can drive the scheduler with fakes (spec §3 "Coroutine", §4.7).
type Coroutine interface {
	// PendingLanes reports the lanes currently requested for this
	// coroutine. The scheduler consults this immediately before resuming,
	// so a coroutine whose pending lanes were cleared after it was queued
	// (its update was cancelled, or already satisfied by a sync flush) is
	// skipped rather than resumed (invariant I6).
	PendingLanes() Lanes

	// Resume runs (or re-enters) the coroutine's render for the lanes the
	// frame is processing, using ctx to enqueue commit-phase effects and,
	// if rendering produces nested coroutines that must commit within the
	// same frame, to enqueue them via ctx.EnqueueCoroutine.
	Resume(ctx *FrameContext) Result
}

// FrameContext is handed to a Coroutine's Resume method. It exposes the
// current frame's effect buckets and lets a coroutine enqueue child
// coroutines (e.g. newly mounted components) to be resumed before this
// frame commits.
type FrameContext struct {
	Lanes Lanes

	frame *frame
}

// EnqueueMutation schedules a DOM-mutating effect for this frame's mutation
// phase (structural changes: insert/remove/move nodes, attribute/property
// commits).
func (c *FrameContext) EnqueueMutation(e backend.Effect) { c.frame.mutation = append(c.frame.mutation, e) }

// EnqueueLayout schedules a layout-phase effect (reads/writes that need
// up-to-date layout, e.g. useLayoutEffect callbacks).
func (c *FrameContext) EnqueueLayout(e backend.Effect) { c.frame.layout = append(c.frame.layout, e) }

// EnqueuePassive schedules a passive-phase effect (useEffect callbacks),
// run after the frame's mutation and layout effects have committed.
func (c *FrameContext) EnqueuePassive(e backend.Effect) { c.frame.passive = append(c.frame.passive, e) }

// EnqueueCoroutine adds a child coroutine to this frame's pending FIFO so
// it resumes before the frame commits, rather than waiting for a future
// frame. This is how a newly-mounted component's initial render joins the
// frame that mounted it.
func (c *FrameContext) EnqueueCoroutine(child Coroutine) {
	c.frame.pending = append(c.frame.pending, child)
}
