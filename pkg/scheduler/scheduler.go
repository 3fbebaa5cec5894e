// Package scheduler implements the priority-lane update loop: one dedicated
// goroutine per Runtime owns all render/commit work, and every other
// goroutine hands off requests to it over a channel rather than touching its
// state directly (spec §4.7, §5).
package scheduler

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/filament-ui/filament/pkg/backend"
)

var tracer = otel.Tracer("github.com/filament-ui/filament/pkg/scheduler")

// handle is one node of the doubly-linked FIFO of coroutines awaiting a
// frame. Lanes merge into an already-queued handle rather than creating a
// duplicate entry, so a coroutine scheduled twice before it runs is resumed
// once with the union of both requests.
type handle struct {
	coroutine  Coroutine
	lanes      Lanes
	prev, next *handle
}

// Runtime is one scheduler: a queue, a dedicated goroutine draining it, and
// the BackEnd frames commit against.
type Runtime struct {
	be     backend.BackEnd
	logger *slog.Logger

	requests chan func(*state)
	done     chan struct{}

	nextFrameID uint64
}

// state is the queue and bookkeeping touched only by the Runtime's
// dedicated goroutine; every field access happens inside a closure sent
// through Runtime.requests, so none of it needs locking.
type state struct {
	head, tail *handle
	byCoroutine map[Coroutine]*handle
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithLogger overrides the default slog logger (os.Stderr, LevelInfo).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// New starts a Runtime's dedicated goroutine and returns a handle to it.
// Call Close to stop the goroutine.
func New(be backend.BackEnd, opts ...Option) *Runtime {
	r := &Runtime{
		be:       be,
		logger:   slog.Default(),
		requests: make(chan func(*state), 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

// Close stops the Runtime's goroutine after any already-enqueued requests
// have drained.
func (r *Runtime) Close() {
	close(r.requests)
	<-r.done
}

func (r *Runtime) loop() {
	defer close(r.done)
	st := &state{byCoroutine: make(map[Coroutine]*handle)}
	for req := range r.requests {
		req(st)
	}
}

// ScheduleUpdate enqueues (or merges into an already-queued request for) a
// coroutine with the given lanes. It does not block.
func (r *Runtime) ScheduleUpdate(c Coroutine, lanes Lanes) {
	r.requests <- func(st *state) {
		r.enqueue(st, c, lanes)
		r.drain(st)
	}
}

func (r *Runtime) enqueue(st *state, c Coroutine, lanes Lanes) {
	if h, ok := st.byCoroutine[c]; ok {
		h.lanes |= lanes
		return
	}
	h := &handle{coroutine: c, lanes: lanes}
	st.byCoroutine[c] = h
	if st.tail == nil {
		st.head, st.tail = h, h
		return
	}
	st.tail.next = h
	h.prev = st.tail
	st.tail = h
}

func (r *Runtime) popFront(st *state) *handle {
	h := st.head
	if h == nil {
		return nil
	}
	st.head = h.next
	if st.head != nil {
		st.head.prev = nil
	} else {
		st.tail = nil
	}
	delete(st.byCoroutine, h.coroutine)
	return h
}

// drain processes queued handles, one frame per handle, until the queue is
// empty. A handle whose coroutine no longer has any pending lanes (its
// update was satisfied or cancelled since it was queued) is dropped without
// opening a frame, per invariant I6.
func (r *Runtime) drain(st *state) {
	for {
		h := r.popFront(st)
		if h == nil {
			return
		}
		pending := h.coroutine.PendingLanes()
		if pending == 0 {
			continue
		}
		r.runFrame(st, h.coroutine, h.lanes&pending|pending)
	}
}

// runFrame opens a frame for the given root coroutine and lanes, resumes it
// (and any children it enqueues into the same frame) to a fixed point, then
// commits.
func (r *Runtime) runFrame(st *state, root Coroutine, lanes Lanes) {
	r.nextFrameID++
	f := &frame{id: r.nextFrameID, lanes: lanes, pending: []Coroutine{root}}

	ctx, span := tracer.Start(context.Background(), "scheduler.frame",
		trace.WithAttributes(
			attribute.Int64("frame.id", int64(f.id)),
			attribute.String("frame.lanes", lanes.String()),
		))
	defer span.End()

	runOne := func(c Coroutine) {
		if lanes.Any(LaneViewTransition) {
			if err := r.be.StartViewTransition(func() {
				r.resumeToFixedPoint(ctx, f, c)
			}); err != nil {
				r.logger.Warn("scheduler: view transition failed, committing without it", "error", err)
				r.resumeToFixedPoint(ctx, f, c)
			}
			return
		}
		r.resumeToFixedPoint(ctx, f, c)
	}

	for i := 0; i < len(f.pending); i++ {
		c := f.pending[i]
		runOne(c)
		// A coroutine that yielded (still has pendingLanes after Resume,
		// e.g. it deferred more of its own work) rejoins the outer queue
		// for a future frame rather than looping here forever.
		if lanes := c.PendingLanes(); lanes != 0 {
			r.enqueue(st, c, lanes)
		}
	}

	f.commit(r.be)
}

// resumeToFixedPoint calls Resume once; ResultYielded with no newly
// enqueued children simply means "still pending, handled by the caller's
// re-enqueue"; ResultYielded with children already appended them to
// f.pending via FrameContext.EnqueueCoroutine, so the caller's loop over
// f.pending picks them up.
func (r *Runtime) resumeToFixedPoint(ctx context.Context, f *frame, c Coroutine) {
	_, span := tracer.Start(ctx, "scheduler.resume")
	defer span.End()
	fc := &FrameContext{Lanes: f.lanes, frame: f}
	c.Resume(fc)
}

// FlushSync synchronously processes every coroutine currently queued whose
// lanes intersect the given mask, blocking until their frames have
// committed (spec §4.7 "flushSync"). Coroutines not matching the mask stay
// queued for the normal loop.
func (r *Runtime) FlushSync(lanes Lanes) {
	done := make(chan struct{})
	r.requests <- func(st *state) {
		defer close(done)
		var deferred []*handle
		for {
			h := r.popFront(st)
			if h == nil {
				break
			}
			if !h.lanes.Any(lanes) {
				deferred = append(deferred, h)
				continue
			}
			if pending := h.coroutine.PendingLanes(); pending != 0 {
				r.runFrame(st, h.coroutine, h.lanes&pending|pending)
			}
		}
		for _, h := range deferred {
			r.enqueue(st, h.coroutine, h.lanes)
		}
	}
	<-done
}

// RunRoot opens a fresh frame outside the normal coroutine queue and runs fn
// once against it, committing the frame's effect buckets before returning.
// This is how a host mounts its very first root binding: there's no
// existing FrameContext to nest inside yet, unlike every later update,
// which reaches a FrameContext through ScheduleUpdate/drain.
func (r *Runtime) RunRoot(lanes Lanes, fn func(*FrameContext)) {
	done := make(chan struct{})
	r.requests <- func(*state) {
		defer close(done)
		r.nextFrameID++
		f := &frame{id: r.nextFrameID, lanes: lanes}
		fc := &FrameContext{Lanes: lanes, frame: f}
		fn(fc)
		f.commit(r.be)
	}
	<-done
}

// Go runs fn on the Runtime's dedicated goroutine, serialized with respect
// to every scheduled frame. It's the escape hatch other packages (hooks'
// dispatch, directives) use when they need to read/mutate scheduler state
// directly instead of only scheduling a coroutine.
func (r *Runtime) Go(fn func()) {
	done := make(chan struct{})
	r.requests <- func(*state) {
		defer close(done)
		fn()
	}
	<-done
}
