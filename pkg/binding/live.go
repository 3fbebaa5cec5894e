package binding

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Live binds a property whose current reading is authoritative (e.g.
// input.value): the binding compares against the live DOM value, not the
// last value it wrote (spec §3, §4.3). Per SPEC_FULL.md's Open-Question
// resolution, the live value is always read before any write in the same
// frame (read-before-write semantics).
type Live struct {
	base
}

// NewLive constructs a Live binding for p.
func NewLive(p *part.Part, value any) *Live {
	return &Live{base: base{p: p, value: value}}
}

// ShouldBind reads the live property first (read-before-write) and skips
// the commit if it already equals newValue.
func (l *Live) ShouldBind(newValue any) bool {
	current := l.p.Node.GetProperty(l.p.Name)
	return shouldBindDefault(current, newValue)
}

func (l *Live) Bind(newValue any) { l.value = newValue }

func (l *Live) Connect(ctx Context) {
	if l.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: l.Commit, Label: "live:" + l.p.Name})
	}
}

func (l *Live) Disconnect(ctx Context) {
	if l.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: l.Rollback, Label: "live:" + l.p.Name + ":rollback"})
	}
}

func (l *Live) Commit() {
	current := l.p.Node.GetProperty(l.p.Name)
	if shouldBindDefault(current, l.value) {
		l.p.Node.SetProperty(l.p.Name, l.value)
	}
	l.committed.Store(true)
}

func (l *Live) Rollback() {
	if !l.committed.Load() {
		return
	}
	l.p.Node.SetProperty(l.p.Name, l.p.DefaultValue)
	l.committed.Store(false)
}

func (l *Live) Hydrate(tree HydrationTree) error {
	l.value = l.p.Node.GetProperty(l.p.Name)
	l.committed.Store(true)
	l.connected.Store(true)
	return nil
}
