package binding

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Property binds a value via direct property assignment (spec §3, §4.3).
type Property struct {
	base
}

// NewProperty constructs a Property binding for p.
func NewProperty(p *part.Part, value any) *Property {
	return &Property{base: base{p: p, value: value}}
}

func (pr *Property) ShouldBind(newValue any) bool { return shouldBindDefault(pr.value, newValue) }
func (pr *Property) Bind(newValue any)            { pr.value = newValue }

func (pr *Property) Connect(ctx Context) {
	if pr.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: pr.Commit, Label: "property:" + pr.p.Name})
	}
}

func (pr *Property) Disconnect(ctx Context) {
	if pr.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: pr.Rollback, Label: "property:" + pr.p.Name + ":rollback"})
	}
}

func (pr *Property) Commit() {
	pr.p.Node.SetProperty(pr.p.Name, pr.value)
	pr.committed.Store(true)
}

func (pr *Property) Rollback() {
	if !pr.committed.Load() {
		return
	}
	pr.p.Node.SetProperty(pr.p.Name, pr.p.DefaultValue)
	pr.committed.Store(false)
}

func (pr *Property) Hydrate(tree HydrationTree) error {
	pr.committed.Store(true)
	pr.connected.Store(true)
	return nil
}
