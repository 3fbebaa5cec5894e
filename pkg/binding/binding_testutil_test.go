package binding_test

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
)

// fakeCtx is a minimal directive.Context: it collects effects into the
// three phase buckets in enqueue order and runs them on demand, so a test
// can Connect a binding and then Flush to simulate the scheduler committing
// a frame, without spinning up pkg/scheduler.
type fakeCtx struct {
	mutation []backend.Effect
	layout   []backend.Effect
	passive  []backend.Effect
}

func (f *fakeCtx) EnqueueMutation(e backend.Effect) { f.mutation = append(f.mutation, e) }
func (f *fakeCtx) EnqueueLayout(e backend.Effect)   { f.layout = append(f.layout, e) }
func (f *fakeCtx) EnqueuePassive(e backend.Effect)  { f.passive = append(f.passive, e) }

func (f *fakeCtx) ResolveDirective(value any, p *part.Part) (*directive.Directive, error) {
	panic("fakeCtx: ResolveDirective not needed by binding tests")
}

// Flush runs every queued effect in Mutation -> Layout -> Passive order and
// clears the buckets, mirroring scheduler.frame.commit.
func (f *fakeCtx) Flush() {
	for _, e := range f.mutation {
		e.Commit()
	}
	for _, e := range f.layout {
		e.Commit()
	}
	for _, e := range f.passive {
		e.Commit()
	}
	f.mutation, f.layout, f.passive = nil, nil, nil
}

var _ directive.Context = (*fakeCtx)(nil)
