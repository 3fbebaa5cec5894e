package slot

import (
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
)

// Flexible swaps its owned Binding when the resolved directive for a new
// value changes, rolling back the old binding and connecting a fresh one
// built from the new directive (spec §4.4).
type Flexible struct {
	p     *part.Part
	dir   *directive.Directive
	bnd   binding.Binding
	old   binding.Binding // previous binding, pending rollback+drop after commit
	dirty bool
}

// NewFlexible constructs a Flexible slot already bound to an initial
// directive and binding.
func NewFlexible(p *part.Part, dir *directive.Directive, b binding.Binding) *Flexible {
	return &Flexible{p: p, dir: dir, bnd: b, dirty: true}
}

func (f *Flexible) Binding() binding.Binding        { return f.bnd }
func (f *Flexible) Directive() *directive.Directive { return f.dir }

func (f *Flexible) Reconcile(value any, ctx directive.Context) (bool, error) {
	newDir, err := ctx.ResolveDirective(value, f.p)
	if err != nil {
		return false, err
	}

	if !directive.Is(f.dir, newDir) {
		raw, err := newDir.ResolveBinding(value, f.p, ctx)
		if err != nil {
			return false, err
		}
		newBnd, ok := raw.(binding.Binding)
		if !ok {
			return false, &directive.MisuseError{DirectiveName: newDir.Name, Part: f.p, Reason: "resolved binding does not implement binding.Binding"}
		}
		f.bnd.Disconnect(ctx)
		f.old = f.bnd
		f.dir = newDir
		f.bnd = newBnd
		f.bnd.Connect(ctx)
		f.dirty = true
		return true, nil
	}

	if f.bnd.ShouldBind(value) {
		f.bnd.Bind(value)
		f.bnd.Connect(ctx)
		f.dirty = true
	}
	return f.dirty, nil
}

func (f *Flexible) Commit() {
	if !f.dirty {
		return
	}
	if f.old != nil {
		f.old.Rollback()
		f.old = nil
	}
	f.bnd.Commit()
	f.dirty = false
}

func (f *Flexible) Rollback() {
	f.bnd.Rollback()
}
