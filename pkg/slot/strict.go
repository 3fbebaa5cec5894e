package slot

import (
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
)

// Strict asserts the directive never changes across reconciles; a directive
// swap is an error (spec §4.4).
type Strict struct {
	p    *part.Part
	dir  *directive.Directive
	bnd  binding.Binding
	dirty bool
}

// NewStrict constructs a Strict slot already bound to an initial directive
// and binding (as produced by a first resolveBinding call).
func NewStrict(p *part.Part, dir *directive.Directive, b binding.Binding) *Strict {
	return &Strict{p: p, dir: dir, bnd: b, dirty: true}
}

func (s *Strict) Binding() binding.Binding        { return s.bnd }
func (s *Strict) Directive() *directive.Directive { return s.dir }

func (s *Strict) Reconcile(value any, ctx directive.Context) (bool, error) {
	newDir, err := ctx.ResolveDirective(value, s.p)
	if err != nil {
		return false, err
	}
	if !directive.Is(s.dir, newDir) {
		return false, &MismatchError{Part: s.p, Old: directiveName(s.dir), New: directiveName(newDir)}
	}
	if s.bnd.ShouldBind(value) {
		s.bnd.Bind(value)
		s.bnd.Connect(ctx)
		s.dirty = true
	}
	return s.dirty, nil
}

func (s *Strict) Commit() {
	if !s.dirty {
		return
	}
	s.bnd.Commit()
	s.dirty = false
}

func (s *Strict) Rollback() {
	s.bnd.Rollback()
}
