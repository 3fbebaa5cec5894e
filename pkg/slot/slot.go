// Package slot implements the one-above-binding wrapper that gives a
// directive freedom to swap bindings (Flexible) or enforces that the
// directive never changes (Strict), per spec §3 "Slot", §4.4.
package slot

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
)

// Slot is the contract both Strict and Flexible implement.
type Slot interface {
	// Reconcile drives the owned binding through shouldBind → bind →
	// connect (or, for Flexible, swaps bindings first) and returns whether
	// the slot is now dirty (needs a commit).
	Reconcile(value any, ctx directive.Context) (dirty bool, err error)

	// Commit is a no-op if the underlying binding is not dirty.
	Commit()

	// Rollback is a no-op if never committed.
	Rollback()

	Binding() binding.Binding
	Directive() *directive.Directive
}

// MismatchError is raised by a Strict slot when the resolved directive for
// a new value differs from the one it was constructed with.
type MismatchError struct {
	Part     *part.Part
	Old, New string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("strict slot directive mismatch on %s: %s -> %s", e.Part.Debug(), e.Old, e.New)
}

// directiveName renders a directive's name for error messages, tolerating
// nil.
func directiveName(d *directive.Directive) string {
	if d == nil {
		return "<nil>"
	}
	return d.Name
}
