package filament

import "github.com/filament-ui/filament/pkg/directives"

// This file re-exports pkg/directives' built-in catalog at the package
// level (spec §4.8's "ADDED, thin" catalog — Component, Repeat, Signal,
// Async — sits alongside the tag functions and hooks as the template-author
// surface), so a component body only ever imports this module's root
// package.

type (
	// ComponentFunc is a component's render body.
	ComponentFunc = directives.ComponentFunc
	// Component mounts a hook-bearing, independently schedulable nested
	// render into a ChildNode hole.
	Component = directives.Component
	// Repeat is the keyed-list directive.
	Repeat[T any] = directives.Repeat[T]
	// Signal is a fine-grained reactive value.
	Signal[T any] = directives.Signal[T]
	// Async is the resource directive.
	Async[T any] = directives.Async[T]
)

// NewSignal constructs a Signal holding initial.
func NewSignal[T any](initial T) *Signal[T] { return directives.NewSignal(initial) }
