// Package filament is the template-author surface of the module: the
// tagged-template-style functions a component body calls to describe what
// it wants rendered (spec §6.2), plus Runtime, the host-facing type that
// mounts a root component onto a BackEnd and keeps it alive.
//
// Go has no tagged template literals, so the `` html`<div>${x}</div>` ``
// call spec.md describes is expressed as an ordinary function taking the
// literal string fragments and the interpolated values separately: HTML,
// SVG, Math and Text each build a template.Literal from its (strings,
// binds) pair, the same split a JS engine would hand a tag function.
package filament

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directives"
	"github.com/filament-ui/filament/pkg/hydrate"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/scope"
	"github.com/filament-ui/filament/pkg/template"
)

// Literal is a compiled template value: the return type of HTML/SVG/Math/
// Text and of every ComponentFunc, directly aliasing template.Literal so
// component bodies never need to import pkg/template themselves.
type Literal = template.Literal

// HTML builds a template.Literal parsed in ModeHTML: HTML(strings, binds...).
// Callers typically don't write the strings/binds split by hand; a
// build-time tool (outside this module's scope) can rewrite
// `` filament.HTML("<div>", x, "</div>") `` style call sites the way a JS
// bundler leaves tagged templates alone. Called directly, strings is the
// literal fragments in source order and binds the interpolated values
// between them (len(strings) == len(binds)+1).
func HTML(strings []string, binds ...any) template.Literal {
	return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: strings, Binds: binds}}
}

// SVG builds a template.Literal parsed in ModeSVG (foreign SVG content).
func SVG(strings []string, binds ...any) template.Literal {
	return template.Literal{Mode: template.ModeSVG, Source: template.Source{Strings: strings, Binds: binds}}
}

// Math builds a template.Literal parsed in ModeMath (foreign MathML content).
func Math(strings []string, binds ...any) template.Literal {
	return template.Literal{Mode: template.ModeMath, Source: template.Source{Strings: strings, Binds: binds}}
}

// Text builds a template.Literal for raw-text elements (textarea and
// friends, spec §6.2's `text` tag function). pkg/template's comment-marker
// hole scheme doesn't support dynamic holes inside raw-text content (see
// pkg/template/plan.go), so Text is ModeHTML with the same compiler; it
// exists as a distinct entry point so template authors name their intent
// and a future raw-text-aware mode can be swapped in without changing call
// sites.
func Text(strings []string, binds ...any) template.Literal {
	return template.Literal{Mode: template.ModeHTML, Source: template.Source{Strings: strings, Binds: binds}}
}

// RawMarker is spec §4.1's "distinguished Literal marker string subtype":
// an argument to DynamicHTML/DynamicSVG/DynamicMath that is spliced
// directly into the template's literal strings before compilation, rather
// than becoming a bind occupying a hole. It's named RawMarker rather than
// Literal to avoid colliding with template.Literal, this module's name for
// a nested-template value (spec's unrelated, homonymous "component render
// result" concept).
//
// RawMarker exists for trusted, pre-escaped fragments a component wants to
// splice verbatim — e.g. a chunk of markup computed once and shared across
// many instances — and, like its JS original, is an explicit opt-out of the
// hole-based escaping the compiler otherwise guarantees; callers are
// responsible for never passing attacker-controlled strings through it.
type RawMarker string

// DynamicHTML is HTML, but binds may contain RawMarker values: each one is
// spliced into the surrounding literal strings instead of becoming a hole
// (spec §4.1, §6.2).
func DynamicHTML(strings []string, binds ...any) template.Literal {
	return dynamic(template.ModeHTML, strings, binds)
}

// DynamicSVG is SVG with RawMarker splicing.
func DynamicSVG(strings []string, binds ...any) template.Literal {
	return dynamic(template.ModeSVG, strings, binds)
}

// DynamicMath is Math with RawMarker splicing.
func DynamicMath(strings []string, binds ...any) template.Literal {
	return dynamic(template.ModeMath, strings, binds)
}

func dynamic(mode template.Mode, strings []string, binds []any) template.Literal {
	var outStrings []string
	var outBinds []any
	cur := strings[0]
	for i, b := range binds {
		if rm, ok := b.(RawMarker); ok {
			cur += string(rm) + strings[i+1]
			continue
		}
		outStrings = append(outStrings, cur)
		outBinds = append(outBinds, b)
		cur = strings[i+1]
	}
	outStrings = append(outStrings, cur)
	return template.Literal{Mode: mode, Source: template.Source{Strings: outStrings, Binds: outBinds}}
}

// Runtime is one rendering host: a scheduler.Runtime (the dedicated update
// goroutine), the BackEnd it commits against, and the root Scope every
// mounted component descends from. Construct one per page/document; most
// programs need exactly one.
type Runtime struct {
	be        backend.BackEnd
	scheduler *scheduler.Runtime
	scope     *scope.Scope

	root      binding.Binding
	container backend.Node
	anchor    backend.Node
}

// NewRuntime starts a Runtime over be. opts configure the underlying
// scheduler.Runtime (e.g. scheduler.WithLogger).
func NewRuntime(be backend.BackEnd, opts ...scheduler.Option) *Runtime {
	return &Runtime{be: be, scheduler: scheduler.New(be, opts...), scope: scope.New()}
}

// BackEnd returns the Runtime's BackEnd.
func (r *Runtime) BackEnd() backend.BackEnd { return r.be }

// Scheduler returns the Runtime's underlying scheduler.Runtime, for callers
// that need to schedule coroutines of their own (e.g. a host-level polling
// loop) alongside the mounted component tree.
func (r *Runtime) Scheduler() *scheduler.Runtime { return r.scheduler }

// Scope returns the root Scope every mounted component's own Scope chains
// up to, the place a host installs process-wide context values
// (SetContextValue) before mounting anything.
func (r *Runtime) Scope() *scope.Scope { return r.scope }

// Close stops the Runtime's dedicated goroutine. Any mounted root is left
// as-is; call Unmount first if its effects need to run their cleanups.
func (r *Runtime) Close() { r.scheduler.Close() }

// Mount renders root into container as a new ChildNode range, at
// LaneUserBlocking, and keeps it live: root's own hooks can re-render it
// independently via the usual scheduler path from then on (every later
// update reaches it through scheduler.ScheduleUpdate, not through Mount
// again). Only one root may be mounted per Runtime at a time.
func (r *Runtime) Mount(container backend.Node, root directives.ComponentFunc) error {
	if r.root != nil {
		return fmt.Errorf("filament: Runtime already has a mounted root; call Unmount first")
	}
	comp := directives.Component{Render: root}
	anchor := r.be.CreateComment("")
	container.InsertBefore(anchor, nil)
	p := part.NewChildNode(anchor, nil, "http://www.w3.org/1999/xhtml")

	var mountErr error
	r.scheduler.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		tctx := template.NewRuntimeContext(fc, r.be, r.scheduler, r.scope)
		dir, err := tctx.ResolveDirective(comp, p)
		if err != nil {
			mountErr = err
			return
		}
		raw, err := dir.ResolveBinding(comp, p, tctx)
		if err != nil {
			mountErr = err
			return
		}
		bb, ok := raw.(binding.Binding)
		if !ok {
			mountErr = fmt.Errorf("filament: component directive resolved a binding that doesn't support the full binding.Binding contract")
			return
		}
		bb.Connect(tctx)
		r.root, r.container, r.anchor = bb, container, anchor
	})
	return mountErr
}

// Hydrate adopts pre-rendered markup under container instead of creating
// new nodes: container's children, starting at first, must already contain
// root's rendered output exactly as spec §4.9 prescribes (a trailing
// comment marking the component's ChildNode range, per pkg/hydrate's
// walking convention). Like Mount, only one root may be hydrated per
// Runtime.
func (r *Runtime) Hydrate(container backend.Node, first backend.Node, root directives.ComponentFunc) error {
	if r.root != nil {
		return fmt.Errorf("filament: Runtime already has a mounted root; call Unmount first")
	}
	comp := directives.Component{Render: root}
	w := hydrate.New(r.be, container, first)
	anchor, err := w.NextNode(backend.NodeComment)
	if err != nil {
		return err
	}
	p := part.NewChildNode(anchor, nil, "http://www.w3.org/1999/xhtml")

	var hydrateErr error
	r.scheduler.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		tctx := template.NewRuntimeContext(fc, r.be, r.scheduler, r.scope)
		dir, err := tctx.ResolveDirective(comp, p)
		if err != nil {
			hydrateErr = err
			return
		}
		raw, err := dir.ResolveBinding(comp, p, tctx)
		if err != nil {
			hydrateErr = err
			return
		}
		bb, ok := raw.(binding.Binding)
		if !ok {
			hydrateErr = fmt.Errorf("filament: component directive resolved a binding that doesn't support the full binding.Binding contract")
			return
		}
		if err := bb.Hydrate(w); err != nil {
			hydrateErr = err
			return
		}
		r.root, r.container, r.anchor = bb, container, anchor
	})
	return hydrateErr
}

// Unmount disconnects the mounted root (running every effect cleanup along
// its hook tree) and removes its marker comment from container. A no-op if
// nothing is mounted.
func (r *Runtime) Unmount() {
	if r.root == nil {
		return
	}
	root, container, anchor := r.root, r.container, r.anchor
	r.scheduler.RunRoot(scheduler.LaneUserBlocking, func(fc *scheduler.FrameContext) {
		tctx := template.NewRuntimeContext(fc, r.be, r.scheduler, r.scope)
		root.Disconnect(tctx)
	})
	if container != nil && anchor != nil {
		container.RemoveChild(anchor)
	}
	r.root, r.container, r.anchor = nil, nil, nil
}
