// Package template implements the tagged-template compiler: a Source
// (literal string chunks plus interleaved dynamic values) is compiled once
// into a Plan describing static structure and hole positions, then
// instantiated — cheaply, many times — into a live subtree of Parts, slots
// and bindings (spec §3 "Template Compiler", §4.1).
//
// Go has no tagged template literal syntax, so the compiler's input is
// modeled directly as the struct a JS engine would otherwise assemble:
// Source.Strings is the literal chunks a `html` tag function would receive
// as its first argument, Source.Binds the interleaved dynamic values. The
// compiler caches by the *content* of Strings (see cache.go); callers that
// want the full benefit of that cache should keep one call site's Strings
// slice as a package-level var, the way a JS engine caches a tagged
// template's strings array per call site.
package template

// Source is one template literal: len(Strings) == len(Binds)+1, and the
// logical template text is Strings[0] + hole(Binds[0]) + Strings[1] + ... +
// hole(Binds[n-1]) + Strings[n].
type Source struct {
	Strings []string
	Binds   []any
}
