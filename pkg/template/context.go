package template

import (
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/binding"
	"github.com/filament-ui/filament/pkg/directive"
	"github.com/filament-ui/filament/pkg/part"
	"github.com/filament-ui/filament/pkg/scheduler"
	"github.com/filament-ui/filament/pkg/scope"
)

// Context composes a scheduler frame's effect buckets with directive
// resolution, satisfying directive.Context (and, by alias, binding.Context)
// in one type. It's what Instantiate and Result.Update pass down to every
// slot/binding in a template instance.
type Context struct {
	*scheduler.FrameContext
	resolver *directive.Resolver
	be       backend.BackEnd
	runtime  *scheduler.Runtime
	scope    *scope.Scope
}

// NewContext builds a Context over frame and be's default primitive
// resolver.
func NewContext(frame *scheduler.FrameContext, be backend.BackEnd) *Context {
	return &Context{FrameContext: frame, resolver: directive.NewResolver(DefaultPrimitive(be)), be: be}
}

// NewRuntimeContext is NewContext plus the owning Runtime and the
// surrounding Scope, needed by directives (pkg/directives.Component) whose
// bindings must schedule future updates rather than only commit the
// current frame, and whose hook state reads/writes context values through
// a scope chain.
func NewRuntimeContext(frame *scheduler.FrameContext, be backend.BackEnd, runtime *scheduler.Runtime, sc *scope.Scope) *Context {
	c := NewContext(frame, be)
	c.runtime = runtime
	c.scope = sc
	return c
}

// ResolveDirective implements directive.Context.
func (c *Context) ResolveDirective(value any, p *part.Part) (*directive.Directive, error) {
	return c.resolver.Resolve(value, p, c)
}

// BackEnd returns the BackEnd this Context resolves ChildNode/Element
// primitives against, so nested-template directives (pkg/template.Literal)
// and catalog directives (pkg/directives) can create nodes of their own.
func (c *Context) BackEnd() backend.BackEnd { return c.be }

// Runtime returns the owning scheduler.Runtime, or nil if this Context was
// built with NewContext rather than NewRuntimeContext.
func (c *Context) Runtime() *scheduler.Runtime { return c.runtime }

// Scope returns the surrounding lexical Scope, creating a fresh root Scope
// the first time it's asked for on a Context built without one (a template
// rendered standalone, with no enclosing component).
func (c *Context) Scope() *scope.Scope {
	if c.scope == nil {
		c.scope = scope.New()
	}
	return c.scope
}

// DefaultPrimitive is the back-end's built-in value-to-directive mapping
// (spec §4.2): when a bound value doesn't implement the Directed protocol,
// the Part's own Kind picks which concrete binding type it gets wrapped
// in. ChildNode parts need a BackEnd to create the text node they render
// into, so the primitive is built per-BackEnd rather than being a bare
// package function.
func DefaultPrimitive(be backend.BackEnd) directive.Primitive {
	return func(value any, p *part.Part) (*directive.Directive, error) {
		switch p.Kind {
		case part.KindAttribute:
			return &directive.Directive{Name: "attribute", ResolveBinding: resolveAttribute}, nil
		case part.KindProperty:
			return &directive.Directive{Name: "property", ResolveBinding: resolveProperty}, nil
		case part.KindLive:
			return &directive.Directive{Name: "live", ResolveBinding: resolveLive}, nil
		case part.KindEvent:
			return &directive.Directive{Name: "event", ResolveBinding: resolveEvent}, nil
		case part.KindElement:
			return &directive.Directive{Name: "element", ResolveBinding: resolveElement}, nil
		case part.KindChildNode:
			return &directive.Directive{Name: "child", ResolveBinding: resolveChildNode(be)}, nil
		case part.KindText:
			return &directive.Directive{Name: "text", ResolveBinding: resolveText}, nil
		default:
			return nil, &directive.MisuseError{DirectiveName: "<default>", Part: p, Reason: "unknown part kind"}
		}
	}
}

func resolveAttribute(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewAttribute(p, value), nil
}

func resolveProperty(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewProperty(p, value), nil
}

func resolveLive(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewLive(p, value), nil
}

func resolveEvent(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewEvent(p, value), nil
}

func resolveElement(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewElement(p), nil
}

func resolveChildNode(be backend.BackEnd) func(value any, p *part.Part, ctx directive.Context) (directive.Binding, error) {
	return func(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
		return binding.NewChildNode(p, value, be), nil
	}
}

func resolveText(value any, p *part.Part, _ directive.Context) (directive.Binding, error) {
	return binding.NewText(p, value), nil
}
