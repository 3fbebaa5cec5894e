// Package memdom is an in-process, allocation-cheap stand-in for a real
// document: a tree of *Node values plus a BackEnd that runs every callback
// synchronously. It exists so the rest of this module's packages can be
// exercised by plain `testing` tests without a browser or a headless
// renderer, mirroring the teacher's own in-memory DOM fake used by its
// server-side render tests.
package memdom

import (
	"context"
	"fmt"
	"strings"

	"github.com/filament-ui/filament/pkg/backend"
)

// Node is memdom's concrete backend.Node: a doubly-linked sibling list plus
// a parent pointer, enough to support every tree operation pkg/binding and
// pkg/hydrate need.
type Node struct {
	kind backend.NodeKind

	tag          string
	namespaceURI string
	text         string

	attrs      map[string]string
	props      map[string]any
	listeners  map[string][]listenerEntry
	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev, next *Node
}

type listenerEntry struct {
	opts backend.EventOptions
	fn   func(backend.Event)
}

func newNode(kind backend.NodeKind) *Node {
	return &Node{kind: kind, attrs: map[string]string{}, props: map[string]any{}, listeners: map[string][]listenerEntry{}}
}

func (n *Node) Kind() backend.NodeKind { return n.kind }

func (n *Node) Parent() backend.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) FirstChild() backend.Node {
	if n.firstChild == nil {
		return nil
	}
	return n.firstChild
}

func (n *Node) NextSibling() backend.Node {
	if n.next == nil {
		return nil
	}
	return n.next
}

// InsertBefore inserts child immediately before anchor among n's children,
// or appends it when anchor is nil (spec §4.1's `insertBefore(node, null)`
// append convention).
func (n *Node) InsertBefore(child backend.Node, anchor backend.Node) {
	c := child.(*Node)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n

	var a *Node
	if anchor != nil {
		a = anchor.(*Node)
	}

	if a == nil {
		c.prev = n.lastChild
		c.next = nil
		if n.lastChild != nil {
			n.lastChild.next = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
		return
	}

	c.next = a
	c.prev = a.prev
	if a.prev != nil {
		a.prev.next = c
	} else {
		n.firstChild = c
	}
	a.prev = c
}

func (n *Node) RemoveChild(child backend.Node) {
	n.detach(child.(*Node))
}

func (n *Node) detach(c *Node) {
	if c.prev != nil {
		c.prev.next = c.next
	} else if n.firstChild == c {
		n.firstChild = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	} else if n.lastChild == c {
		n.lastChild = c.prev
	}
	c.prev, c.next, c.parent = nil, nil, nil
}

func (n *Node) SetAttribute(name, value string) { n.attrs[name] = value }
func (n *Node) RemoveAttribute(name string)      { delete(n.attrs, name) }
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetProperty(name string, value any) { n.props[name] = value }
func (n *Node) GetProperty(name string) any         { return n.props[name] }

func (n *Node) SetTextData(data string) { n.text = data }
func (n *Node) TextData() string        { return n.text }

func (n *Node) AddEventListener(event string, opts backend.EventOptions, fn func(backend.Event)) {
	n.listeners[event] = append(n.listeners[event], listenerEntry{opts: opts, fn: fn})
}

func (n *Node) RemoveEventListener(event string, opts backend.EventOptions, fn func(backend.Event)) {
	entries := n.listeners[event]
	for i, e := range entries {
		if e.opts == opts {
			n.listeners[event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch synchronously invokes every listener registered for event,
// letting tests exercise an Event part's handler end to end.
func (n *Node) Dispatch(event backend.Event) {
	for _, e := range n.listeners[event.Type()] {
		e.fn(event)
	}
}

func (n *Node) Debug() string {
	switch n.kind {
	case backend.NodeElement:
		return fmt.Sprintf("<%s>", n.tag)
	case backend.NodeText:
		return fmt.Sprintf("#text(%q)", n.text)
	case backend.NodeComment:
		return fmt.Sprintf("<!--%s-->", n.text)
	default:
		return "#fragment"
	}
}

// OuterHTML renders n and its descendants as an HTML-ish string, useful for
// asserting on committed output in tests.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.kind {
	case backend.NodeText:
		b.WriteString(n.text)
		return
	case backend.NodeComment:
		b.WriteString("<!--")
		b.WriteString(n.text)
		b.WriteString("-->")
		return
	case backend.NodeDocumentFragment:
		for c := n.firstChild; c != nil; c = c.next {
			writeNode(b, c)
		}
		return
	}
	b.WriteString("<")
	b.WriteString(n.tag)
	for k, v := range n.attrs {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(v)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for c := n.firstChild; c != nil; c = c.next {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteString(">")
}

// BackEnd is a synchronous backend.BackEnd: every callback it schedules
// runs immediately, inline, on the calling goroutine. That makes tests
// deterministic without needing a fake event loop.
type BackEnd struct{}

// New constructs a ready-to-use in-memory BackEnd.
func New() *BackEnd { return &BackEnd{} }

func (b *BackEnd) GetCurrentPriority() backend.Priority { return backend.PriorityUserBlocking }

func (b *BackEnd) RequestCallback(priority backend.Priority, cb func()) <-chan struct{} {
	done := make(chan struct{})
	cb()
	close(done)
	return done
}

func (b *BackEnd) YieldToMain(ctx context.Context) error { return ctx.Err() }

func (b *BackEnd) ShouldYield() bool { return false }

func (b *BackEnd) StartViewTransition(cb func()) error {
	cb()
	return nil
}

func (b *BackEnd) CommitEffects(effects []backend.Effect, phase backend.Phase) {
	for _, e := range effects {
		if e.Commit != nil {
			e.Commit()
		}
	}
}

func (b *BackEnd) CreateElement(tag string, namespaceURI string) backend.Node {
	n := newNode(backend.NodeElement)
	n.tag = tag
	n.namespaceURI = namespaceURI
	return n
}

func (b *BackEnd) CreateText(data string) backend.Node {
	n := newNode(backend.NodeText)
	n.text = data
	return n
}

func (b *BackEnd) CreateComment(data string) backend.Node {
	n := newNode(backend.NodeComment)
	n.text = data
	return n
}

// NewFragment creates a root-like container node tests can use as the
// parent for a set of Instantiate'd roots.
func NewFragment() *Node { return newNode(backend.NodeDocumentFragment) }

var _ backend.BackEnd = (*BackEnd)(nil)
var _ backend.Node = (*Node)(nil)
