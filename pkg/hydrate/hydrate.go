// Package hydrate implements the structured tree walker that matches a
// template's compiled plan against a live DOM subtree produced by
// server-rendered markup, adopting existing nodes into Parts/Bindings
// instead of creating new ones (spec §4.9).
package hydrate

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/backend"
)

// Error reports a hydration mismatch: the live tree's shape didn't match
// what the template compiler's plan expected at this position.
type Error struct {
	Expected backend.NodeKind
	Got      backend.NodeKind
	HaveNode bool
	Node     backend.Node
}

func (e *Error) Error() string {
	if !e.HaveNode {
		return fmt.Sprintf("hydration mismatch: expected %s, found end of siblings", nodeKindName(e.Expected))
	}
	return fmt.Sprintf("hydration mismatch: expected %s, found %s (%s)", nodeKindName(e.Expected), nodeKindName(e.Got), e.Node.Debug())
}

func nodeKindName(k backend.NodeKind) string {
	switch k {
	case backend.NodeElement:
		return "element"
	case backend.NodeText:
		return "text"
	case backend.NodeComment:
		return "comment"
	case backend.NodeDocumentFragment:
		return "document-fragment"
	default:
		return "unknown"
	}
}

// Walker walks one level of a live DOM subtree in template pre-order,
// matching expected node kinds as the template compiler's instantiation
// pass asks for them (spec §4.1, §4.9). It also satisfies
// binding.HydrationTree and scope.HydrationWalker.
type Walker struct {
	be     backend.BackEnd
	parent backend.Node
	cursor backend.Node
}

// New constructs a Walker over parent's children, starting at first (which
// is typically parent.FirstChild()).
func New(be backend.BackEnd, parent backend.Node, first backend.Node) *Walker {
	return &Walker{be: be, parent: parent, cursor: first}
}

// Adopted satisfies scope.HydrationWalker's marker method.
func (w *Walker) Adopted() {}

// PeekNode reports the current node without consuming it, erroring if
// there is no current node or its kind doesn't match expected.
func (w *Walker) PeekNode(expected backend.NodeKind) (backend.Node, error) {
	if w.cursor == nil {
		return nil, &Error{Expected: expected}
	}
	if w.cursor.Kind() != expected {
		return nil, &Error{Expected: expected, Got: w.cursor.Kind(), HaveNode: true, Node: w.cursor}
	}
	return w.cursor, nil
}

// NextNode consumes and returns the current node, advancing the cursor to
// its next sibling.
func (w *Walker) NextNode(expected backend.NodeKind) (backend.Node, error) {
	n, err := w.PeekNode(expected)
	if err != nil {
		return nil, err
	}
	w.cursor = n.NextSibling()
	return n, nil
}

// Child returns a Walker over n's children, for descending into an element
// the outer walker just matched.
func (w *Walker) Child(n backend.Node) *Walker {
	return New(w.be, n, n.FirstChild())
}

// SplitText divides the current text node's data after its first prefixLen
// runes: the existing node keeps the prefix, a new text node holding the
// remainder is inserted immediately after it and becomes the new current
// node (used when two adjacent dynamic text parts were serialized into one
// DOM text node with no separating marker).
func (w *Walker) SplitText(prefixLen int) (backend.Node, error) {
	n, err := w.PeekNode(backend.NodeText)
	if err != nil {
		return nil, err
	}
	data := n.TextData()
	runes := []rune(data)
	if prefixLen < 0 || prefixLen > len(runes) {
		return nil, &Error{Expected: backend.NodeText, Got: backend.NodeText, HaveNode: true, Node: n}
	}
	prefix, rest := string(runes[:prefixLen]), string(runes[prefixLen:])
	n.SetTextData(prefix)
	tail := w.be.CreateText(rest)
	if w.parent != nil {
		w.parent.InsertBefore(tail, n.NextSibling())
	}
	w.cursor = tail
	return tail, nil
}

// Done reports whether every sibling at this level has been consumed; a
// template whose plan expected no more nodes but finds some left over (or
// vice versa) is also a hydration mismatch.
func (w *Walker) Done() bool { return w.cursor == nil }
