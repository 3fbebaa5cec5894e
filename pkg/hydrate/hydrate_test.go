package hydrate_test

import (
	"testing"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/backend/memdom"
	"github.com/filament-ui/filament/pkg/hydrate"
)

func buildParent(be *memdom.BackEnd) *memdom.Node {
	parent := memdom.NewFragment()
	p := be.CreateElement("p", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	parent.InsertBefore(p, nil)
	p.InsertBefore(be.CreateText("Hello, "), nil)
	p.InsertBefore(be.CreateComment(""), nil)
	p.InsertBefore(be.CreateText("!"), nil)
	return p
}

func TestNextNodeAdvancesCursorInOrder(t *testing.T) {
	be := memdom.New()
	p := buildParent(be)
	w := hydrate.New(be, p, p.FirstChild())

	text1, err := w.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("NextNode text1: %v", err)
	}
	if text1.(*memdom.Node).TextData() != "Hello, " {
		t.Fatalf("got %q", text1.(*memdom.Node).TextData())
	}

	comment, err := w.NextNode(backend.NodeComment)
	if err != nil {
		t.Fatalf("NextNode comment: %v", err)
	}
	if comment == nil {
		t.Fatalf("expected a comment node")
	}

	text2, err := w.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("NextNode text2: %v", err)
	}
	if text2.(*memdom.Node).TextData() != "!" {
		t.Fatalf("got %q", text2.(*memdom.Node).TextData())
	}

	if !w.Done() {
		t.Fatalf("expected the walker to be exhausted after consuming every sibling")
	}
}

func TestPeekNodeDoesNotConsume(t *testing.T) {
	be := memdom.New()
	p := buildParent(be)
	w := hydrate.New(be, p, p.FirstChild())

	peeked, err := w.PeekNode(backend.NodeText)
	if err != nil {
		t.Fatalf("PeekNode: %v", err)
	}
	consumed, err := w.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("NextNode: %v", err)
	}
	if peeked != consumed {
		t.Fatalf("expected PeekNode and the following NextNode to return the same node")
	}
}

func TestNextNodeMismatchReturnsHydrationError(t *testing.T) {
	be := memdom.New()
	p := buildParent(be)
	w := hydrate.New(be, p, p.FirstChild())

	_, err := w.NextNode(backend.NodeElement)
	if err == nil {
		t.Fatalf("expected a mismatch error, got nil")
	}
	herr, ok := err.(*hydrate.Error)
	if !ok {
		t.Fatalf("expected *hydrate.Error, got %T", err)
	}
	if herr.Expected != backend.NodeElement || herr.Got != backend.NodeText {
		t.Fatalf("got Expected=%v Got=%v", herr.Expected, herr.Got)
	}
}

func TestNextNodePastEndOfSiblingsReturnsError(t *testing.T) {
	be := memdom.New()
	parent := memdom.NewFragment()
	only := be.CreateText("x").(*memdom.Node)
	parent.InsertBefore(only, nil)
	w := hydrate.New(be, parent, parent.FirstChild())

	if _, err := w.NextNode(backend.NodeText); err != nil {
		t.Fatalf("NextNode: %v", err)
	}
	_, err := w.NextNode(backend.NodeText)
	if err == nil {
		t.Fatalf("expected an error when no siblings remain")
	}
	herr, ok := err.(*hydrate.Error)
	if !ok || herr.HaveNode {
		t.Fatalf("expected a no-node *hydrate.Error, got %#v", err)
	}
}

func TestChildDescendsIntoElement(t *testing.T) {
	be := memdom.New()
	root := memdom.NewFragment()
	outer := be.CreateElement("div", "http://www.w3.org/1999/xhtml").(*memdom.Node)
	root.InsertBefore(outer, nil)
	inner := be.CreateText("inside").(*memdom.Node)
	outer.InsertBefore(inner, nil)

	w := hydrate.New(be, root, root.FirstChild())
	elNode, err := w.NextNode(backend.NodeElement)
	if err != nil {
		t.Fatalf("NextNode: %v", err)
	}

	child := w.Child(elNode)
	text, err := child.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("child.NextNode: %v", err)
	}
	if text.(*memdom.Node).TextData() != "inside" {
		t.Fatalf("got %q", text.(*memdom.Node).TextData())
	}
	if !child.Done() {
		t.Fatalf("expected the child walker to be exhausted")
	}
}

func TestSplitTextDividesNodeAndInsertsRemainder(t *testing.T) {
	be := memdom.New()
	parent := memdom.NewFragment()
	combined := be.CreateText("HelloWorld").(*memdom.Node)
	parent.InsertBefore(combined, nil)
	tail := be.CreateText("trailing").(*memdom.Node)
	parent.InsertBefore(tail, nil)

	w := hydrate.New(be, parent, parent.FirstChild())
	remainder, err := w.SplitText(5)
	if err != nil {
		t.Fatalf("SplitText: %v", err)
	}
	if remainder.(*memdom.Node).TextData() != "World" {
		t.Fatalf("got remainder %q", remainder.(*memdom.Node).TextData())
	}
	if combined.TextData() != "Hello" {
		t.Fatalf("expected the original node to keep the prefix, got %q", combined.TextData())
	}

	// The walker's cursor now sits on the inserted remainder node, and the
	// next NextNode call must reach the untouched trailing sibling.
	next, err := w.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("NextNode after split: %v", err)
	}
	if next != remainder {
		t.Fatalf("expected cursor to be at the split remainder")
	}
	final, err := w.NextNode(backend.NodeText)
	if err != nil {
		t.Fatalf("NextNode for trailing sibling: %v", err)
	}
	if final != tail {
		t.Fatalf("expected the trailing sibling to follow the remainder")
	}
}
