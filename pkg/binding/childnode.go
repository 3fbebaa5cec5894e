package binding

import (
	"fmt"

	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/part"
)

// Nothing is the sentinel "no value" the child-node primitive renders as an
// empty range (spec §4.2: "child-node primitive for a 'no-value' nothing").
type Nothing struct{}

// ChildNode is the generic binding for a ChildNode Part bound to a scalar
// rendering primitive: a literal value rendered as a single text node, or
// Nothing. Richer ChildNode content — nested templates, keyed lists — is
// managed by bindings in pkg/template and pkg/directives that compose this
// package's Binding contract with pkg/slot, rather than by a single
// universal type; that split mirrors spec §4.2's division between the core
// binding contract and the built-in directive catalog.
type ChildNode struct {
	base
	backend  backend.BackEnd
	textNode backend.Node
}

// NewChildNode constructs a ChildNode binding for p. be is used to create
// the text node that scalar values render into.
func NewChildNode(p *part.Part, value any, be backend.BackEnd) *ChildNode {
	return &ChildNode{base: base{p: p, value: value}, backend: be}
}

func (c *ChildNode) ShouldBind(newValue any) bool { return shouldBindDefault(c.value, newValue) }
func (c *ChildNode) Bind(newValue any)            { c.value = newValue }

func (c *ChildNode) Connect(ctx Context) {
	if c.connected.CompareAndSwap(false, true) {
		ctx.EnqueueMutation(backend.Effect{Commit: c.Commit, Label: "childnode"})
	}
}

func (c *ChildNode) Disconnect(ctx Context) {
	if c.connected.CompareAndSwap(true, false) {
		ctx.EnqueueMutation(backend.Effect{Commit: c.Rollback, Label: "childnode:rollback"})
	}
}

// Commit renders c.value as a single text node, or clears the range when
// the value is nil/Nothing{}.
func (c *ChildNode) Commit() {
	if isEmptyChildValue(c.value) {
		c.clear()
		c.committed.Store(true)
		return
	}

	text := fmt.Sprintf("%v", c.value)
	if c.textNode == nil {
		c.textNode = c.backend.CreateText(text)
		c.insertOwnedNode(c.textNode)
	} else {
		c.textNode.SetTextData(text)
	}
	c.syncAnchor()
	c.committed.Store(true)
}

func (c *ChildNode) Rollback() {
	if !c.committed.Load() {
		return
	}
	c.clear()
	c.committed.Store(false)
}

func (c *ChildNode) clear() {
	if c.textNode != nil {
		if parent := c.textNode.Parent(); parent != nil {
			parent.RemoveChild(c.textNode)
		}
		c.textNode = nil
	}
	c.syncAnchor()
}

// insertOwnedNode inserts n into the live tree immediately before this
// part's comment marker, which is how every ChildNode binding grows its
// owned range (spec §4.3: "commit inserts new child nodes before the
// comment anchor").
func (c *ChildNode) insertOwnedNode(n backend.Node) {
	parent := c.p.Node.Parent()
	if parent != nil {
		parent.InsertBefore(n, c.p.Node)
	}
}

// syncAnchor maintains invariant I4: anchorNode equals the first node in
// the range, or nil when the range is empty.
func (c *ChildNode) syncAnchor() {
	if c.textNode != nil {
		c.p.AnchorNode = c.textNode
	} else {
		c.p.AnchorNode = nil
	}
}

func (c *ChildNode) Hydrate(tree HydrationTree) error {
	if isEmptyChildValue(c.value) {
		c.committed.Store(true)
		c.connected.Store(true)
		return nil
	}
	node, err := tree.NextNode(backend.NodeText)
	if err != nil {
		return err
	}
	c.textNode = node
	c.syncAnchor()
	c.committed.Store(true)
	c.connected.Store(true)
	return nil
}

func isEmptyChildValue(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nothing)
	return ok
}
