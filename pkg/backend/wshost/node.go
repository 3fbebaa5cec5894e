// Package wshost is a backend.BackEnd that streams DOM mutations to a
// browser client over a WebSocket connection, rather than touching a real
// document in-process (there is no real document in a Go process). It
// mirrors how the teacher's own session/websocket layer owns one
// connection per live page and pushes incremental updates down the wire,
// adapted here to carry this module's Part/Binding effect model instead of
// the teacher's VDOM patch stream.
package wshost

import (
	"fmt"
	"sync/atomic"

	"github.com/filament-ui/filament/pkg/backend"
)

var nodeIDSeq atomic.Uint64

// Node is wshost's concrete backend.Node: a server-held mirror of one
// client-side DOM node, identified by a connection-scoped id so mutation
// patches can address it without round-tripping a handle.
type Node struct {
	id   uint64
	kind backend.NodeKind
	conn *Connection

	tag          string
	namespaceURI string
	text         string

	attrs     map[string]string
	listeners map[string][]eventListener

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev, next *Node
}

type eventListener struct {
	opts backend.EventOptions
	fn   func(backend.Event)
}

func newNode(conn *Connection, kind backend.NodeKind) *Node {
	return &Node{
		id:        nodeIDSeq.Add(1),
		kind:      kind,
		conn:      conn,
		attrs:     map[string]string{},
		listeners: map[string][]eventListener{},
	}
}

func (n *Node) ID() uint64 { return n.id }

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

func (n *Node) InsertBefore(child backend.Node, anchor backend.Node) {
	c := child.(*Node)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n

	var a *Node
	var anchorID uint64
	if anchor != nil {
		a = anchor.(*Node)
		anchorID = a.id
	}

	if a == nil {
		c.prev, c.next = n.lastChild, nil
		if n.lastChild != nil {
			n.lastChild.next = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
	} else {
		c.next, c.prev = a, a.prev
		if a.prev != nil {
			a.prev.next = c
		} else {
			n.firstChild = c
		}
		a.prev = c
	}

	n.conn.enqueue(patch{Op: opInsertBefore, NodeID: c.id, ParentID: n.id, AnchorID: anchorID})
}

func (n *Node) RemoveChild(child backend.Node) {
	c := child.(*Node)
	n.detach(c)
	n.conn.enqueue(patch{Op: opRemoveChild, NodeID: c.id, ParentID: n.id})
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

func (n *Node) SetAttribute(name, value string) {
	n.attrs[name] = value
	n.conn.enqueue(patch{Op: opSetAttribute, NodeID: n.id, Name: name, Value: value})
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.attrs, name)
	n.conn.enqueue(patch{Op: opRemoveAttribute, NodeID: n.id, Name: name})
}

func (n *Node) SetProperty(name string, value any) {
	n.conn.enqueue(patch{Op: opSetProperty, NodeID: n.id, Name: name, Value: fmt.Sprint(value)})
}

func (n *Node) GetProperty(name string) any { return n.attrs[name] }

func (n *Node) SetTextData(data string) {
	n.text = data
	n.conn.enqueue(patch{Op: opSetText, NodeID: n.id, Value: data})
}

func (n *Node) TextData() string { return n.text }

func (n *Node) AddEventListener(event string, opts backend.EventOptions, fn func(backend.Event)) {
	n.listeners[event] = append(n.listeners[event], eventListener{opts: opts, fn: fn})
	n.conn.registerListener(n.id, event)
	n.conn.enqueue(patch{Op: opAddListener, NodeID: n.id, Name: event})
}

func (n *Node) RemoveEventListener(event string, opts backend.EventOptions, fn func(backend.Event)) {
	entries := n.listeners[event]
	for i, e := range entries {
		if e.opts == opts {
			n.listeners[event] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(n.listeners[event]) == 0 {
		n.conn.enqueue(patch{Op: opRemoveListener, NodeID: n.id, Name: event})
	}
}

// dispatch runs every handler registered for event on n, used when a
// client event frame arrives over the WebSocket.
func (n *Node) dispatch(event backend.Event) {
	for _, e := range n.listeners[event.Type()] {
		e.fn(event)
	}
}

func (n *Node) Debug() string {
	switch n.kind {
	case backend.NodeElement:
		return fmt.Sprintf("<%s#%d>", n.tag, n.id)
	case backend.NodeText:
		return fmt.Sprintf("#text%d(%q)", n.id, n.text)
	case backend.NodeComment:
		return fmt.Sprintf("<!--#%d %s-->", n.id, n.text)
	default:
		return fmt.Sprintf("#fragment%d", n.id)
	}
}

var _ backend.Node = (*Node)(nil)
