package wshost

import (
	"log/slog"
	"testing"

	"github.com/filament-ui/filament/pkg/backend"
)

// testConn builds a Connection with no real *websocket.Conn, safe as long as
// the test never exercises flush/ReadLoop/pingLoop (the only methods that
// touch conn.conn directly).
func testConn() *Connection {
	return newConnection("t", nil, &Hub{conns: map[string]*Connection{}}, slog.Default())
}

func lastPatch(c *Connection) patch {
	return c.pending[len(c.pending)-1]
}

func TestCreateElementTracksNodeAndEnqueuesPatch(t *testing.T) {
	c := testConn()
	n := c.CreateElement("div", "http://www.w3.org/1999/xhtml").(*Node)

	if n.Kind() != backend.NodeElement {
		t.Fatalf("got kind %v", n.Kind())
	}
	if c.nodes[n.id] != n {
		t.Fatalf("expected CreateElement to track the new node by id")
	}
	p := lastPatch(c)
	if p.Op != opCreateElement || p.NodeID != n.id || p.Tag != "div" {
		t.Fatalf("got patch %+v", p)
	}
}

func TestInsertBeforeEnqueuesPatchAndLinksSiblings(t *testing.T) {
	c := testConn()
	root := c.CreateElement("div", "").(*Node)
	a := c.CreateText("a").(*Node)
	b := c.CreateText("b").(*Node)

	root.InsertBefore(a, nil)
	root.InsertBefore(b, nil)

	if root.FirstChild() != backend.Node(a) {
		t.Fatalf("expected a to be first child")
	}
	if a.NextSibling() != backend.Node(b) {
		t.Fatalf("expected b to follow a")
	}

	p := lastPatch(c)
	if p.Op != opInsertBefore || p.NodeID != b.id || p.ParentID != root.id || p.AnchorID != 0 {
		t.Fatalf("got patch %+v", p)
	}
}

func TestInsertBeforeWithAnchorRecordsAnchorID(t *testing.T) {
	c := testConn()
	root := c.CreateElement("div", "").(*Node)
	a := c.CreateText("a").(*Node)
	root.InsertBefore(a, nil)

	b := c.CreateText("b").(*Node)
	root.InsertBefore(b, a)

	if root.FirstChild() != backend.Node(b) {
		t.Fatalf("expected b to be spliced in before a")
	}
	p := lastPatch(c)
	if p.Op != opInsertBefore || p.AnchorID != a.id {
		t.Fatalf("expected the anchor's id to be recorded, got %+v", p)
	}
}

func TestRemoveChildDetachesAndEnqueuesPatch(t *testing.T) {
	c := testConn()
	root := c.CreateElement("div", "").(*Node)
	a := c.CreateText("a").(*Node)
	root.InsertBefore(a, nil)

	root.RemoveChild(a)

	if root.FirstChild() != nil {
		t.Fatalf("expected no children after RemoveChild")
	}
	p := lastPatch(c)
	if p.Op != opRemoveChild || p.NodeID != a.id {
		t.Fatalf("got patch %+v", p)
	}
}

func TestSetAttributeStoresValueAndEnqueuesPatch(t *testing.T) {
	c := testConn()
	n := c.CreateElement("div", "").(*Node)
	n.SetAttribute("id", "x")

	p := lastPatch(c)
	if p.Op != opSetAttribute || p.Name != "id" || p.Value != "x" {
		t.Fatalf("got patch %+v", p)
	}

	n.RemoveAttribute("id")
	p = lastPatch(c)
	if p.Op != opRemoveAttribute || p.Name != "id" {
		t.Fatalf("got patch %+v", p)
	}
}

func TestAddEventListenerRegistersListeningAndEnqueuesAddPatch(t *testing.T) {
	c := testConn()
	n := c.CreateElement("button", "").(*Node)
	n.AddEventListener("click", backend.EventOptions{}, func(backend.Event) {})

	if !c.listening[n.id]["click"] {
		t.Fatalf("expected the connection to track this node/event as listening")
	}
	p := lastPatch(c)
	if p.Op != opAddListener || p.Name != "click" {
		t.Fatalf("got patch %+v", p)
	}
}

func TestRemoveEventListenerOnlyEnqueuesRemovePatchWhenNoListenersRemain(t *testing.T) {
	c := testConn()
	n := c.CreateElement("button", "").(*Node)
	fn1 := func(backend.Event) {}
	fn2 := func(backend.Event) {}
	n.AddEventListener("click", backend.EventOptions{}, fn1)
	n.AddEventListener("click", backend.EventOptions{Capture: true}, fn2)

	n.RemoveEventListener("click", backend.EventOptions{}, fn1)
	if lastPatch(c).Op == opRemoveListener {
		t.Fatalf("expected no remove_listener patch while a capture listener remains")
	}

	n.RemoveEventListener("click", backend.EventOptions{Capture: true}, fn2)
	if p := lastPatch(c); p.Op != opRemoveListener || p.Name != "click" {
		t.Fatalf("expected a remove_listener patch once the last listener is gone, got %+v", p)
	}
}

func TestDispatchInvokesOnlyMatchingListeners(t *testing.T) {
	c := testConn()
	n := c.CreateElement("button", "").(*Node)
	var clicks, hovers int
	n.AddEventListener("click", backend.EventOptions{}, func(backend.Event) { clicks++ })
	n.AddEventListener("mouseover", backend.EventOptions{}, func(backend.Event) { hovers++ })

	n.dispatch(&Event{typ: "click", target: n})

	if clicks != 1 || hovers != 0 {
		t.Fatalf("got clicks=%d hovers=%d", clicks, hovers)
	}
}

func TestSetPropertyEnqueuesStringifiedValue(t *testing.T) {
	c := testConn()
	n := c.CreateElement("input", "").(*Node)
	n.SetProperty("value", 42)

	p := lastPatch(c)
	if p.Op != opSetProperty || p.Value != "42" {
		t.Fatalf("got patch %+v", p)
	}
}

func TestConnIDEncodesSequentialIntsInBase36(t *testing.T) {
	cases := map[int]string{0: "0", 1: "1", 35: "z", 36: "10"}
	for n, want := range cases {
		if got := connID(n); got != want {
			t.Fatalf("connID(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestHubCountReflectsRegisteredConnections(t *testing.T) {
	h := NewHub(nil)
	if h.Count() != 0 {
		t.Fatalf("expected a fresh Hub to report 0 connections")
	}
	h.conns["a"] = &Connection{}
	h.conns["b"] = &Connection{}
	if h.Count() != 2 {
		t.Fatalf("got %d", h.Count())
	}
	h.remove("a")
	if h.Count() != 1 {
		t.Fatalf("expected remove to drop one connection, got %d", h.Count())
	}
}
