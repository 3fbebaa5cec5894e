package wshost

// op names the client-side mutation a patch asks the browser to apply.
// Unlike the teacher's binary VDOM patch protocol (pkg/protocol), these
// map directly onto DOM API calls (insertBefore, setAttribute, ...) since
// this module's Binding effects already operate at that granularity -
// there's no intermediate tree diff to encode.
type op string

const (
	opCreateElement   op = "create_element"
	opCreateText      op = "create_text"
	opCreateComment   op = "create_comment"
	opInsertBefore    op = "insert_before"
	opRemoveChild     op = "remove_child"
	opSetAttribute    op = "set_attribute"
	opRemoveAttribute op = "remove_attribute"
	opSetProperty     op = "set_property"
	opSetText         op = "set_text"
	opAddListener     op = "add_listener"
	opRemoveListener  op = "remove_listener"
	opBeginTransition op = "begin_view_transition"
	opEndTransition   op = "end_view_transition"
)

// patch is one client-bound mutation instruction, batched per commit
// phase and flushed as a single JSON frame (field names kept short since
// this crosses the wire on every render).
type patch struct {
	Op        op     `json:"op"`
	NodeID    uint64 `json:"id,omitempty"`
	ParentID  uint64 `json:"parent,omitempty"`
	AnchorID  uint64 `json:"anchor,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Namespace string `json:"ns,omitempty"`
	Name      string `json:"name,omitempty"`
	Value     string `json:"value,omitempty"`
}

// clientEvent is the inbound frame shape the browser sends back for a
// dispatched DOM event.
type clientEvent struct {
	NodeID uint64 `json:"id"`
	Type   string `json:"type"`
}
