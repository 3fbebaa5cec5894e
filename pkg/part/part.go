// Package part defines the typed description of a single DOM position that
// a Binding applies effects to (spec §3, §4.2).
package part

import "github.com/filament-ui/filament/pkg/backend"

// Kind discriminates the seven Part variants from spec §3.
type Kind uint8

const (
	KindAttribute Kind = iota
	KindProperty
	KindLive
	KindEvent
	KindElement
	KindChildNode
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "Attribute"
	case KindProperty:
		return "Property"
	case KindLive:
		return "Live"
	case KindEvent:
		return "Event"
	case KindElement:
		return "Element"
	case KindChildNode:
		return "ChildNode"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Part is the anchor in the live DOM that a Binding owns and mutates.
// Exactly one of the Kind-specific fields is meaningful for a given Part;
// callers should switch on Kind rather than inspect fields directly.
type Part struct {
	Kind Kind
	Node backend.Node

	// Attribute / Property / Live / Event
	Name         string
	DefaultValue any

	// ChildNode
	AnchorNode   backend.Node // nil means "range is empty"
	NamespaceURI string

	// Text
	PrecedingText string
	FollowingText string
}

// NewAttribute builds an Attribute part (spec §3).
func NewAttribute(node backend.Node, name string) *Part {
	return &Part{Kind: KindAttribute, Node: node, Name: name}
}

// NewProperty builds a Property part.
func NewProperty(node backend.Node, name string, defaultValue any) *Part {
	return &Part{Kind: KindProperty, Node: node, Name: name, DefaultValue: defaultValue}
}

// NewLive builds a Live part, whose current reading is authoritative.
func NewLive(node backend.Node, name string, defaultValue any) *Part {
	return &Part{Kind: KindLive, Node: node, Name: name, DefaultValue: defaultValue}
}

// NewEvent builds an Event part.
func NewEvent(node backend.Node, name string) *Part {
	return &Part{Kind: KindEvent, Node: node, Name: name}
}

// NewElement builds an Element part: "the whole element".
func NewElement(node backend.Node) *Part {
	return &Part{Kind: KindElement, Node: node}
}

// NewChildNode builds a ChildNode part. node is the reserved `<!---->`
// comment marker; anchorNode is the first node of the owned range, or nil
// when the range is empty (invariant I4).
func NewChildNode(node backend.Node, anchorNode backend.Node, namespaceURI string) *Part {
	return &Part{Kind: KindChildNode, Node: node, AnchorNode: anchorNode, NamespaceURI: namespaceURI}
}

// NewText builds a Text part: a slice of a text node whose content is
// preceding ++ value ++ following.
func NewText(node backend.Node, preceding, following string) *Part {
	return &Part{Kind: KindText, Node: node, PrecedingText: preceding, FollowingText: following}
}

// Range returns [start, end] of the nodes a ChildNode part owns, per
// invariant I4: anchorNode if set, else the comment node itself (an empty
// range both ends at the marker).
func (p *Part) Range() (start, end backend.Node) {
	if p.Kind != KindChildNode {
		return p.Node, p.Node
	}
	if p.AnchorNode != nil {
		return p.AnchorNode, p.Node
	}
	return p.Node, p.Node
}

// ClassifyAttrName classifies an attribute name by its leading character
// per spec §4.1 step 5 / §6.3: `@` → Event, `.` → Property, `$` → Live,
// otherwise Attribute. Returns the Kind and the name with the prefix (if
// any) stripped.
func ClassifyAttrName(name string) (Kind, string) {
	if name == "" {
		return KindAttribute, name
	}
	switch name[0] {
	case '@':
		return KindEvent, name[1:]
	case '.':
		return KindProperty, name[1:]
	case '$':
		return KindLive, name[1:]
	default:
		return KindAttribute, name
	}
}

// Debug renders a short description for error messages (directive misuse,
// hydration mismatches).
func (p *Part) Debug() string {
	if p.Node == nil {
		return p.Kind.String() + "(<nil>)"
	}
	return p.Kind.String() + "(" + p.Node.Debug() + ")"
}
