package template

// Mode selects the parsing context a Source is compiled in (spec §4.1):
// plain HTML content or foreign SVG/MathML content (different tag-name
// casing and namespace rules). There is no raw-text mode; raw-text element
// content is parsed as ModeHTML.
type Mode int

const (
	ModeHTML Mode = iota
	ModeSVG
	ModeMath
)

// namespaceURI returns the XML namespace a Mode's root elements belong to,
// stored on ChildNode parts per spec §3 so instantiation can create
// same-namespace elements for dynamically-created content.
func (m Mode) namespaceURI() string {
	switch m {
	case ModeSVG:
		return "http://www.w3.org/2000/svg"
	case ModeMath:
		return "http://www.w3.org/1998/Math/MathML"
	default:
		return "http://www.w3.org/1999/xhtml"
	}
}
