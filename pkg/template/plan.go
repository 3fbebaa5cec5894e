package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Holes lower onto one of two shapes the rest of the compiler understands:
// an attribute-position hole (possibly the whole-element spread form) or a
// child-position hole. Text-position holes ("Hello HOLE!") are lowered to
// child-position holes too - the compiler always anchors a dynamic child
// on a comment marker rather than trying to splice a Text part's
// preceding/following literal text back out of the parsed tree; that
// optimization is left to directives that build Text parts by hand.
const spreadAttrName = "fmt-spread-hole"

// holeCommentPrefix/holeAttrPrefix bracket a hole's index so a legitimate
// static value that happens to contain digits (tabindex="3") is never
// mistaken for a hole: the match requires the full prefix/suffix, not just
// a run of digits.
const holeCommentPrefix = "fmt-hole:"
const holeAttrPrefix = "fmt-hole:"
const holeAttrSuffix = ""

var attrValueTailRe = regexp.MustCompile(`([a-zA-Z_:][-a-zA-Z0-9_:.$@]*)[ \t\n]*=[ \t\n]*["']$`)

func marker(index int) string {
	return holeAttrPrefix + strconv.Itoa(index) + holeAttrSuffix
}

// stripControl drops any leading/trailing ASCII control characters a
// round trip through the HTML tokenizer might add around a literal value,
// so marker comparisons only ever look at the printable payload.
func stripControl(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r < 0x20 })
}

func parseMarker(s string) (int, bool) {
	s = stripControl(s)
	if !strings.HasPrefix(s, holeAttrPrefix) || !strings.HasSuffix(s, holeAttrSuffix) {
		return 0, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(s, holeAttrPrefix), holeAttrSuffix)
	n, err := strconv.Atoi(body)
	return n, err == nil
}

func parseHoleComment(data string) (int, bool) {
	data = stripControl(strings.TrimSpace(data))
	if !strings.HasPrefix(data, holeCommentPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(data, holeCommentPrefix))
	return n, err == nil
}

// planNodeKind discriminates the handful of static-structure shapes a Plan
// tree is built from.
type planNodeKind int

const (
	planElement planNodeKind = iota
	planText
	planComment
	planChildHole
)

type planAttr struct {
	name  string
	value string
}

type planAttrHole struct {
	name  string
	index int
}

// planNode is one node of a Plan's static structure: enough to recreate
// the equivalent backend.Node on every Instantiate call, plus the hole
// descriptors attached at this position.
type planNode struct {
	kind planNodeKind

	// planElement
	tag            string
	staticAttrs    []planAttr
	attrHoles      []planAttrHole
	elementHole    bool
	elementHoleIdx int
	children       []*planNode

	// planText / planComment
	text string

	// planChildHole
	holeIndex int
}

// Plan is a compiled Source: immutable, shareable across every Instantiate
// call for the Source it came from.
type Plan struct {
	mode  Mode
	roots []*planNode
}

// buildMarkup lowers src into an HTML(-ish) string with every hole
// replaced by a marker the parser will preserve verbatim, so the post-parse
// walk can recover which hole (by Binds index) sat at each position.
func buildMarkup(src Source) string {
	var b strings.Builder
	for i, s := range src.Strings {
		b.WriteString(s)
		if i == len(src.Strings)-1 {
			break
		}
		accumulated := b.String()
		if !insideTag(accumulated) {
			b.WriteString("<!--")
			b.WriteString(holeCommentPrefix)
			b.WriteString(strconv.Itoa(i))
			b.WriteString("-->")
			continue
		}
		if m := attrValueTailRe.FindStringSubmatch(accumulated); m != nil {
			b.WriteString(marker(i))
			continue
		}
		b.WriteString(" ")
		b.WriteString(spreadAttrName)
		b.WriteString(`="`)
		b.WriteString(holeCommentPrefix)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`"`)
	}
	return b.String()
}

// insideTag is a light heuristic (the same kind lit-html's compiler uses):
// scan the markup accumulated so far and report whether the last opened
// tag is still unclosed, i.e. the next character lands inside a tag's
// attribute list rather than in child/text content. It does not account
// for a closing angle bracket appearing inside a quoted attribute value
// that itself contains one; templates needing that should bind the whole
// attribute value instead of splicing it into a larger literal string.
func insideTag(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			if i+1 >= len(s) || (s[i+1] != '/' && s[i+1] != '!') {
				depth++
			}
		case '>':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}

// Compile parses src's markup in the given Mode and builds the reusable
// static Plan. Compile is normally reached through the package-level
// cache (Get), not called directly.
func Compile(mode Mode, src Source) (*Plan, error) {
	markup := buildMarkup(src)

	var context *html.Node
	switch mode {
	case ModeSVG:
		context = &html.Node{Type: html.ElementNode, Data: "svg", DataAtom: atom.Svg}
	case ModeMath:
		context = &html.Node{Type: html.ElementNode, Data: "math", DataAtom: atom.Math}
	default:
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, &CompileError{Reason: "parsing template markup", Cause: err}
	}

	roots := make([]*planNode, 0, len(nodes))
	for _, n := range nodes {
		pn, err := buildPlanNode(n)
		if err != nil {
			return nil, err
		}
		if pn != nil {
			roots = append(roots, pn)
		}
	}
	return &Plan{mode: mode, roots: roots}, nil
}

func buildPlanNode(n *html.Node) (*planNode, error) {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil, nil
		}
		return &planNode{kind: planText, text: n.Data}, nil

	case html.CommentNode:
		if idx, ok := parseHoleComment(n.Data); ok {
			return &planNode{kind: planChildHole, holeIndex: idx}, nil
		}
		return &planNode{kind: planComment, text: n.Data}, nil

	case html.ElementNode:
		pn := &planNode{kind: planElement, tag: n.Data}
		for _, a := range n.Attr {
			if a.Key == spreadAttrName {
				if idx, ok := parseHoleComment(a.Val); ok {
					pn.elementHole = true
					pn.elementHoleIdx = idx
					continue
				}
			}
			if idx, ok := parseMarker(a.Val); ok {
				pn.attrHoles = append(pn.attrHoles, planAttrHole{name: a.Key, index: idx})
				continue
			}
			pn.staticAttrs = append(pn.staticAttrs, planAttr{name: a.Key, value: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			child, err := buildPlanNode(c)
			if err != nil {
				return nil, err
			}
			if child != nil {
				pn.children = append(pn.children, child)
			}
		}
		return pn, nil

	case html.DoctypeNode:
		return nil, nil

	default:
		return nil, &CompileError{Reason: fmt.Sprintf("unsupported node type %v in template markup", n.Type)}
	}
}
