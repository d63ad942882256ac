package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// contentTags are elements that carry content in their own right.
var contentTags = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.P: true, atom.Li: true, atom.Td: true, atom.Th: true,
	atom.Blockquote: true, atom.Pre: true,
}

// blockTags end a line when flattening text.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Blockquote: true,
	atom.Pre: true, atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Section: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// IsHeadingTag reports whether tag is h1..h6.
func IsHeadingTag(tag string) bool {
	switch atom.Lookup([]byte(strings.ToLower(tag))) {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// IsHeading reports whether n is an h1..h6 element.
func IsHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && IsHeadingTag(n.Data)
}

// IsBlock reports whether n is a block-level element.
func IsBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && blockTags[n.DataAtom]
}

// IsContentTag reports whether n is a content-bearing element.
func IsContentTag(n *html.Node) bool {
	return n.Type == html.ElementNode && contentTags[n.DataAtom]
}

// HasDirectText reports whether n has a non-blank text child.
func HasDirectText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// Tag returns the element name, or "" for non-elements.
func Tag(n *html.Node) string {
	if n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

// Text flattens n to plain text. Block elements and <br> produce line breaks.
func Text(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return strings.TrimRight(b.String(), "\n")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.DataAtom] {
		s := b.String()
		if len(s) > 0 && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
}

// IsStructural reports whether n is an element or a non-blank text node.
func IsStructural(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		return strings.TrimSpace(n.Data) != ""
	}
	return false
}

// Structural filters nodes down to the structural ones.
func Structural(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if IsStructural(n) {
			out = append(out, n)
		}
	}
	return out
}

// NextSibling returns the next structural sibling of n, or nil.
func NextSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if IsStructural(s) {
			return s
		}
	}
	return nil
}

// PrevSibling returns the previous structural sibling of n, or nil.
func PrevSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if IsStructural(s) {
			return s
		}
	}
	return nil
}

// Span returns every sibling from first through last, blank text and
// comments included. last must follow first under the same parent.
func Span(first, last *html.Node) []*html.Node {
	var out []*html.Node
	for s := first; s != nil; s = s.NextSibling {
		out = append(out, s)
		if s == last {
			return out
		}
	}
	return []*html.Node{first}
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

