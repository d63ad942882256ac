// Package document holds the structural node tree the edit pipeline reads and rewrites.
package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kailas-cloud/revisor/internal/domain"
)

// MaxMarkupSize is the maximum accepted document markup size in bytes.
const MaxMarkupSize = 4 << 20

// Document is an HTML fragment rooted at a synthetic container.
// It is not safe for concurrent use; callers serialize access (see workspace).
type Document struct {
	root *html.Node
}

// Parse builds a Document from an HTML fragment.
func Parse(markup string) (*Document, error) {
	if len(markup) > MaxMarkupSize {
		return nil, fmt.Errorf("%w: markup too large (max %d bytes)", domain.ErrInvalidMarkup, MaxMarkupSize)
	}
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	root := newRoot()
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses markup in a <body> context and returns detached top-level nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMarkup, err)
	}
	return nodes, nil
}

func newRoot() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

// Root returns the synthetic container. Its children are the document's top-level nodes.
func (d *Document) Root() *html.Node { return d.root }

// Markup renders the document's top-level nodes.
func (d *Document) Markup() string {
	return Render(Children(d.root))
}

// Text returns the document's plain text.
func (d *Document) Text() string {
	return Text(d.root)
}

// Blocks returns the top-level nodes that carry content, skipping blank text and comments.
func (d *Document) Blocks() []*html.Node {
	var out []*html.Node
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if IsStructural(c) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether n is attached under the document root.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Index returns the pre-order position of n in the document, or -1.
func (d *Document) Index(n *html.Node) int {
	i := 0
	found := -1
	Walk(d.root, func(c *html.Node) bool {
		if c == n {
			found = i
			return false
		}
		i++
		return true
	})
	return found
}

// Walk visits n and its descendants in document order until fn returns false.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Children returns n's child nodes as a slice.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Clone deep-copies a node and its subtree. The copy is detached.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// ShallowCopy copies an element's name and attributes without children.
func ShallowCopy(n *html.Node) *html.Node {
	attrs := make([]html.Attribute, len(n.Attr))
	copy(attrs, n.Attr)
	return &html.Node{Type: n.Type, Data: n.Data, DataAtom: n.DataAtom, Namespace: n.Namespace, Attr: attrs}
}

// Render serializes nodes in order.
func Render(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		// Rendering into a strings.Builder only fails on malformed trees built by hand.
		_ = html.Render(&b, n)
	}
	return b.String()
}
