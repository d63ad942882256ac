// Package region describes the slice of a document selected as an edit target.
package region

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain/document"
)

// Kind is the granularity a region was selected at.
type Kind string

// Region kinds.
const (
	KindInline Kind = "inline"
	KindBlock  Kind = "block"
	KindGlobal Kind = "global"
)

// Scope is the edit granularity requested by analysis.
type Scope string

// Scopes.
const (
	ScopeInline Scope = "inline"
	ScopeBlock  Scope = "block"
)

// ParseScope maps free-form model output to a Scope. Unknown values mean block.
func ParseScope(s string) Scope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeInline)) {
		return ScopeInline
	}
	return ScopeBlock
}

// Region is a contiguous ordered run of sibling nodes. Blank text and
// comments between its structural nodes belong to it.
type Region struct {
	Kind  Kind
	Nodes []*html.Node
	// Score is the locator score of the seed node. Zero for global regions.
	Score float64
}

// New builds a region over nodes.
func New(kind Kind, nodes []*html.Node) Region {
	return Region{Kind: kind, Nodes: nodes}
}

// Markup renders the region's nodes in document order.
func (r Region) Markup() string {
	return document.Render(r.Nodes)
}

// Snippet returns the region's plain text, one node per line.
func (r Region) Snippet() string {
	parts := make([]string, 0, len(r.Nodes))
	for _, n := range document.Structural(r.Nodes) {
		if t := strings.TrimSpace(document.Text(n)); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// Covers reports whether n is one of the region's nodes or nested inside one.
func (r Region) Covers(n *html.Node) bool {
	for _, rn := range r.Nodes {
		for p := n; p != nil; p = p.Parent {
			if p == rn {
				return true
			}
		}
	}
	return false
}
