package locate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain/document"
)

// Expansion limits for block-scoped regions.
const (
	// WeakHeaderMaxChars: text shorter than this reads as a title or label.
	WeakHeaderMaxChars = 20
	// MaxBackwardSteps bounds the walk back to the enclosing header.
	MaxBackwardSteps = 5
	// SectionForwardCap bounds the forward walk when the region starts at a header.
	SectionForwardCap = 60
	// ParagraphForwardCap bounds the forward walk otherwise.
	ParagraphForwardCap = 15
	// WeakHeaderGraceSteps is the forward step from which a weak header ends the region.
	WeakHeaderGraceSteps = 20
)

// IsHeader reports whether a node with the given tag and text acts as a section header.
func IsHeader(tag, text string) bool {
	if document.IsHeadingTag(tag) {
		return true
	}
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	return n > 0 && n < WeakHeaderMaxChars
}

func isHeader(n *html.Node) bool {
	return IsHeader(document.Tag(n), document.Text(n))
}

// expand grows a block region around match. claimed reports nodes owned
// by an earlier region; expansion never crosses them.
func expand(match *html.Node, claimed func(*html.Node) bool) []*html.Node {
	nodes := []*html.Node{match}

	first := match
	if !isHeader(match) {
		for range MaxBackwardSteps {
			prev := document.PrevSibling(first)
			if prev == nil || claimed(prev) {
				break
			}
			nodes = append([]*html.Node{prev}, nodes...)
			first = prev
			if isHeader(prev) {
				break
			}
		}
	}

	limit := ParagraphForwardCap
	if isHeader(first) {
		limit = SectionForwardCap
	}
	cur := match
	for step := 1; step <= limit; step++ {
		next := document.NextSibling(cur)
		if next == nil || claimed(next) || document.IsHeading(next) {
			break
		}
		if step >= WeakHeaderGraceSteps && isHeader(next) {
			break
		}
		nodes = append(nodes, next)
		cur = next
	}
	return nodes
}
