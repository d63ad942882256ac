package review

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kailas-cloud/revisor/internal/domain/diff"
	"github.com/kailas-cloud/revisor/internal/domain/document"
)

// annotate builds the display nodes for old -> new. Nodes are paired
// positionally; matching containers are descended into so list and table
// structure survives, leaves get a text diff with change spans.
func annotate(oldNodes, newNodes []*html.Node) []*html.Node {
	n := max(len(oldNodes), len(newNodes))
	out := make([]*html.Node, 0, n)
	for i := 0; i < n; i++ {
		var o, nw *html.Node
		if i < len(oldNodes) {
			o = oldNodes[i]
		}
		if i < len(newNodes) {
			nw = newNodes[i]
		}
		out = append(out, annotateNode(o, nw))
	}
	return out
}

func annotateNode(o, nw *html.Node) *html.Node {
	base := nw
	if base == nil {
		base = o
	}
	if isContainer(base) && (o == nil || nw == nil || sameContainer(o, nw)) {
		shell := shallow(base)
		for _, c := range annotate(structural(o), structural(nw)) {
			shell.AppendChild(c)
		}
		return shell
	}

	res := diff.Compute(textOf(o), textOf(nw))
	if nw != nil && !res.HasChange() {
		return document.Clone(nw)
	}
	shell := shallow(base)
	for _, c := range res.Nodes() {
		shell.AppendChild(c)
	}
	return shell
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	return document.Text(n)
}

// isContainer reports whether n only nests other elements.
func isContainer(n *html.Node) bool {
	if n.Type != html.ElementNode || document.HasDirectText(n) || document.IsContentTag(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func sameContainer(a, b *html.Node) bool {
	return a.Type == html.ElementNode && b.Type == html.ElementNode && a.Data == b.Data && isContainer(a)
}

func structural(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// shallow copies an element without children. Text nodes become a <span>.
func shallow(n *html.Node) *html.Node {
	if n.Type != html.ElementNode {
		return &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	}
	return document.ShallowCopy(n)
}
