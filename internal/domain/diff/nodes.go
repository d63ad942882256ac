package diff

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Nodes builds the rendering of HTML as detached nodes, ready to be
// attached under an element.
func (r Result) Nodes() []*html.Node {
	var out []*html.Node
	for _, op := range r.Ops {
		text := &html.Node{Type: html.TextNode, Data: op.Text()}
		switch {
		case op.Kind == Same:
			out = append(out, text)
		case op.IsSpace():
			if op.Kind == Inserted {
				out = append(out, text)
			}
		case op.Kind == Deleted:
			out = append(out, wrap(atom.Del, ClassDeleted, text))
		default:
			out = append(out, wrap(atom.Ins, ClassInserted, text))
		}
	}
	return out
}

func wrap(a atom.Atom, class string, child *html.Node) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
	el.AppendChild(child)
	return el
}
