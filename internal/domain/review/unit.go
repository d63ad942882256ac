// Package review tracks pending rewrites mounted inside a live document.
package review

import (
	"time"

	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain/diff"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
)

// State is a review unit's lifecycle state.
type State string

// Review states. Accepted and rejected are terminal.
const (
	StateHidden   State = "hidden"
	StateShown    State = "shown"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

// Attributes marking the live nodes a unit occupies.
const (
	AttrID    = "data-review-id"
	AttrState = "data-review-state"
)

// Unit is one applied diff awaiting a decision.
type Unit struct {
	ID    string
	Kind  region.Kind
	State State

	// Original is the markup the unit replaced. Empty for pure insertions.
	Original string
	// Replacement is the markup accepting the unit leaves behind. Empty for pure deletions.
	Replacement string
	// Annotated is the live marked-up rendering with change spans.
	Annotated string

	Deleted  int
	Inserted int
	Preview  []diff.Line

	CreatedAt time.Time

	nodes       []*html.Node
	originals   []*html.Node
	replacement []*html.Node
}

func marked(n *html.Node) bool {
	_, ok := document.Attr(n, AttrID)
	return ok
}

// Occupied reports whether n overlaps a mounted unit's live nodes, looking
// both up and down the tree. Occupied nodes must not seed or join a new change.
func Occupied(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if marked(p) {
			return true
		}
	}
	held := false
	document.Walk(n, func(c *html.Node) bool {
		if marked(c) {
			held = true
		}
		return !held
	})
	return held
}

func (u *Unit) setState(s State) {
	u.State = s
	for _, n := range u.nodes {
		if n.Type == html.ElementNode {
			document.SetAttr(n, AttrState, string(s))
		}
	}
	u.Annotated = document.Render(u.nodes)
}

// snapshot returns a copy safe to hand out of the arena.
func (u *Unit) snapshot() Unit {
	c := *u
	c.nodes, c.originals, c.replacement = nil, nil, nil
	return c
}
