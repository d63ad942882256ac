package document

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

// Command replaces a run of sibling nodes with a replacement list.
// An empty Targets list with an Anchor inserts after the anchor.
type Command struct {
	Targets     []*html.Node
	Replacement []*html.Node
	// Anchor is used only when Targets is empty.
	Anchor *html.Node
}

// Apply executes the command against the document.
// Targets must be attached siblings; replacement nodes must be detached.
func (d *Document) Apply(cmd Command) error {
	if len(cmd.Targets) == 0 {
		return d.insertAfter(cmd.Anchor, cmd.Replacement)
	}
	parent := cmd.Targets[0].Parent
	if parent == nil || !d.Contains(parent) {
		return errors.New("apply: target is not attached to the document")
	}
	for _, t := range cmd.Targets {
		if t.Parent != parent {
			return errors.New("apply: targets must share a parent")
		}
	}
	for _, r := range cmd.Replacement {
		if r.Parent != nil {
			return errors.New("apply: replacement node is still attached")
		}
	}
	first := cmd.Targets[0]
	for _, r := range cmd.Replacement {
		parent.InsertBefore(r, first)
	}
	for _, t := range cmd.Targets {
		parent.RemoveChild(t)
	}
	return nil
}

func (d *Document) insertAfter(anchor *html.Node, nodes []*html.Node) error {
	parent := d.root
	var before *html.Node
	if anchor != nil {
		if anchor.Parent == nil || !d.Contains(anchor) {
			return fmt.Errorf("apply: anchor is not attached to the document")
		}
		parent = anchor.Parent
		before = anchor.NextSibling
	}
	for _, n := range nodes {
		if n.Parent != nil {
			return errors.New("apply: replacement node is still attached")
		}
		parent.InsertBefore(n, before)
	}
	return nil
}

