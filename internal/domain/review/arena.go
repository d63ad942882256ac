package review

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/diff"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
)

// Change describes one rewrite to mount.
type Change struct {
	Kind region.Kind
	// Targets are the attached nodes being rewritten. Empty for a pure insertion.
	Targets []*html.Node
	// Anchor is the insertion point for a pure insertion; nil appends to the document.
	Anchor *html.Node
	// Replacement holds the detached rewritten nodes. Empty for a pure deletion.
	Replacement []*html.Node
}

// Arena owns the pending units of one document.
// Not safe for concurrent use; the owning workspace serializes access.
type Arena struct {
	doc   *document.Document
	units map[string]*Unit
	now   func() time.Time
}

// NewArena creates an arena bound to doc.
func NewArena(doc *document.Document) *Arena {
	return &Arena{doc: doc, units: make(map[string]*Unit), now: time.Now}
}

// Mount writes the annotated rendering of c into the document in place of
// its targets and registers a hidden unit. Whitespace-only rewrites return
// domain.ErrNoChange and leave the document untouched.
func (a *Arena) Mount(c Change) (Unit, error) {
	oldBlocks := document.Structural(c.Targets)
	newBlocks := document.Structural(c.Replacement)
	oldText, newText := joinText(oldBlocks), joinText(newBlocks)

	res := diff.Compute(oldText, newText)
	if !res.HasChange() {
		return Unit{}, domain.ErrNoChange
	}

	id := uuid.NewString()
	annotated := annotate(oldBlocks, newBlocks)
	for _, n := range annotated {
		document.SetAttr(n, AttrID, id)
		document.SetAttr(n, AttrState, string(StateHidden))
	}

	original := document.Render(c.Targets)
	cmd := document.Command{Targets: c.Targets, Replacement: annotated, Anchor: c.Anchor}
	if err := a.doc.Apply(cmd); err != nil {
		return Unit{}, fmt.Errorf("mount: %w", err)
	}

	deleted, inserted := res.Stats()
	preview, _ := diff.Lines(oldText, newText)
	u := &Unit{
		ID:          id,
		Kind:        c.Kind,
		State:       StateHidden,
		Original:    original,
		Replacement: document.Render(c.Replacement),
		Annotated:   document.Render(annotated),
		Deleted:     deleted,
		Inserted:    inserted,
		Preview:     preview,
		CreatedAt:   a.now(),
		nodes:       annotated,
		originals:   c.Targets,
		replacement: c.Replacement,
	}
	a.units[id] = u
	return u.snapshot(), nil
}

// Show reveals a hidden unit.
func (a *Arena) Show(id string) (Unit, error) {
	u, err := a.lookup(id)
	if err != nil {
		return Unit{}, err
	}
	if u.State != StateHidden {
		return Unit{}, &domain.TransitionError{Action: "show", State: string(u.State)}
	}
	u.setState(StateShown)
	return u.snapshot(), nil
}

// Accept commits a shown unit: its live nodes are replaced by the rewrite.
// A pure deletion leaves nothing behind.
func (a *Arena) Accept(id string) (Unit, error) {
	return a.resolve(id, "accept", StateAccepted)
}

// Reject restores a shown unit's original nodes. A pure insertion leaves nothing behind.
func (a *Arena) Reject(id string) (Unit, error) {
	return a.resolve(id, "reject", StateRejected)
}

func (a *Arena) resolve(id, action string, to State) (Unit, error) {
	u, err := a.lookup(id)
	if err != nil {
		return Unit{}, err
	}
	if u.State != StateShown {
		return Unit{}, &domain.TransitionError{Action: action, State: string(u.State)}
	}

	restore := u.replacement
	if to == StateRejected {
		restore = u.originals
	}
	if err := a.doc.Apply(document.Command{Targets: u.nodes, Replacement: restore}); err != nil {
		return Unit{}, fmt.Errorf("%s: %w", action, err)
	}

	u.State = to
	u.nodes = nil
	delete(a.units, id)
	return u.snapshot(), nil
}

// AcceptAll reveals and accepts every pending unit in document order.
func (a *Arena) AcceptAll() ([]Unit, error) {
	return a.resolveAll(a.Accept)
}

// RejectAll reveals and rejects every pending unit in document order.
func (a *Arena) RejectAll() ([]Unit, error) {
	return a.resolveAll(a.Reject)
}

func (a *Arena) resolveAll(fn func(string) (Unit, error)) ([]Unit, error) {
	ordered := a.ordered()
	out := make([]Unit, 0, len(ordered))
	for _, u := range ordered {
		if u.State == StateHidden {
			u.setState(StateShown)
		}
		done, err := fn(u.ID)
		if err != nil {
			return out, err
		}
		out = append(out, done)
	}
	return out, nil
}

// Get returns a pending unit.
func (a *Arena) Get(id string) (Unit, error) {
	u, err := a.lookup(id)
	if err != nil {
		return Unit{}, err
	}
	return u.snapshot(), nil
}

// Pending lists unresolved units in document order.
func (a *Arena) Pending() []Unit {
	ordered := a.ordered()
	out := make([]Unit, 0, len(ordered))
	for _, u := range ordered {
		out = append(out, u.snapshot())
	}
	return out
}

// Len returns the number of pending units.
func (a *Arena) Len() int { return len(a.units) }

func (a *Arena) lookup(id string) (*Unit, error) {
	u, ok := a.units[id]
	if !ok {
		return nil, fmt.Errorf("unit %q: %w", id, domain.ErrUnitNotFound)
	}
	return u, nil
}

func (a *Arena) ordered() []*Unit {
	out := make([]*Unit, 0, len(a.units))
	pos := make(map[*Unit]int, len(a.units))
	for _, u := range a.units {
		out = append(out, u)
		pos[u] = a.doc.Index(u.nodes[0])
	}
	slices.SortFunc(out, func(x, y *Unit) int {
		if pos[x] != pos[y] {
			return pos[x] - pos[y]
		}
		return x.CreatedAt.Compare(y.CreatedAt)
	})
	return out
}

func joinText(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, document.Text(n))
	}
	return strings.Join(parts, "\n")
}
