package locate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
	"github.com/kailas-cloud/revisor/internal/domain/review"
)

func parse(t *testing.T, markup string) *document.Document {
	t.Helper()
	doc, err := document.Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestLocate_HelloWorld(t *testing.T) {
	doc := parse(t, `<p>Hello world.</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "world", Scope: region.ScopeBlock})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Score < 1.0 {
		t.Errorf("expected boosted score >= 1, got %v", r.Score)
	}
	if r.Markup() != `<p>Hello world.</p>` {
		t.Errorf("unexpected markup %q", r.Markup())
	}
	if r.Kind != region.KindBlock {
		t.Errorf("expected block kind, got %s", r.Kind)
	}
}

func TestLocate_NoMatch(t *testing.T) {
	svc := New(0, nil)
	tests := []struct {
		name, markup, keywords string
	}{
		{"empty document", ``, "anything"},
		{"blank keywords", `<p>text</p>`, "   "},
		{"disjoint", `<p>Hello world.</p>`, "banana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Locate(parse(t, tt.markup), Query{Keywords: tt.keywords})
			if !errors.Is(err, domain.ErrNoMatch) {
				t.Errorf("expected ErrNoMatch, got %v", err)
			}
		})
	}
}

func TestLocate_InlineNeverExpands(t *testing.T) {
	doc := parse(t, `<h2>Pricing</h2><p>Plans start at ten dollars.</p><p>Enterprise is custom.</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "ten dollars", Scope: region.ScopeInline})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got := regions[0].Markup(); got != `<p>Plans start at ten dollars.</p>` {
		t.Errorf("unexpected inline region %q", got)
	}
}

func TestLocate_SingleNodeExpansion(t *testing.T) {
	doc := parse(t, `<p>A paragraph that is long enough to not be a header.</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "paragraph", Scope: region.ScopeBlock})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(regions[0].Nodes) != 1 {
		t.Errorf("expected a single-node region, got %d nodes", len(regions[0].Nodes))
	}
}

func TestLocate_BlockExpandsToSection(t *testing.T) {
	doc := parse(t, `<h2>Intro</h2><p>Welcome to the handbook for new staff.</p>`+
		`<h2>Benefits</h2><p>Health insurance covers the whole family.</p><p>Dental coverage is optional for everyone.</p>`+
		`<h2>Leave</h2><p>Annual leave is twenty five days.</p>`)

	regions, err := New(0, nil).Locate(doc, Query{Keywords: "dental coverage", Scope: region.ScopeBlock})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := `<h2>Benefits</h2><p>Health insurance covers the whole family.</p><p>Dental coverage is optional for everyone.</p>`
	if got := regions[0].Markup(); got != want {
		t.Errorf("region =\n%s\nwant\n%s", got, want)
	}
}

func TestLocate_BlockRegionKeepsInterBlockWhitespace(t *testing.T) {
	markup := "<h2>Pets</h2>\n<p>The cat sat on the mat all day long.</p>\n<p>It was a sunny afternoon in the garden.</p>"
	doc := parse(t, markup)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "cat sat", Scope: region.ScopeBlock})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	r := regions[0]
	if len(r.Nodes) != 5 {
		t.Fatalf("expected 3 blocks and 2 newlines, got %d nodes", len(r.Nodes))
	}
	if got := r.Markup(); got != markup {
		t.Errorf("region =\n%q\nwant\n%q", got, markup)
	}
}

func TestLocate_SkipsPendingUnits(t *testing.T) {
	doc := parse(t, `<p>The cat sat on the mat all day long.</p><p>Pizza is tasty and everybody loves it.</p>`)
	arena := review.NewArena(doc)
	repl, err := document.ParseFragment(`<p>The dog sat on the mat all day long.</p>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if _, err := arena.Mount(review.Change{Kind: region.KindInline, Targets: doc.Blocks()[:1], Replacement: repl}); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	svc := New(0, nil)
	for _, kw := range []string{"cat", "dog sat"} {
		if _, err := svc.Locate(doc, Query{Keywords: kw, Scope: region.ScopeInline}); !errors.Is(err, domain.ErrNoMatch) {
			t.Errorf("Locate(%q) = %v, want ErrNoMatch", kw, err)
		}
	}

	// Block expansion stops short of the pending paragraph.
	regions, err := svc.Locate(doc, Query{Keywords: "pizza tasty", Scope: region.ScopeBlock})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got := regions[0].Markup(); got != `<p>Pizza is tasty and everybody loves it.</p>` {
		t.Errorf("region crosses a pending unit: %s", got)
	}
}

func TestLocate_TieGoesToFirst(t *testing.T) {
	doc := parse(t, `<p>same words here</p><p>same words here</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "same words", Scope: region.ScopeInline})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if regions[0].Nodes[0] != doc.Blocks()[0] {
		t.Error("expected the first candidate to win the tie")
	}
}

func TestLocate_Global(t *testing.T) {
	doc := parse(t, `<p>The colour red is warm.</p><p>Nothing to see.</p><p>Another colour, blue.</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "colour", Scope: region.ScopeInline, Global: true})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].Nodes[0] != doc.Blocks()[0] || regions[1].Nodes[0] != doc.Blocks()[2] {
		t.Error("expected regions in document order on the matching paragraphs")
	}
}

func TestLocate_GlobalRegionsDoNotOverlap(t *testing.T) {
	doc := parse(t, `<h2>Fruit list</h2><p>apple is a fruit we sell daily.</p><p>another apple paragraph sits here.</p>`)
	regions, err := New(0, nil).Locate(doc, Query{Keywords: "apple", Scope: region.ScopeBlock, Global: true})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	seen := map[any]bool{}
	for _, r := range regions {
		for _, n := range r.Nodes {
			if seen[n] {
				t.Fatalf("node %q claimed twice", document.Text(n))
			}
			seen[n] = true
		}
	}
}

func TestExpand_ForwardCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<p>This opening paragraph is comfortably long.</p>`)
	for i := range 30 {
		fmt.Fprintf(&b, `<p>Body paragraph number %d with enough text.</p>`, i)
	}
	doc := parse(t, b.String())
	nodes := expand(doc.Blocks()[0], func(*html.Node) bool { return false })
	if len(nodes) != ParagraphForwardCap+1 {
		t.Errorf("expected %d nodes, got %d", ParagraphForwardCap+1, len(nodes))
	}

	b.Reset()
	for i := range 70 {
		fmt.Fprintf(&b, `<li>item %d</li>`, i)
	}
	doc = parse(t, `<ul>`+b.String()+`</ul>`)
	// Short list items look like weak headers; they stop expansion only past the grace window.
	items := document.Children(doc.Blocks()[0])
	nodes = expand(items[0], func(*html.Node) bool { return false })
	if len(nodes) != WeakHeaderGraceSteps {
		t.Errorf("expected %d nodes, got %d", WeakHeaderGraceSteps, len(nodes))
	}
}

func TestExpand_StopsAtHeading(t *testing.T) {
	doc := parse(t, `<p>First paragraph with plenty of words.</p><p>Second paragraph with plenty of words.</p><h3>Next</h3><p>Later.</p>`)
	nodes := expand(doc.Blocks()[0], func(*html.Node) bool { return false })
	if len(nodes) != 2 {
		t.Errorf("expected expansion to stop at the heading, got %d nodes", len(nodes))
	}
}

func TestIsHeader(t *testing.T) {
	tests := []struct {
		tag, text string
		want      bool
	}{
		{"h1", "A very long heading that goes on and on", true},
		{"p", "Short label", true},
		{"p", "", false},
		{"p", "   ", false},
		{"p", "This sentence is clearly longer than twenty characters.", false},
		{"li", "nineteen characters", true},
		{"li", "twenty characters!!!", false},
	}
	for _, tt := range tests {
		if got := IsHeader(tt.tag, tt.text); got != tt.want {
			t.Errorf("IsHeader(%q, %q) = %v, want %v", tt.tag, tt.text, got, tt.want)
		}
	}
}
