// Package diff computes token-level differences between two versions of a region.
package diff

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/kailas-cloud/revisor/internal/domain/token"
)

// OpKind tags a diff run.
type OpKind string

// Op kinds.
const (
	Same     OpKind = "same"
	Deleted  OpKind = "deleted"
	Inserted OpKind = "inserted"
)

// CSS classes carried by rendered change spans.
const (
	ClassDeleted  = "diff-del"
	ClassInserted = "diff-add"
)

// Op is a run of tokens sharing one kind.
type Op struct {
	Kind   OpKind
	Tokens []token.Token
}

// Text returns the run's literal text.
func (o Op) Text() string { return token.Join(o.Tokens) }

// IsSpace reports whether the run is whitespace only.
func (o Op) IsSpace() bool { return token.AllSpace(o.Tokens) }

// Result is an ordered sequence of coalesced runs.
type Result struct {
	Ops []Op
}

// Compute aligns old and new text via a token LCS.
// Matching tokens are kept, otherwise the branch keeping more matches wins,
// with deletion preferred over insertion on ties.
func Compute(oldText, newText string) Result {
	a := token.Tokenize(oldText)
	b := token.Tokenize(newText)
	n, m := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int32, n+1)
	for i := range lcs {
		lcs[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i].Text == b[j].Text {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var r Result
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i].Text == b[j].Text:
			r.push(Same, a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			r.push(Deleted, a[i])
			i++
		default:
			r.push(Inserted, b[j])
			j++
		}
	}
	for ; i < n; i++ {
		r.push(Deleted, a[i])
	}
	for ; j < m; j++ {
		r.push(Inserted, b[j])
	}
	return r
}

// push appends a token, extending the last run when kinds match.
func (r *Result) push(kind OpKind, t token.Token) {
	if last := len(r.Ops) - 1; last >= 0 && r.Ops[last].Kind == kind {
		r.Ops[last].Tokens = append(r.Ops[last].Tokens, t)
		return
	}
	r.Ops = append(r.Ops, Op{Kind: kind, Tokens: []token.Token{t}})
}

// Old reconstructs the old text from same and deleted runs.
func (r Result) Old() string { return r.join(Deleted) }

// New reconstructs the new text from same and inserted runs.
func (r Result) New() string { return r.join(Inserted) }

func (r Result) join(side OpKind) string {
	var b strings.Builder
	for _, op := range r.Ops {
		if op.Kind == Same || op.Kind == side {
			b.WriteString(op.Text())
		}
	}
	return b.String()
}

// HasChange reports whether any non-whitespace run was deleted or inserted.
func (r Result) HasChange() bool {
	for _, op := range r.Ops {
		if op.Kind != Same && !op.IsSpace() {
			return true
		}
	}
	return false
}

// HTML renders the diff as escaped text with <del>/<ins> change spans.
// Whitespace-only runs are never marked: inserted spacing is written plain,
// deleted spacing is dropped, so stripping <del> and unwrapping <ins>
// always yields the new text.
func (r Result) HTML() string {
	var b strings.Builder
	for _, op := range r.Ops {
		text := html.EscapeString(op.Text())
		switch {
		case op.Kind == Same:
			b.WriteString(text)
		case op.IsSpace():
			if op.Kind == Inserted {
				b.WriteString(text)
			}
		case op.Kind == Deleted:
			b.WriteString(`<del class="` + ClassDeleted + `">` + text + `</del>`)
		default:
			b.WriteString(`<ins class="` + ClassInserted + `">` + text + `</ins>`)
		}
	}
	return b.String()
}

// Stats counts changed tokens per side, whitespace excluded.
func (r Result) Stats() (deleted, inserted int) {
	for _, op := range r.Ops {
		for _, t := range op.Tokens {
			if t.IsSpace() {
				continue
			}
			switch op.Kind {
			case Deleted:
				deleted++
			case Inserted:
				inserted++
			}
		}
	}
	return deleted, inserted
}
