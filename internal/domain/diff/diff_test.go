package diff

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestCompute_ReplacedWord(t *testing.T) {
	r := Compute("The cat sat.", "The dog sat.")

	want := []struct {
		kind OpKind
		text string
	}{
		{Same, "The "},
		{Deleted, "cat"},
		{Inserted, "dog"},
		{Same, " sat."},
	}
	if len(r.Ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %+v", len(want), len(r.Ops), r.Ops)
	}
	for i, w := range want {
		if r.Ops[i].Kind != w.kind || r.Ops[i].Text() != w.text {
			t.Errorf("op %d: expected %s(%q), got %s(%q)", i, w.kind, w.text, r.Ops[i].Kind, r.Ops[i].Text())
		}
	}
	if !r.HasChange() {
		t.Error("expected HasChange")
	}
}

func TestCompute_RoundTrip(t *testing.T) {
	cases := []struct{ old, new string }{
		{"", ""},
		{"", "added text"},
		{"removed text", ""},
		{"The cat sat.", "The dog sat."},
		{"a b c", "c b a"},
		{"see [1] and [2]", "see [2]"},
		{"我喜欢猫", "我喜欢狗和猫"},
		{"line one\nline two", "line one\n\nline 2"},
		{"  leading", "leading  "},
		{"Ünïcode wörds", "unicode words"},
	}
	for _, tc := range cases {
		r := Compute(tc.old, tc.new)
		if got := r.Old(); got != tc.old {
			t.Errorf("Compute(%q, %q).Old() = %q", tc.old, tc.new, got)
		}
		if got := r.New(); got != tc.new {
			t.Errorf("Compute(%q, %q).New() = %q", tc.old, tc.new, got)
		}
	}
}

func TestCompute_Identical(t *testing.T) {
	r := Compute("same text", "same text")
	if r.HasChange() {
		t.Error("identical texts should not change")
	}
	if len(r.Ops) != 1 || r.Ops[0].Kind != Same {
		t.Errorf("expected a single same run, got %+v", r.Ops)
	}
}

func TestCompute_DeletionBeforeInsertion(t *testing.T) {
	r := Compute("a", "b")
	if len(r.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %+v", r.Ops)
	}
	if r.Ops[0].Kind != Deleted || r.Ops[1].Kind != Inserted {
		t.Errorf("expected deleted then inserted, got %s then %s", r.Ops[0].Kind, r.Ops[1].Kind)
	}
}

func TestCompute_CJKPerCharacter(t *testing.T) {
	r := Compute("我喜欢猫", "我喜欢狗")
	var deleted, inserted string
	for _, op := range r.Ops {
		switch op.Kind {
		case Deleted:
			deleted += op.Text()
		case Inserted:
			inserted += op.Text()
		}
	}
	if deleted != "猫" || inserted != "狗" {
		t.Errorf("expected 猫 -> 狗, got %q -> %q", deleted, inserted)
	}
}

func TestHasChange_WhitespaceOnly(t *testing.T) {
	r := Compute("one two", "one  \n two")
	if r.HasChange() {
		t.Error("whitespace-only difference should not count as a change")
	}
}

func TestHTML(t *testing.T) {
	got := Compute("The cat sat.", "The dog sat.").HTML()
	want := `The <del class="diff-del">cat</del><ins class="diff-add">dog</ins> sat.`
	if got != want {
		t.Errorf("HTML() =\n%s\nwant\n%s", got, want)
	}
}

func TestHTML_EscapesText(t *testing.T) {
	got := Compute("a < b", "a < c & d").HTML()
	if strings.Contains(got, "< b") || !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("expected escaped output, got %s", got)
	}
}

func TestHTML_WhitespaceRunsUnmarked(t *testing.T) {
	got := Compute("one two", "one\n\ntwo").HTML()
	if strings.Contains(got, "<del") || strings.Contains(got, "<ins") {
		t.Errorf("whitespace runs must not be marked, got %q", got)
	}
	if got != "one\n\ntwo" {
		t.Errorf("expected the new spacing rendered plain, got %q", got)
	}
}

func TestStats(t *testing.T) {
	del, ins := Compute("The cat sat.", "The big dog sat.").Stats()
	if del != 1 || ins != 2 {
		t.Errorf("expected 1 deleted / 2 inserted, got %d / %d", del, ins)
	}
}

func TestPairTexts(t *testing.T) {
	pairs := PairTexts([]string{"a", "b", "c"}, []string{"a", "B"})
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	if pairs[0].Result.HasChange() {
		t.Error("pair 0 should be unchanged")
	}
	if !pairs[1].Result.HasChange() {
		t.Error("pair 1 should change")
	}
	if !pairs[2].PureDeletion() || pairs[2].Result.Old() != "c" {
		t.Errorf("pair 2 should be a pure deletion of c, got %+v", pairs[2])
	}
	if !AnyChange(pairs) {
		t.Error("expected AnyChange")
	}

	pairs = PairTexts([]string{"a"}, []string{"a", "z"})
	if len(pairs) != 2 || !pairs[1].PureInsertion() || pairs[1].Result.New() != "z" {
		t.Errorf("expected trailing pure insertion, got %+v", pairs)
	}
}

func TestLines(t *testing.T) {
	lines, truncated := Lines("a\nb\nc", "a\nB\nc")
	if truncated {
		t.Fatal("unexpected truncation")
	}
	var added, removed int
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			added++
			if l.Text != "B" {
				t.Errorf("unexpected added line %q", l.Text)
			}
		case LineRemoved:
			removed++
			if l.Text != "b" {
				t.Errorf("unexpected removed line %q", l.Text)
			}
		}
	}
	if added != 1 || removed != 1 {
		t.Errorf("expected 1 added / 1 removed, got %d / %d", added, removed)
	}
}

func TestLines_TooLarge(t *testing.T) {
	big := strings.Repeat("x\n", MaxPreviewLines)
	if _, truncated := Lines(big, big); !truncated {
		t.Error("expected truncation for oversized input")
	}
}

func BenchmarkCompute(b *testing.B) {
	old := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	nw := strings.ReplaceAll(old, "lazy", "sleepy")
	for b.Loop() {
		Compute(old, nw)
	}
}

func TestNodes_RenderMatchesHTML(t *testing.T) {
	for _, tc := range []struct{ old, new string }{
		{"The cat sat.", "The dog sat."},
		{"a < b", "a < c & d"},
		{"one two", "one\n\ntwo"},
	} {
		r := Compute(tc.old, tc.new)
		var b strings.Builder
		for _, n := range r.Nodes() {
			if err := html.Render(&b, n); err != nil {
				t.Fatalf("Render: %v", err)
			}
		}
		if got, want := b.String(), r.HTML(); got != want {
			t.Errorf("Nodes() rendered %q, HTML() %q", got, want)
		}
	}
}

func FuzzCompute(f *testing.F) {
	seeds := [][2]string{
		{"", ""},
		{"The cat sat.", "The dog sat."},
		{"\xff\xfe bad", "\xfe bad \xc3"},
		{"我喜欢猫", "我喜欢狗和猫"},
		{"see [", "see [12"},
		{"[12] cited", "[1][2] cited"},
		{"a \t b\n\nc", "a b\r\nc  "},
	}
	for _, s := range seeds {
		f.Add(s[0], s[1])
	}
	f.Fuzz(func(t *testing.T, oldText, newText string) {
		// The LCS table is quadratic in token count.
		if len(oldText) > 4096 || len(newText) > 4096 {
			t.Skip()
		}
		r := Compute(oldText, newText)
		if got := r.Old(); got != oldText {
			t.Fatalf("Old() = %q, want %q", got, oldText)
		}
		if got := r.New(); got != newText {
			t.Fatalf("New() = %q, want %q", got, newText)
		}
		if oldText == newText && r.HasChange() {
			t.Fatalf("identical inputs reported a change: %q", oldText)
		}
	})
}
