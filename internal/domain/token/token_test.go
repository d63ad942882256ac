package token

import (
	"strings"
	"testing"
)

func TestTokenize_Kinds(t *testing.T) {
	got := Tokenize("See [12] 世界 ok!")
	want := []Token{
		{Word, "See"},
		{Whitespace, " "},
		{Citation, "[12]"},
		{Whitespace, " "},
		{CJK, "世"},
		{CJK, "界"},
		{Whitespace, " "},
		{Word, "ok"},
		{Other, "!"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Hello world.",
		"  leading and trailing  ",
		"mixed 中文 and 日本語のテキスト with 한국어",
		"[1][2] [x] [ 3] [44",
		"tabs\tand\nnewlines\r\n",
		"Ünïcödé café naïve 42nd",
		"emoji 🙂 and symbols ©®™",
		"\xff\xfe invalid utf8",
	}
	for _, in := range inputs {
		if got := Join(Tokenize(in)); got != in {
			t.Errorf("round trip mismatch: %q -> %q", in, got)
		}
	}
}

func TestTokenize_CitationNeedsDigits(t *testing.T) {
	for _, in := range []string{"[]", "[a]", "[12", "[1 2]"} {
		for _, tok := range Tokenize(in) {
			if tok.Kind == Citation {
				t.Errorf("%q produced a citation token %q", in, tok.Text)
			}
		}
	}
}

func TestTokenize_CJKPerCharacter(t *testing.T) {
	got := Tokenize("ひらがなカタカナ")
	if len(got) != 8 {
		t.Fatalf("expected 8 tokens, got %d", len(got))
	}
	for _, tok := range got {
		if tok.Kind != CJK {
			t.Errorf("expected cjk, got %s for %q", tok.Kind, tok.Text)
		}
	}
}

func TestTokenize_WhitespaceRun(t *testing.T) {
	got := Tokenize("a \t\n b")
	if len(got) != 3 || got[1].Text != " \t\n " || !got[1].IsSpace() {
		t.Fatalf("unexpected tokens: %v", got)
	}
}

func TestTokenize_LatinAccentedWord(t *testing.T) {
	got := Tokenize("café2go")
	if len(got) != 1 || got[0].Kind != Word {
		t.Fatalf("expected a single word token, got %v", got)
	}
}

func TestAllSpace(t *testing.T) {
	if !AllSpace(Tokenize(" \n ")) {
		t.Error("expected whitespace-only run")
	}
	if AllSpace(Tokenize(" a ")) {
		t.Error("expected mixed run")
	}
	if !AllSpace(nil) {
		t.Error("empty run counts as whitespace")
	}
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("The quick brown fox [3] jumps 跳过 lazy dogs. ", 200)
	b.ResetTimer()
	for b.Loop() {
		_ = Tokenize(text)
	}
}

func FuzzTokenize(f *testing.F) {
	for _, seed := range []string{
		"",
		"Hello world.",
		"\xff\xfe invalid utf8 \xc3",
		"mixed 中文 and 日本語 with 한국어",
		"[", "[12", "[12]", "[1][2]x[",
		" \t\n\r\n   　",
		"word,word;  [3]中\t!",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		toks := Tokenize(in)
		if got := Join(toks); got != in {
			t.Fatalf("round trip mismatch: %q -> %q", in, got)
		}
		for i, tok := range toks {
			if tok.Text == "" {
				t.Fatalf("token %d is empty for input %q", i, in)
			}
		}
	})
}
