// Package token splits text into comparison units shared by the locator and the diff engine.
package token

import (
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind string

// Token kinds.
const (
	Whitespace Kind = "whitespace"
	Citation   Kind = "citation"
	Word       Kind = "word"
	CJK        Kind = "cjk"
	Other      Kind = "other"
)

// Token is an atomic comparison unit.
type Token struct {
	Kind Kind
	Text string
}

// IsSpace reports whether the token is a whitespace run.
func (t Token) IsSpace() bool { return t.Kind == Whitespace }

// Tokenize splits text left to right, longest match first:
// whitespace runs, [n] citation markers, Latin/digit runs,
// single CJK characters, then any other single character.
// Concatenating the token texts yields the input exactly.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text)/3+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		var n int
		var kind Kind
		switch {
		case unicode.IsSpace(r):
			n, kind = scan(text[i:], unicode.IsSpace), Whitespace
		case r == '[':
			if n = citationLen(text[i:]); n > 0 {
				kind = Citation
			} else {
				n, kind = size, Other
			}
		case isWordRune(r):
			n, kind = scan(text[i:], isWordRune), Word
		case IsCJK(r):
			n, kind = size, CJK
		default:
			n, kind = size, Other
		}
		tokens = append(tokens, Token{Kind: kind, Text: text[i : i+n]})
		i += n
	}
	return tokens
}

// IsCJK reports whether r belongs to the Han, Hiragana, Katakana or Hangul scripts.
func IsCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

func isWordRune(r rune) bool {
	return ('0' <= r && r <= '9') || (unicode.IsLetter(r) && unicode.Is(unicode.Latin, r))
}

// scan returns the byte length of the longest prefix whose runes satisfy fn.
func scan(s string, fn func(rune) bool) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !fn(r) {
			break
		}
		n += size
	}
	return n
}

// citationLen returns the length of a leading [digits] marker, or 0.
func citationLen(s string) int {
	digits := scan(s[1:], func(r rune) bool { return '0' <= r && r <= '9' })
	if digits == 0 || 1+digits >= len(s) || s[1+digits] != ']' {
		return 0
	}
	return digits + 2
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text)
	}
	buf := make([]byte, 0, n)
	for _, t := range tokens {
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

// AllSpace reports whether every token is whitespace. An empty run counts as whitespace.
func AllSpace(tokens []Token) bool {
	for _, t := range tokens {
		if !t.IsSpace() {
			return false
		}
	}
	return true
}
