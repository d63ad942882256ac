package locate

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/revisor/internal/domain/token"
)

// Score boosts, added to the cosine before thresholding.
const (
	exactBoost   = 1.0
	partialBoost = 0.5
	// partialMinRunes is the keyword length above which the half-match boost applies.
	partialMinRunes = 4
)

// TermVector maps a term to its occurrence count.
type TermVector map[string]int

// Terms builds the term vector of text. Whitespace, punctuation and symbols
// are not terms; word tokens are case-folded.
func Terms(text string) TermVector {
	fold := cases.Fold()
	tv := make(TermVector)
	for _, t := range token.Tokenize(text) {
		switch t.Kind {
		case token.Whitespace:
			continue
		case token.Other:
			r, _ := utf8.DecodeRuneInString(t.Text)
			if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsControl(r) {
				continue
			}
			tv[t.Text]++
		case token.Word:
			tv[fold.String(t.Text)]++
		default:
			tv[t.Text]++
		}
	}
	return tv
}

func (tv TermVector) norm() float64 {
	var sum float64
	for _, c := range tv {
		sum += float64(c * c)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b, 0 if either is empty.
func Cosine(a, b TermVector) float64 {
	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, ca := range a {
		dot += float64(ca * b[term])
	}
	return dot / (na * nb)
}

// scorer holds the per-query state reused across candidates.
type scorer struct {
	query    TermVector
	lowerKey string
	halfKey  string
}

func newScorer(keywords string) scorer {
	kw := strings.TrimSpace(keywords)
	s := scorer{query: Terms(kw), lowerKey: strings.ToLower(kw)}
	if runes := []rune(kw); len(runes) > partialMinRunes {
		s.halfKey = strings.ToLower(string(runes[:len(runes)/2]))
	}
	return s
}

func (s scorer) score(text string) float64 {
	sc := Cosine(s.query, Terms(text))
	lower := strings.ToLower(text)
	switch {
	case s.lowerKey != "" && strings.Contains(lower, s.lowerKey):
		sc += exactBoost
	case s.halfKey != "" && strings.Contains(lower, s.halfKey):
		sc += partialBoost
	}
	return sc
}

// Score rates how well text matches keywords.
func Score(keywords, text string) float64 {
	return newScorer(keywords).score(text)
}
