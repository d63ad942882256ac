package diff

// Pair is the diff of the Nth old text against the Nth new text.
// Index is -1 on the side that has no counterpart.
type Pair struct {
	OldIndex int
	NewIndex int
	Result   Result
}

// PureInsertion reports whether the pair has no old counterpart.
func (p Pair) PureInsertion() bool { return p.OldIndex < 0 }

// PureDeletion reports whether the pair has no new counterpart.
func (p Pair) PureDeletion() bool { return p.NewIndex < 0 }

// PairTexts diffs old[i] against new[i] positionally. Trailing old texts
// become pure deletions, trailing new texts pure insertions.
// Reordered or merged sections produce noisy pairs; nothing attempts to realign them.
func PairTexts(oldTexts, newTexts []string) []Pair {
	n := max(len(oldTexts), len(newTexts))
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		p := Pair{OldIndex: i, NewIndex: i}
		var o, nw string
		if i < len(oldTexts) {
			o = oldTexts[i]
		} else {
			p.OldIndex = -1
		}
		if i < len(newTexts) {
			nw = newTexts[i]
		} else {
			p.NewIndex = -1
		}
		p.Result = Compute(o, nw)
		pairs = append(pairs, p)
	}
	return pairs
}

// AnyChange reports whether any pair has a non-whitespace change.
func AnyChange(pairs []Pair) bool {
	for _, p := range pairs {
		if p.Result.HasChange() {
			return true
		}
	}
	return false
}
