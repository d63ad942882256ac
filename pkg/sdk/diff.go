package revisor

import "github.com/kailas-cloud/revisor/internal/domain/diff"

// DiffHTML renders the word diff of two texts with <del>/<ins> change spans.
func DiffHTML(before, after string) string {
	return diff.Compute(before, after).HTML()
}

// DiffStats counts non-whitespace words deleted and inserted between two texts.
func DiffStats(before, after string) (deleted, inserted int) {
	return diff.Compute(before, after).Stats()
}
