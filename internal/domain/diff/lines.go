package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line is a single line of a line-level preview.
type Line struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// Line types.
const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// MaxPreviewLines bounds the combined line count a preview is computed for.
const MaxPreviewLines = 5000

// Lines returns a line-level preview of old vs new.
// The second result is true when the input was too large and no preview was built.
func Lines(before, after string) ([]Line, bool) {
	if lineCount(before)+lineCount(after) > MaxPreviewLines {
		return nil, true
	}
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return lines, false
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
