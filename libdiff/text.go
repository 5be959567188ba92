package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// TextDiff renders the difference between two texts as a sequence of
// "-" and "+" spans, line based when both texts span lines.
func TextDiff(from, to string) string {
	dmp := diffpatch.New()
	multiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	var diffs []diffpatch.Diff
	if multiLine {
		a, b, lines := dmp.DiffLinesToRunes(from, to)
		diffs = dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)
	} else {
		diffs = dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))
	}
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
