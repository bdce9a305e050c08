package chapter

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff is a line diff between two versions of a chapter's text.
type Diff struct {
	Patch     string `json:"patch"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// TextDiff diffs before and after line by line. Equal texts give a zero Diff.
func TextDiff(before, after string) Diff {
	if before == after {
		return Diff{}
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var d Diff
	for _, part := range diffs {
		switch part.Type {
		case diffmatchpatch.DiffInsert:
			d.Additions += countLines(part.Text)
		case diffmatchpatch.DiffDelete:
			d.Deletions += countLines(part.Text)
		}
	}
	d.Patch = dmp.PatchToText(dmp.PatchMake(before, diffs))
	return d
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	return lines
}
