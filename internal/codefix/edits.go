package codefix

import (
	"fmt"
	"sort"
)

// Edit is a single text replacement: the bytes in [Start, End) are replaced
// with Text. A pure insertion has Start == End.
type Edit struct {
	Start int
	End   int
	Text  string
}

// ApplyEdits splices a set of non-overlapping edits into source and returns
// the new content. Overlapping edits or edits outside the source are rejected
// so a bad plan never corrupts a file.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	for i, edit := range sorted {
		if edit.Start < 0 || edit.End < edit.Start || edit.End > len(source) {
			return nil, fmt.Errorf("edit [%d, %d) out of range", edit.Start, edit.End)
		}
		if i > 0 && edit.Start < sorted[i-1].End {
			return nil, fmt.Errorf("overlapping edits at byte %d", edit.Start)
		}
	}

	// Splice back to front so earlier offsets stay valid.
	result := make([]byte, len(source))
	copy(result, source)
	for i := len(sorted) - 1; i >= 0; i-- {
		edit := sorted[i]
		result = append(result[:edit.Start], append([]byte(edit.Text), result[edit.End:]...)...)
	}
	return result, nil
}
