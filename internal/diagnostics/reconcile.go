package diagnostics

import (
	"sort"

	"stagehand/internal/logging"
)

// Reconcile partitions content into an ordered sequence of segments, each
// carrying the diagnostics that start at its first byte. The walk keeps one
// open segment and a cursor; reaching the next diagnostic's start first
// closes out any text still inside the previous diagnostic's range, then the
// unannotated gap, so overlapping ranges never duplicate or drop a byte.
//
// Tool reports are expected in ascending (line, column) order; the list is
// re-sorted stably here in case a tool lies, which also keeps
// identical-start diagnostics attached to the same segment in report order.
func Reconcile(content string, diags []Diagnostic) []Segment {
	ordered := make([]Diagnostic, len(diags))
	copy(ordered, diags)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Line != ordered[j].Line {
			return ordered[i].Line < ordered[j].Line
		}
		return ordered[i].Column < ordered[j].Column
	})

	var segments []Segment
	cursor := NewCursor()
	var open []Diagnostic
	var previous *Diagnostic

	emit := func(end int) {
		segments = append(segments, Segment{
			Text:        content[cursor.Offset:end],
			Diagnostics: open,
		})
		open = nil
	}

	for i := range ordered {
		d := ordered[i]
		next := cursor.ScanTo(content, d.Line, d.Column)
		if next.Offset > cursor.Offset {
			if previous != nil {
				end := cursor.ScanTo(content, previous.EndLine, previous.EndColumn)
				if end.Offset < next.Offset {
					emit(end.Offset)
					cursor = end
				}
			}
			emit(next.Offset)
		}
		open = append(open, d)
		cursor = next
		if d.HasEnd() {
			previous = &ordered[i]
		} else {
			previous = nil
		}
	}

	if previous != nil {
		end := cursor.ScanTo(content, previous.EndLine, previous.EndColumn)
		if end.Offset < len(content) {
			emit(end.Offset)
			cursor = end
		}
	}
	emit(len(content))

	logging.DiagDebug("reconciled %d diagnostics into %d segments", len(diags), len(segments))
	return segments
}
