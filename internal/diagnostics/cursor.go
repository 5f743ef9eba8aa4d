package diagnostics

// Cursor is a scanning position within one file's text. Line and Column are
// 1-based, Offset is the 0-based byte offset. A cursor only ever moves
// forward during reconciliation.
type Cursor struct {
	Line   int
	Column int
	Offset int
}

// NewCursor returns a cursor at the start of the text.
func NewCursor() Cursor {
	return Cursor{Line: 1, Column: 1, Offset: 0}
}

// ScanTo advances through text to the given 1-based position, counting
// newlines as it goes: a '\n' advances the line, resets the column to 1 and
// still consumes one offset unit. Positions past end-of-text clamp there;
// positions at or before the cursor return the cursor unchanged.
func (c Cursor) ScanTo(text string, line, column int) Cursor {
	if line == c.Line && column == c.Column {
		return c
	}
	cur := c
	for cur.Line < line || (cur.Line == line && cur.Column < column) {
		if cur.Offset >= len(text) {
			break
		}
		if text[cur.Offset] == '\n' {
			cur.Line++
			cur.Column = 1
		} else {
			cur.Column++
		}
		cur.Offset++
	}
	return cur
}
