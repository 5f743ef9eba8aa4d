// Package diagnostics models the structured reports emitted by external
// analysis tools and reconciles their line/column positions back onto the
// original text as an ordered, lossless sequence of annotated segments.
package diagnostics

import "fmt"

// Severity mirrors the numeric severity used by tool reports.
type Severity int

const (
	SeverityWarning Severity = 1
	SeverityError   Severity = 2
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// Diagnostic is one reported issue. Line and Column are 1-based; EndLine
// and EndColumn are zero when the tool reported no end position.
type Diagnostic struct {
	RuleID    string   `json:"ruleId"`
	Severity  Severity `json:"severity"`
	Fatal     bool     `json:"fatal,omitempty"`
	Message   string   `json:"message"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine,omitempty"`
	EndColumn int      `json:"endColumn,omitempty"`
}

// HasEnd reports whether the tool declared an end position.
func (d Diagnostic) HasEnd() bool { return d.EndLine > 0 }

// Detail renders the human-readable annotation for a diagnostic, folding in
// the rule's description when the report carried metadata for it.
func (d Diagnostic) Detail(rules map[string]RuleMeta) string {
	detail := "Rule: " + d.RuleID
	if meta, ok := rules[d.RuleID]; ok && meta.Docs.Description != "" {
		detail = meta.Docs.Description + "\n\nRule: " + d.RuleID
	}
	return fmt.Sprintf("%s\n\n%s, Severity: %s", d.Message, detail, d.Severity)
}

// Segment is a contiguous slice of a file's original text. Concatenating a
// file's segments in order reproduces the original content exactly; the
// attached diagnostics are the ones starting at the segment's first byte.
type Segment struct {
	Text        string
	Diagnostics []Diagnostic
}
