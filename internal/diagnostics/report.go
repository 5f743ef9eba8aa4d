package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ParseError wraps a malformed report. The raw decoder error is preserved;
// no attempt is made to salvage a partial diagnostic set.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse diagnostics report %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RuleMeta is the per-rule metadata a report may carry.
type RuleMeta struct {
	Docs struct {
		Description string `json:"description"`
	} `json:"docs"`
}

// FileResult holds one file's diagnostics as reported by the tool. FilePath
// is the path the tool saw, i.e. resolved against the staging directory.
type FileResult struct {
	FilePath     string       `json:"filePath"`
	ErrorCount   int          `json:"errorCount"`
	WarningCount int          `json:"warningCount"`
	Messages     []Diagnostic `json:"messages"`
}

// Report is the document shape emitted by the bundled tool drivers.
type Report struct {
	Results  []FileResult `json:"results"`
	Metadata struct {
		RulesMeta map[string]RuleMeta `json:"rulesMeta"`
	} `json:"metadata"`
}

// Flagged returns the results that carry at least one error or warning.
func (r *Report) Flagged() []FileResult {
	var flagged []FileResult
	for _, res := range r.Results {
		if res.ErrorCount > 0 || res.WarningCount > 0 {
			flagged = append(flagged, res)
		}
	}
	return flagged
}

// ParseReport decodes a report from r.
func ParseReport(r io.Reader, path string) (*Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &report, nil
}

// ParseReportFile decodes the report captured at path.
func ParseReportFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()
	return ParseReport(f, path)
}
