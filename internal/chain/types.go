// Package chain sequences transformation tool passes within one logical
// run. The first pass materializes the original in-memory tree into a
// staging area; every later pass starts from a physical copy of the
// previous pass's output, so passes can never observe each other's
// in-flight mutations. After the terminal pass the staged state is
// reconciled back onto the original tree as per-file results.
package chain

import (
	"stagehand/internal/diagnostics"
)

// SourceFile is one file of the original in-memory tree.
type SourceFile struct {
	// Path is the original relative path, slash-separated.
	Path string

	// Content is the original text.
	Content []byte

	// Charset is the file's declared encoding (IANA name); empty means
	// UTF-8.
	Charset string
}

// FileResult is the reconciled outcome for one original file.
type FileResult struct {
	Path string

	// Changed is set when any pass's tool rewrote (or deleted) the file.
	Changed bool

	// Deleted is set when the file no longer exists in the terminal stage.
	Deleted bool

	// Content is the file's text after the terminal pass, decoded with the
	// file's charset. Empty for deleted files.
	Content string

	// Segments is the annotated lossless partition of Content, present when
	// a tool reported diagnostics against the file.
	Segments []diagnostics.Segment

	// Diagnostics are the raw reported messages, in report order.
	Diagnostics []diagnostics.Diagnostic
}

// GeneratedFile is a file a tool created that the original tree never had.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// RunResult is the outcome of one chain run.
type RunResult struct {
	RunID     string
	Recipe    string
	Files     []FileResult
	Generated []GeneratedFile
}

// ChangedCount returns how many original files the chain modified.
func (r *RunResult) ChangedCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// AnnotatedCount returns how many files carry diagnostics.
func (r *RunResult) AnnotatedCount() int {
	n := 0
	for _, f := range r.Files {
		if len(f.Diagnostics) > 0 {
			n++
		}
	}
	return n
}
