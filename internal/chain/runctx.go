package chain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"stagehand/internal/staging"
)

// RunContext is the cross-pass state for one logical chain run. It is
// explicit, never ambient: every pass receives the same context by
// reference, which keeps independent runs isolated and concurrently safe.
type RunContext struct {
	// RunID uniquely identifies this run in logs and the report sink.
	RunID string

	// workRoot holds this run's staging areas and scratch files.
	workRoot string

	// firstPassDone marks that initial extraction already happened; only
	// the first pass extracts the original tree.
	firstPassDone bool

	// previous is the most recent pass's staging area, the chain-forward
	// point for the next pass.
	previous *staging.Area

	// toolkitRoot caches the extracted tool distribution for the run.
	toolkitRoot string

	// extCounts tallies staged file extensions, driving the parser hint.
	extCounts map[string]int

	passIndex int
}

// NewRunContext creates the run's working root and scratch directory.
func NewRunContext(baseDir string) (*RunContext, error) {
	id := uuid.NewString()
	workRoot := filepath.Join(baseDir, "run-"+id)
	if err := os.MkdirAll(filepath.Join(workRoot, "scratch"), 0o755); err != nil {
		return nil, fmt.Errorf("create run working root: %w", err)
	}
	return &RunContext{
		RunID:     id,
		workRoot:  workRoot,
		extCounts: make(map[string]int),
	}, nil
}

// ScratchDir is where capture files and generated configs live.
func (rc *RunContext) ScratchDir() string {
	return filepath.Join(rc.workRoot, "scratch")
}

// WorkRoot returns the run's private working directory.
func (rc *RunContext) WorkRoot() string { return rc.workRoot }

// Cleanup removes the run's working root. Call after results are read.
func (rc *RunContext) Cleanup() error {
	return os.RemoveAll(rc.workRoot)
}

// nextStageDir hands out a fresh, never-reused staging directory path.
func (rc *RunContext) nextStageDir() string {
	rc.passIndex++
	return filepath.Join(rc.workRoot, fmt.Sprintf("stage-%02d", rc.passIndex))
}

// countExtension tallies one staged file's extension.
func (rc *RunContext) countExtension(path string) {
	name := filepath.Base(path)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		rc.extCounts[name[i+1:]]++
	}
}

// Parser returns the language-variant hint for the staged tree: tsx wins
// over ts, anything else falls back to babel.
func (rc *RunContext) Parser() string {
	if rc.extCounts["tsx"] > 0 {
		return "tsx"
	}
	if rc.extCounts["ts"] > 0 {
		return "ts"
	}
	return "babel"
}

// Extensions returns the tallied extensions, sorted, mostly for logs.
func (rc *RunContext) Extensions() []string {
	exts := make([]string, 0, len(rc.extCounts))
	for ext := range rc.extCounts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
