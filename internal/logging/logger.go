// Package logging provides categorized logging for stagehand.
// Each subsystem logs under its own category so a failing chain run can be
// traced without wading through unrelated output. Logging is a no-op until
// Initialize is called; in quiet mode only warnings and errors are emitted.
package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryChain     Category = "chain"     // Pass sequencing, run context
	CategoryStaging   Category = "staging"   // Staging area writes/copies
	CategoryExec      Category = "exec"      // External process execution
	CategoryDiag      Category = "diag"      // Diagnostics parsing and reconciliation
	CategoryResources Category = "resources" // Toolkit extraction, entry-point repair
	CategoryReport    Category = "report"    // Diagnostic row sink
	CategoryConfig    Category = "config"    // Recipe loading and validation
)

var (
	mu      sync.RWMutex
	root    *zap.Logger
	sugared = make(map[Category]*zap.SugaredLogger)
)

// Initialize sets up the process-wide logger. When debug is true, logs go to
// stderr at debug level with a console encoder; otherwise a production JSON
// logger is used. If logDir is non-empty, output is additionally written to
// a file inside it.
func Initialize(logDir string, debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return err
		}
		cfg.OutputPaths = append(cfg.OutputPaths, filepath.Join(logDir, "stagehand.log"))
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	root = logger
	sugared = make(map[Category]*zap.SugaredLogger)
	return nil
}

// Root returns the process-wide logger, or a no-op logger before Initialize.
func Root() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if root == nil {
		return zap.NewNop()
	}
	return root
}

// Get returns the sugared logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := sugared[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := sugared[category]; ok {
		return l
	}
	base := root
	if base == nil {
		base = zap.NewNop()
	}
	l := base.Named(string(category)).Sugar()
	sugared[category] = l
	return l
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if root != nil {
		_ = root.Sync()
	}
}

// Per-category convenience helpers, matching the call sites' read rhythm:
// logging.Exec("starting %s", bin) rather than logging.Get(...).Infof(...).

func Chain(format string, args ...interface{})     { Get(CategoryChain).Infof(format, args...) }
func Staging(format string, args ...interface{})   { Get(CategoryStaging).Infof(format, args...) }
func Exec(format string, args ...interface{})      { Get(CategoryExec).Infof(format, args...) }
func Diag(format string, args ...interface{})      { Get(CategoryDiag).Infof(format, args...) }
func Resources(format string, args ...interface{}) { Get(CategoryResources).Infof(format, args...) }

func ChainDebug(format string, args ...interface{})   { Get(CategoryChain).Debugf(format, args...) }
func StagingDebug(format string, args ...interface{}) { Get(CategoryStaging).Debugf(format, args...) }
func ExecDebug(format string, args ...interface{})    { Get(CategoryExec).Debugf(format, args...) }
func DiagDebug(format string, args ...interface{})    { Get(CategoryDiag).Debugf(format, args...) }

func ChainWarn(format string, args ...interface{})     { Get(CategoryChain).Warnf(format, args...) }
func ExecWarn(format string, args ...interface{})      { Get(CategoryExec).Warnf(format, args...) }
func ResourcesWarn(format string, args ...interface{}) { Get(CategoryResources).Warnf(format, args...) }
