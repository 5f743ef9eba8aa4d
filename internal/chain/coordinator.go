package chain

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"stagehand/internal/config"
	"stagehand/internal/diagnostics"
	"stagehand/internal/logging"
	"stagehand/internal/report"
	"stagehand/internal/resources"
	"stagehand/internal/runner"
	"stagehand/internal/staging"
	"stagehand/internal/tools"
)

// Coordinator drives one recipe's passes over one source tree.
type Coordinator struct {
	Recipe   *config.Recipe
	Registry *tools.Registry

	// ToolkitCache is the shared directory extracted distributions are
	// published into. It may be reused across runs; published toolkits are
	// read-only after extraction.
	ToolkitCache string

	// Sink, when set, receives one row per reported diagnostic.
	Sink *report.Sink
}

// annotation remembers a report's findings for one file, together with the
// text the positions refer to. Segments are reconciled at report time
// because a later pass may rewrite the file again.
type annotation struct {
	content  string
	messages []diagnostics.Diagnostic
	segments []diagnostics.Segment
}

// Run executes every pass of the recipe in order and reconciles the
// terminal staging area against the original tree. Any error other than a
// tolerated exit aborts the remainder of the chain; partial pipelines are
// not resumed.
func (c *Coordinator) Run(rc *RunContext, sources []SourceFile) (*RunResult, error) {
	charsets := make(map[string]string, len(sources))
	for _, sf := range sources {
		charsets[sf.Path] = sf.Charset
	}

	changed := make(map[string]bool)
	annotations := make(map[string]annotation)

	for i, step := range c.Recipe.Steps {
		if err := c.runPass(rc, i, step, sources, charsets, changed, annotations); err != nil {
			return nil, fmt.Errorf("pass %d (%s): %w", i+1, step.Tool, err)
		}
	}

	return c.collect(rc, sources, changed, annotations)
}

func (c *Coordinator) runPass(rc *RunContext, index int, step config.Step, sources []SourceFile,
	charsets map[string]string, changed map[string]bool, annotations map[string]annotation) error {

	area, err := staging.Create(rc.nextStageDir())
	if err != nil {
		return err
	}

	if !rc.firstPassDone {
		logging.Chain("extracting %d files into first stage %s", len(sources), area.Dir())
		for _, sf := range sources {
			if err := area.Write(sf.Path, sf.Content); err != nil {
				return fmt.Errorf("extract original tree: %w", err)
			}
			rc.countExtension(sf.Path)
		}
		rc.firstPassDone = true
	} else {
		if err := area.CopyFrom(rc.previous); err != nil {
			return err
		}
	}

	invocations, err := c.buildInvocations(rc, step)
	if err != nil {
		return err
	}
	if len(invocations) == 0 {
		logging.ChainDebug("step %q resolved to no commands, pass skipped", step.Tool)
	}

	for _, inv := range invocations {
		if err := c.runInvocation(rc, step, inv, area, charsets, changed, annotations); err != nil {
			return err
		}
	}

	// This pass's area becomes the chain-forward point regardless of
	// whether any command ran.
	rc.previous = area
	logging.ChainDebug("pass %d complete, most recent stage is %s", index+1, area.Dir())
	return nil
}

func (c *Coordinator) buildInvocations(rc *RunContext, step config.Step) ([]tools.Invocation, error) {
	builder, err := c.Registry.Get(step.Tool)
	if err != nil {
		return nil, err
	}
	if rc.toolkitRoot == "" && c.Recipe.Toolkit != "" {
		cache := c.ToolkitCache
		if cache == "" {
			cache = filepath.Join(rc.WorkRoot(), "toolkit")
		}
		root, err := resources.Stage(c.Recipe.Toolkit, cache)
		if err != nil {
			return nil, err
		}
		rc.toolkitRoot = root
	}
	return builder.Build(step, tools.BuildEnv{
		ToolkitRoot: rc.toolkitRoot,
		NodeModules: filepath.Join(rc.toolkitRoot, "node_modules"),
		Parser:      rc.Parser(),
		ScratchDir:  rc.ScratchDir(),
	})
}

func (c *Coordinator) runInvocation(rc *RunContext, step config.Step, inv tools.Invocation,
	area *staging.Area, charsets map[string]string, changed map[string]bool,
	annotations map[string]annotation) error {

	env := map[string]string{
		"NODE_PATH": filepath.Join(rc.toolkitRoot, "node_modules"),
		"TERM":      "dumb",
	}
	for k, v := range inv.Env {
		env[k] = v
	}

	result, err := runner.Run(runner.Command{
		Program:    inv.Program,
		Args:       inv.Args,
		Dir:        area.Dir(),
		Env:        env,
		CaptureDir: rc.ScratchDir(),
		Timeout:    step.Timeout,
	})
	if err != nil {
		var exitErr *runner.ExitError
		if inv.IgnoreExitError && errors.As(err, &exitErr) {
			logging.ChainDebug("tolerated exit %d from %s", exitErr.ExitCode, inv.Program)
			return nil
		}
		return err
	}

	// Baselines were recorded before the command started and the command
	// has exited, so this comparison cannot race with the tool's writes.
	passChanged, err := area.Changed()
	if err != nil {
		return err
	}
	for _, rel := range passChanged {
		changed[rel] = true
	}

	if inv.EmitsReport {
		if err := c.processReport(rc, step, result.StdoutPath, area, charsets, annotations); err != nil {
			return err
		}
	}
	return nil
}

// processReport maps a diagnostics report back onto the staged files:
// every flagged file is re-read from this pass's area and partitioned into
// annotated segments against exactly the text the positions refer to.
func (c *Coordinator) processReport(rc *RunContext, step config.Step, reportPath string,
	area *staging.Area, charsets map[string]string, annotations map[string]annotation) error {

	rep, err := diagnostics.ParseReportFile(reportPath)
	if err != nil {
		return err
	}
	for _, fileResult := range rep.Flagged() {
		rel, err := filepath.Rel(area.Dir(), fileResult.FilePath)
		if err != nil || filepath.IsAbs(rel) {
			rel = filepath.Clean(fileResult.FilePath)
		}
		rel = filepath.ToSlash(rel)

		content, err := area.Read(rel, charsets[rel])
		if err != nil {
			return err
		}
		annotations[rel] = annotation{
			content:  content,
			messages: fileResult.Messages,
			segments: diagnostics.Reconcile(content, fileResult.Messages),
		}
		logging.Diag("%s: %d errors, %d warnings", rel, fileResult.ErrorCount, fileResult.WarningCount)

		if c.Sink != nil {
			for _, d := range fileResult.Messages {
				row := report.Row{
					RunID:      rc.RunID,
					Recipe:     c.Recipe.Name,
					Tool:       step.Tool,
					SourcePath: rel,
					RuleID:     d.RuleID,
					Severity:   d.Severity.String(),
					Fatal:      d.Fatal,
					Message:    d.Message,
					Line:       d.Line,
					Column:     d.Column,
				}
				if err := c.Sink.Insert(row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// collect reconciles the terminal staging area against the original tree.
func (c *Coordinator) collect(rc *RunContext, sources []SourceFile,
	changed map[string]bool, annotations map[string]annotation) (*RunResult, error) {

	final := rc.previous
	result := &RunResult{RunID: rc.RunID, Recipe: c.Recipe.Name}

	original := make(map[string]bool, len(sources))
	for _, sf := range sources {
		original[sf.Path] = true

		fr := FileResult{Path: sf.Path}
		if !final.Exists(sf.Path) {
			fr.Changed = true
			fr.Deleted = true
			result.Files = append(result.Files, fr)
			continue
		}
		ann, annotated := annotations[sf.Path]
		fr.Changed = changed[sf.Path]
		if fr.Changed || annotated {
			content, err := final.Read(sf.Path, sf.Charset)
			if err != nil {
				return nil, err
			}
			fr.Content = content
		}
		if annotated {
			fr.Diagnostics = ann.messages
			fr.Segments = ann.segments
		}
		result.Files = append(result.Files, fr)
	}

	generated, err := c.generatedFiles(final, original)
	if err != nil {
		return nil, err
	}
	result.Generated = generated

	logging.Chain("run %s: %d/%d files changed, %d annotated, %d generated",
		rc.RunID, result.ChangedCount(), len(result.Files), result.AnnotatedCount(), len(result.Generated))
	return result, nil
}

func (c *Coordinator) generatedFiles(final *staging.Area, original map[string]bool) ([]GeneratedFile, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, rel := range final.Tracked() {
		if !original[rel] && !seen[rel] && final.Exists(rel) {
			seen[rel] = true
			paths = append(paths, rel)
		}
	}
	untracked, err := final.Untracked()
	if err != nil {
		return nil, err
	}
	for _, rel := range untracked {
		if !original[rel] && !seen[rel] {
			seen[rel] = true
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)

	var generated []GeneratedFile
	for _, rel := range paths {
		content, err := final.ReadBytes(rel)
		if err != nil {
			continue
		}
		generated = append(generated, GeneratedFile{Path: rel, Content: content})
	}
	return generated, nil
}
