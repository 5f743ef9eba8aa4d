package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stagehand/internal/chain"
	"stagehand/internal/config"
	"stagehand/internal/report"
	"stagehand/internal/tools"
)

var (
	writeBack  bool
	keepStages bool
	jobs       int
)

// skipDirs are directory names never staged from a target tree.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".stagehand":   true,
}

var runCmd = &cobra.Command{
	Use:   "run <recipe.yaml> <target-dir>...",
	Short: "Run a recipe's tool chain against one or more target trees",
	Long: `Runs every step of the recipe, in order, against each target tree.
Targets are independent runs with isolated staging roots and may execute
concurrently (--jobs). With --write, changed files are written back to the
target; otherwise the run is a dry run that only reports.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRecipe,
}

func init() {
	runCmd.Flags().BoolVarP(&writeBack, "write", "w", false, "write changed files back to the target tree")
	runCmd.Flags().BoolVar(&keepStages, "keep-stages", false, "keep per-run staging directories for inspection")
	runCmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "targets processed concurrently")
}

func runRecipe(cmd *cobra.Command, args []string) error {
	recipe, err := config.Load(args[0])
	if err != nil {
		return err
	}

	var sink *report.Sink
	if reportDB != "" {
		sink, err = report.Open(reportDB)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	coordinator := &chain.Coordinator{
		Recipe:       recipe,
		Registry:     tools.Default(),
		ToolkitCache: toolkitCache,
		Sink:         sink,
	}

	targets := args[1:]
	results := make([]*chain.RunResult, len(targets))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, target := range targets {
		g.Go(func() error {
			result, err := runTarget(coordinator, target)
			if err != nil {
				return fmt.Errorf("%s: %w", target, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, result := range results {
		printSummary(cmd.OutOrStdout(), targets[i], result)
	}
	return nil
}

func runTarget(coordinator *chain.Coordinator, target string) (*chain.RunResult, error) {
	sources, err := loadTree(target)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no source files under %s", target)
	}

	rc, err := chain.NewRunContext(workDir)
	if err != nil {
		return nil, err
	}
	if !keepStages {
		defer rc.Cleanup()
	}

	result, err := coordinator.Run(rc, sources)
	if err != nil {
		return nil, err
	}
	if writeBack {
		if err := applyResult(target, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// loadTree reads the target tree into memory as the original representation
// the chain reconciles against.
func loadTree(target string) ([]chain.SourceFile, error) {
	var sources []chain.SourceFile
	err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if skipDirs[name] || (strings.HasPrefix(name, ".") && path != target) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(target, path)
		if relErr != nil {
			return relErr
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		sources = append(sources, chain.SourceFile{
			Path:    filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load target tree: %w", err)
	}
	return sources, nil
}

// applyResult writes the chain's outcome back onto the target tree.
func applyResult(target string, result *chain.RunResult) error {
	for _, f := range result.Files {
		abs := filepath.Join(target, filepath.FromSlash(f.Path))
		switch {
		case f.Deleted:
			if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("apply delete %s: %w", f.Path, err)
			}
		case f.Changed:
			if err := os.WriteFile(abs, []byte(f.Content), 0o644); err != nil {
				return fmt.Errorf("apply %s: %w", f.Path, err)
			}
		}
	}
	for _, g := range result.Generated {
		abs := filepath.Join(target, filepath.FromSlash(g.Path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return fmt.Errorf("apply generated %s: %w", g.Path, err)
		}
		if err := os.WriteFile(abs, g.Content, 0o644); err != nil {
			return fmt.Errorf("apply generated %s: %w", g.Path, err)
		}
	}
	return nil
}
