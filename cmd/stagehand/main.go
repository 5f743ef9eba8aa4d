// stagehand applies chains of external transformation tools (codemods,
// ESLint autofix, putout) to a source tree via on-disk staging areas and
// reconciles tool diagnostics back onto the original files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stagehand/internal/logging"
)

var (
	verbose      bool
	logDir       string
	workDir      string
	toolkitCache string
	reportDB     string
)

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "stagehand - staged codemod chains with diagnostic reconciliation",
	Long: `stagehand runs recipes: ordered chains of external transformation tools
applied to a tree of source files.

Each pass stages the tree on disk exactly once, runs one tool against it,
detects which files the tool touched, and feeds the result forward to the
next pass. Tools that emit structured diagnostics get their line/column
findings mapped back onto the original text as annotated segments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logDir, verbose); err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "also write logs to this directory")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", defaultWorkDir(), "root for per-run staging directories")
	rootCmd.PersistentFlags().StringVar(&toolkitCache, "toolkit-cache", defaultToolkitCache(), "cache for extracted tool distributions")
	rootCmd.PersistentFlags().StringVar(&reportDB, "report-db", "", "SQLite database for diagnostic rows (empty disables)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(extractCmd)
}

func defaultWorkDir() string {
	return filepath.Join(os.TempDir(), "stagehand")
}

func defaultToolkitCache() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "stagehand", "toolkits")
	}
	return filepath.Join(os.TempDir(), "stagehand", "toolkits")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}
