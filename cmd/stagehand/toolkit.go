package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stagehand/internal/resources"
	"stagehand/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tool builders",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tools.Default().Names(), "\n"))
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <toolkit>",
	Short: "Extract a tool distribution into the cache ahead of time",
	Long: `Extracts the given distribution (a directory or .zip archive) into the
toolkit cache and repairs its executable entry points, so the first recipe
run does not pay the extraction cost. Extraction is idempotent: an already
published toolkit is reused as-is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resources.Stage(args[0], toolkitCache)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), root)
		return nil
	},
}
