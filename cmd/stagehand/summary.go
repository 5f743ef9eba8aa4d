package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"stagehand/internal/chain"
	"stagehand/internal/diagnostics"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func printSummary(w io.Writer, target string, result *chain.RunResult) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%s, run %s)", target, result.Recipe, result.RunID)))
	fmt.Fprintf(w, "  %d files, %d changed, %d annotated, %d generated\n",
		len(result.Files), result.ChangedCount(), result.AnnotatedCount(), len(result.Generated))

	for _, f := range result.Files {
		switch {
		case f.Deleted:
			fmt.Fprintf(w, "  %s %s\n", deletedStyle.Render("deleted"), pathStyle.Render(f.Path))
		case f.Changed:
			fmt.Fprintf(w, "  %s %s\n", changedStyle.Render("changed"), pathStyle.Render(f.Path))
		}
		for _, d := range f.Diagnostics {
			fmt.Fprintf(w, "    %s %s\n", renderSeverity(d.Severity),
				fmt.Sprintf("%s:%d:%d %s (%s)", f.Path, d.Line, d.Column, d.Message, d.RuleID))
		}
	}
	for _, g := range result.Generated {
		fmt.Fprintf(w, "  %s %s\n", changedStyle.Render("generated"), pathStyle.Render(g.Path))
	}
	if result.ChangedCount() == 0 && result.AnnotatedCount() == 0 && len(result.Generated) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  no changes"))
	}
}

func renderSeverity(s diagnostics.Severity) string {
	if s == diagnostics.SeverityError {
		return errorStyle.Render("error")
	}
	return warnStyle.Render("warn ")
}

func renderError(err error) string {
	return errorStyle.Render("error: ") + err.Error()
}
