// Package tools turns recipe steps into fully resolved external commands.
// Each supported tool has a builder that knows its driver's command-line
// surface; builders produce typed argument lists, never shell strings, so
// arguments containing spaces survive intact.
package tools

import (
	"stagehand/internal/config"
)

// Invocation is one resolved command for a pass. A single step may expand
// to several invocations run in order against the same staging area.
type Invocation struct {
	// Program is the executable, typically "node" or a repaired entry point.
	Program string

	// Args is the resolved argument list, substitution already applied.
	Args []string

	// Env holds tool-specific environment overrides, layered over the
	// chain's standard NODE_PATH / TERM injection.
	Env map[string]string

	// EmitsReport marks that stdout carries a JSON diagnostics report to be
	// reconciled after the pass.
	EmitsReport bool

	// IgnoreExitError tolerates a non-zero exit for this invocation only.
	// Putout's --disable-all pass exits non-zero by design.
	IgnoreExitError bool
}

// BuildEnv is everything a builder needs besides the step itself.
type BuildEnv struct {
	// ToolkitRoot is the extracted tool distribution.
	ToolkitRoot string

	// NodeModules is ToolkitRoot/node_modules, the module-resolution root.
	NodeModules string

	// Parser is the language-variant hint derived from the staged tree's
	// extension counts: tsx, ts or babel.
	Parser string

	// ScratchDir receives generated configuration files.
	ScratchDir string
}

// Builder resolves one kind of recipe step into invocations. Returning an
// empty slice skips the pass entirely (the step has nothing to do).
type Builder interface {
	Name() string
	Build(step config.Step, env BuildEnv) ([]Invocation, error)
}
