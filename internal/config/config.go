// Package config loads and validates recipe files. A recipe names a chain
// of transformation tool steps applied in order to one target tree.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stagehand/internal/logging"
)

// Recipe is one chain definition.
type Recipe struct {
	// Name identifies the recipe in logs and reports.
	Name string `yaml:"name"`

	// Toolkit is the bundled tool distribution to stage: a directory or a
	// .zip archive.
	Toolkit string `yaml:"toolkit"`

	// Steps run in order; each step's input is the previous step's output.
	Steps []Step `yaml:"steps"`
}

// Step configures one pass of the chain.
type Step struct {
	// Tool selects the registered command builder: codemod, eslint, putout.
	Tool string `yaml:"tool"`

	// Package is the npm package carrying the codemod (codemod tool only).
	Package string `yaml:"package"`

	// Transform is the transform name within the package (codemod tool).
	Transform string `yaml:"transform"`

	// Args are extra arguments substituted for ${codemodArgs}.
	Args []string `yaml:"args"`

	// Template overrides the tool's default command template.
	Template string `yaml:"template"`

	// Env holds additional environment overrides for the tool process.
	Env map[string]string `yaml:"env"`

	// Timeout bounds the external process wait; zero uses the default.
	Timeout time.Duration `yaml:"timeout"`

	ESLint *ESLintOptions `yaml:"eslint"`
	Putout *PutoutOptions `yaml:"putout"`
}

// ESLintOptions mirror the driver's command-line surface.
type ESLintOptions struct {
	Patterns          []string `yaml:"patterns"`
	Parser            string   `yaml:"parser"`
	ParserOptions     []string `yaml:"parserOptions"`
	AllowInlineConfig *bool    `yaml:"allowInlineConfig"`
	Envs              []string `yaml:"envs"`
	Globals           []string `yaml:"globals"`
	Plugins           []string `yaml:"plugins"`
	Extends           []string `yaml:"extends"`
	Rules             []string `yaml:"rules"`
	Fix               *bool    `yaml:"fix"`

	// ConfigFile is full configuration file contents; when set it overrides
	// every other option and is written to a scratch file for the driver.
	ConfigFile string `yaml:"configFile"`
}

// Configured reports whether the step would lint anything at all. An ESLint
// step with no plugins, extends, rules or config file is a no-op and its
// pass is skipped, matching the driver's own behavior.
func (o *ESLintOptions) Configured() bool {
	if o == nil {
		return false
	}
	return len(o.Plugins) > 0 || len(o.Extends) > 0 || len(o.Rules) > 0 || o.ConfigFile != ""
}

// PutoutOptions configure a putout step.
type PutoutOptions struct {
	// Rules to enable one at a time before the final fix pass.
	Rules []string `yaml:"rules"`

	// ConfigFile is generated config contents handed to putout via
	// PUTOUT_CONFIG_FILE.
	ConfigFile string `yaml:"configFile"`
}

// Load reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Field: "recipe", Reason: err.Error()}
	}
	var recipe Recipe
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, &Error{Field: "recipe", Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	logging.Get(logging.CategoryConfig).Debugf("loaded recipe %q with %d steps", recipe.Name, len(recipe.Steps))
	return &recipe, nil
}

// Validate checks the recipe for configuration errors before any staging
// happens; a bad recipe must fail before files hit the disk.
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return &Error{Field: "steps", Reason: "recipe has no steps"}
	}
	for i, step := range r.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	switch s.Tool {
	case "codemod":
		if s.Package == "" {
			return &Error{Field: "package", Reason: "codemod step requires an npm package"}
		}
		if s.Transform == "" && s.Template == "" {
			return &Error{Field: "transform", Reason: "codemod step requires a transform or a template"}
		}
	case "eslint", "putout":
		// No required fields; an unconfigured eslint step is skipped.
	case "":
		return &Error{Field: "tool", Reason: "step has no tool"}
	default:
		return &Error{Field: "tool", Reason: fmt.Sprintf("unknown tool %q", s.Tool)}
	}
	if s.Timeout < 0 {
		return &Error{Field: "timeout", Reason: "timeout must not be negative"}
	}
	return nil
}
