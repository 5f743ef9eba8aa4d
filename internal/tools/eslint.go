package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stagehand/internal/config"
)

// ESLintBuilder runs the bundled ESLint driver, which lints (and with fix
// enabled, rewrites) the staged tree and prints a JSON diagnostics report
// on stdout.
type ESLintBuilder struct{}

func (b *ESLintBuilder) Name() string { return "eslint" }

func (b *ESLintBuilder) Build(step config.Step, env BuildEnv) ([]Invocation, error) {
	opts := step.ESLint
	if !opts.Configured() {
		return nil, nil
	}

	args := []string{driverPath(env.ToolkitRoot, "eslint-driver.js")}
	for _, p := range opts.Patterns {
		args = append(args, "--patterns="+p)
	}

	if opts.ConfigFile != "" {
		path, err := writeScratchConfig(env.ScratchDir, "eslint-config-*.json", opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		args = append(args, "--config-file="+path)
	} else {
		if opts.Parser != "" {
			args = append(args, "--parser="+opts.Parser)
		}
		for _, p := range opts.ParserOptions {
			args = append(args, "--parser-options="+p)
		}
		if opts.AllowInlineConfig != nil {
			args = append(args, fmt.Sprintf("--allow-inline-config=%t", *opts.AllowInlineConfig))
		}
		for _, e := range opts.Envs {
			args = append(args, "--env={"+e+"}")
		}
		for _, g := range opts.Globals {
			args = append(args, "--globals={"+g+"}")
		}
		for _, p := range opts.Plugins {
			args = append(args, "--plugins="+p)
		}
		for _, e := range opts.Extends {
			args = append(args, "--extends="+e)
		}
		for _, r := range opts.Rules {
			if strings.Contains(r, ":") {
				args = append(args, "--rules={"+r+"}")
			} else {
				// Bare rule names default to error severity.
				args = append(args, "--rules={"+r+": 2}")
			}
		}
		if opts.Fix != nil {
			args = append(args, fmt.Sprintf("--fix=%t", *opts.Fix))
		}
	}

	return []Invocation{{
		Program:     "node",
		Args:        args,
		Env:         step.Env,
		EmitsReport: true,
	}}, nil
}

// writeScratchConfig materializes generated configuration contents into the
// run's scratch directory and returns the file's absolute path.
func writeScratchConfig(scratchDir, pattern, contents string) (string, error) {
	f, err := os.CreateTemp(scratchDir, pattern)
	if err != nil {
		return "", fmt.Errorf("write generated config: %w", err)
	}
	if _, err := f.WriteString(contents); err != nil {
		f.Close()
		return "", fmt.Errorf("write generated config: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write generated config: %w", err)
	}
	return filepath.Abs(f.Name())
}
