package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecipe(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRecipe(t *testing.T) {
	path := writeRecipe(t, `
name: modernize
toolkit: ./toolkit.zip
steps:
  - tool: codemod
    package: 5to6-codemod
    transform: cjs.js
    args: ["--dry=false"]
    timeout: 2m
  - tool: eslint
    eslint:
      patterns: ["**/*.jsx"]
      plugins: ["react"]
      rules: ["no-console"]
  - tool: putout
    putout:
      rules: ["apply-arrow"]
`)

	recipe, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "modernize", recipe.Name)
	assert.Equal(t, "./toolkit.zip", recipe.Toolkit)
	require.Len(t, recipe.Steps, 3)

	first := recipe.Steps[0]
	assert.Equal(t, "codemod", first.Tool)
	assert.Equal(t, "5to6-codemod", first.Package)
	assert.Equal(t, "cjs.js", first.Transform)
	assert.Equal(t, []string{"--dry=false"}, first.Args)
	assert.Equal(t, 2*time.Minute, first.Timeout)

	require.NotNil(t, recipe.Steps[1].ESLint)
	assert.True(t, recipe.Steps[1].ESLint.Configured())
	require.NotNil(t, recipe.Steps[2].Putout)
	assert.Equal(t, []string{"apply-arrow"}, recipe.Steps[2].Putout.Rules)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "recipe", cfgErr.Field)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeRecipe(t, "steps: [tool: {{")
	_, err := Load(path)
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsEmptyRecipe(t *testing.T) {
	recipe := &Recipe{Name: "empty"}
	var cfgErr *Error
	require.ErrorAs(t, recipe.Validate(), &cfgErr)
	assert.Equal(t, "steps", cfgErr.Field)
}

func TestValidateStepRules(t *testing.T) {
	cases := []struct {
		name string
		step Step
		ok   bool
	}{
		{"codemod without package", Step{Tool: "codemod", Transform: "t.js"}, false},
		{"codemod without transform or template", Step{Tool: "codemod", Package: "p"}, false},
		{"codemod with template only", Step{Tool: "codemod", Package: "p", Template: "cli ${repoDir}"}, true},
		{"eslint without options", Step{Tool: "eslint"}, true},
		{"missing tool", Step{}, false},
		{"unknown tool", Step{Tool: "prettier"}, false},
		{"negative timeout", Step{Tool: "putout", Timeout: -time.Second}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Recipe{Steps: []Step{tc.step}}).Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestESLintConfigured(t *testing.T) {
	var nilOpts *ESLintOptions
	assert.False(t, nilOpts.Configured())
	assert.False(t, (&ESLintOptions{Patterns: []string{"**/*.js"}}).Configured())
	assert.True(t, (&ESLintOptions{Rules: []string{"semi"}}).Configured())
	assert.True(t, (&ESLintOptions{ConfigFile: "{}"}).Configured())
}
