package resources

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestStringBin(t *testing.T) {
	m, err := ParseManifest("node_modules/jscodeshift", []byte(`{
		"name": "jscodeshift",
		"bin": "bin/jscodeshift.js"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "jscodeshift", m.Name)
	assert.Equal(t, map[string]string{"jscodeshift": "bin/jscodeshift.js"}, m.Bin)
}

func TestParseManifestScopedStringBin(t *testing.T) {
	// A scoped package's bare string bin links under the unscoped name.
	m, err := ParseManifest("node_modules/@codemod/cli", []byte(`{
		"name": "@codemod/cli",
		"bin": "bin/codemod.js"
	}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"cli": "bin/codemod.js"}, m.Bin)
}

func TestParseManifestTableBin(t *testing.T) {
	m, err := ParseManifest("node_modules/eslint", []byte(`{
		"name": "eslint",
		"bin": {"eslint": "bin/eslint.js", "lint": "bin/eslint.js"}
	}`))
	require.NoError(t, err)
	assert.Len(t, m.Bin, 2)
	assert.Equal(t, "bin/eslint.js", m.Bin["eslint"])
}

func TestParseManifestNoBin(t *testing.T) {
	m, err := ParseManifest("node_modules/lodash", []byte(`{"name": "lodash"}`))
	require.NoError(t, err)
	assert.Empty(t, m.Bin)
}

func TestParseManifestMalformedBinSkipped(t *testing.T) {
	m, err := ParseManifest("node_modules/odd", []byte(`{
		"name": "odd",
		"bin": [1, 2]
	}`))
	require.NoError(t, err)
	assert.Empty(t, m.Bin)
}

func TestParseManifestInvalidJSON(t *testing.T) {
	_, err := ParseManifest("node_modules/broken", []byte(`{`))
	require.Error(t, err)
}

func TestPlanLinks(t *testing.T) {
	ops := PlanLinks([]Manifest{
		{
			Dir:  "node_modules/putout",
			Name: "putout",
			Bin:  map[string]string{"putout": "bin/putout.mjs"},
		},
		{
			Dir:  "node_modules/eslint",
			Name: "eslint",
			Bin:  map[string]string{"eslint": "bin/eslint.js"},
		},
		{
			Dir:  "node_modules/empty",
			Name: "empty",
			Bin:  map[string]string{"": "bin/x.js", "x": ""},
		},
	})

	want := []LinkOp{
		{Name: "eslint", Script: "node_modules/eslint/bin/eslint.js"},
		{Name: "putout", Script: "node_modules/putout/bin/putout.mjs"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Errorf("link plan mismatch (-want +got):\n%s", diff)
	}
}
