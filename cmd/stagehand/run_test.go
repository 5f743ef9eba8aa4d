package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagehand/internal/chain"
)

func TestLoadTreeSkipsServiceDirectories(t *testing.T) {
	target := t.TempDir()
	files := map[string]string{
		"src/app.jsx":             "app",
		"index.js":                "index",
		".git/config":             "git",
		"node_modules/x/index.js": "dep",
		".stagehand/state":        "state",
		".cache/blob":             "cached",
	}
	for rel, content := range files {
		abs := filepath.Join(target, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}

	sources, err := loadTree(target)
	require.NoError(t, err)

	var paths []string
	for _, sf := range sources {
		paths = append(paths, sf.Path)
	}
	assert.ElementsMatch(t, []string{"src/app.jsx", "index.js"}, paths)
}

func TestApplyResult(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.js"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "gone.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "same.js"), []byte("same"), 0o644))

	result := &chain.RunResult{
		Files: []chain.FileResult{
			{Path: "a.js", Changed: true, Content: "new"},
			{Path: "gone.js", Changed: true, Deleted: true},
			{Path: "same.js"},
		},
		Generated: []chain.GeneratedFile{
			{Path: "gen/extra.js", Content: []byte("extra")},
		},
	}
	require.NoError(t, applyResult(target, result))

	data, err := os.ReadFile(filepath.Join(target, "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	assert.NoFileExists(t, filepath.Join(target, "gone.js"))

	data, err = os.ReadFile(filepath.Join(target, "same.js"))
	require.NoError(t, err)
	assert.Equal(t, "same", string(data))

	data, err = os.ReadFile(filepath.Join(target, "gen", "extra.js"))
	require.NoError(t, err)
	assert.Equal(t, "extra", string(data))
}

func TestApplyResultDeleteAlreadyGone(t *testing.T) {
	target := t.TempDir()
	result := &chain.RunResult{
		Files: []chain.FileResult{{Path: "missing.js", Changed: true, Deleted: true}},
	}
	require.NoError(t, applyResult(target, result))
}
