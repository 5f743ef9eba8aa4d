package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInitializeIsSafe(t *testing.T) {
	assert.NotNil(t, Root())
	assert.NotNil(t, Get(CategoryChain))
	// Helpers must not panic without Initialize.
	Chain("pass %d", 1)
	ExecWarn("timeout after %s", "5m")
}

func TestInitializeWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(dir, true))
	defer Sync()

	Staging("created area at %s", dir)
	Sync()

	assert.FileExists(t, filepath.Join(dir, "stagehand.log"))
}

func TestGetCachesPerCategory(t *testing.T) {
	require.NoError(t, Initialize("", false))
	first := Get(CategoryDiag)
	second := Get(CategoryDiag)
	assert.Same(t, first, second)
}
