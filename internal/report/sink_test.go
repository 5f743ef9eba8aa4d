package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSink(t *testing.T) *Sink {
	t.Helper()
	sink, err := Open(filepath.Join(t.TempDir(), "reports", "stagehand.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestInsertAndForRun(t *testing.T) {
	sink := openSink(t)

	rows := []Row{
		{
			RunID: "run-1", Recipe: "modernize", Tool: "eslint",
			SourcePath: "src/Foo.jsx", RuleID: "no-console",
			Severity: "ERROR", Message: "Unexpected console statement.",
			Line: 3, Column: 5,
		},
		{
			RunID: "run-1", Recipe: "modernize", Tool: "eslint",
			SourcePath: "src/Foo.jsx", RuleID: "semi",
			Severity: "WARNING", Message: "Missing semicolon.",
			Line: 7, Column: 20,
		},
		{
			RunID: "run-2", Recipe: "other", Tool: "eslint",
			SourcePath: "a.js", RuleID: "semi",
			Severity: "ERROR", Message: "Missing semicolon.",
			Line: 1, Column: 1,
		},
	}
	for _, r := range rows {
		require.NoError(t, sink.Insert(r))
	}

	got, err := sink.ForRun("run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "no-console", got[0].RuleID)
	assert.Equal(t, "semi", got[1].RuleID)
	assert.Equal(t, 20, got[1].Column)
	assert.False(t, got[0].CreatedAt.IsZero())

	empty, err := sink.ForRun("run-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTotals(t *testing.T) {
	sink := openSink(t)

	for _, sev := range []string{"ERROR", "ERROR", "WARNING"} {
		require.NoError(t, sink.Insert(Row{
			RunID: "run-1", Recipe: "r", Tool: "eslint",
			SourcePath: "a.js", RuleID: "x", Severity: sev,
			Message: "m", Line: 1, Column: 1,
		}))
	}

	errs, warns, err := sink.Totals("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warns)

	errs, warns, err = sink.Totals("absent")
	require.NoError(t, err)
	assert.Zero(t, errs)
	assert.Zero(t, warns)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stagehand.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Insert(Row{
		RunID: "run-1", Recipe: "r", Tool: "putout",
		SourcePath: "a.js", RuleID: "x", Severity: "ERROR",
		Message: "m", Line: 1, Column: 1,
	}))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	rows, err := second.ForRun("run-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
