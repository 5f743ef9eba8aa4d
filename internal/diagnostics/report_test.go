package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
  "results": [
    {
      "filePath": "/stage/src/Foo.js",
      "errorCount": 1,
      "warningCount": 0,
      "messages": [
        {
          "ruleId": "no-undef",
          "severity": 2,
          "message": "'console' is not defined.",
          "line": 1,
          "column": 1,
          "endLine": 1,
          "endColumn": 8
        }
      ]
    },
    {
      "filePath": "/stage/src/Clean.js",
      "errorCount": 0,
      "warningCount": 0,
      "messages": []
    }
  ],
  "metadata": {
    "rulesMeta": {
      "no-undef": {
        "docs": {
          "description": "Disallow the use of undeclared variables"
        }
      }
    }
  }
}`

func TestParseReport(t *testing.T) {
	rep, err := ParseReport(strings.NewReader(sampleReport), "report.json")
	require.NoError(t, err)

	require.Len(t, rep.Results, 2)
	flagged := rep.Flagged()
	require.Len(t, flagged, 1)
	assert.Equal(t, "/stage/src/Foo.js", flagged[0].FilePath)

	msg := flagged[0].Messages[0]
	assert.Equal(t, "no-undef", msg.RuleID)
	assert.Equal(t, SeverityError, msg.Severity)
	assert.True(t, msg.HasEnd())
	assert.Equal(t, 8, msg.EndColumn)
	assert.Equal(t, "Disallow the use of undeclared variables", rep.Metadata.RulesMeta["no-undef"].Docs.Description)
}

func TestParseReportMalformed(t *testing.T) {
	_, err := ParseReport(strings.NewReader("{not json"), "bad.json")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.json", parseErr.Path)
}

func TestDiagnosticDetail(t *testing.T) {
	d := Diagnostic{RuleID: "no-undef", Severity: SeverityError, Message: "'console' is not defined."}
	rules := map[string]RuleMeta{}

	assert.Equal(t, "'console' is not defined.\n\nRule: no-undef, Severity: ERROR", d.Detail(rules))

	meta := RuleMeta{}
	meta.Docs.Description = "Disallow the use of undeclared variables"
	rules["no-undef"] = meta
	assert.Equal(t,
		"'console' is not defined.\n\nDisallow the use of undeclared variables\n\nRule: no-undef, Severity: ERROR",
		d.Detail(rules))
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
}
