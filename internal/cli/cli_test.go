package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
  "name": "paper",
  "body": [
    {"type": "paragraph", "paragraph": {"style": "Heading1", "text": "Introduction"}},
    {"type": "paragraph", "paragraph": {"text": "Figure 1: Overview of the system"}},
    {"type": "table", "table": {"rows": [["a", "b"]]}},
    {"type": "paragraph", "paragraph": {"text": "Body text."}}
  ]
}`

// execute 在进程内运行命令，返回标准输出
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	color.NoColor = true

	cmd := NewRootCommand("test", "abc123", "today")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit abc123")
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "1. Introduction", "参考文献", "Lorem ipsum")
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction\t1. Introduction\n")
	assert.Contains(t, out, "References\t参考文献\n")
	assert.Contains(t, out, "Unknown\tLorem ipsum\n")

	t.Run("Keyword overrides from config", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keywords.toml"), []byte("[sections]\nintroduction = [\"Einstieg\"]\n"), 0o644))
		cfgPath := filepath.Join(dir, "docimport.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("keywords_file: keywords.toml\n"), 0o644))

		out, err := execute(t, "--config", cfgPath, "classify", "Einstieg")
		require.NoError(t, err)
		assert.Contains(t, out, "Introduction\tEinstieg\n")
	})
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "page-break")
	assert.Contains(t, out, "fallback")

	t.Run("Unknown id suggests close matches", func(t *testing.T) {
		_, err := execute(t, "rules", "--disable", "captoin")
		require.ErrorIs(t, err, ErrUnknownRule)
		assert.Contains(t, err.Error(), "did you mean")
		assert.Contains(t, err.Error(), "caption")
	})

	t.Run("Unknown id without suggestions", func(t *testing.T) {
		_, err := execute(t, "rules", "--disable", "zzzzzzzzzzzzzzzzzz")
		require.ErrorIs(t, err, ErrUnknownRule)
		assert.NotContains(t, err.Error(), "did you mean")
	})
}

func TestSuggestRuleIDs(t *testing.T) {
	known := []string{"caption", "code-font", "code-style", "bibliography-context"}
	assert.Equal(t, []string{"caption"}, suggestRuleIDs("captoin", known))
	assert.Equal(t, []string{"bibliography-context"}, suggestRuleIDs("bibctx", known))
	assert.Empty(t, suggestRuleIDs("zzzzzzzzzz", known))
	assert.NoError(t, ValidateRuleIDs([]string{"caption"}, known))
}

func TestDetectCommand(t *testing.T) {
	t.Run("JSON report on stdout", func(t *testing.T) {
		out, err := execute(t, "detect", writeSnapshot(t), "--format", "json")
		require.NoError(t, err)

		var rep struct {
			RunID    string `json:"run_id"`
			Document string `json:"document"`
			Elements []struct {
				Kind string `json:"kind"`
			} `json:"elements"`
			Trace []map[string]any `json:"trace"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.NotEmpty(t, rep.RunID)
		assert.Equal(t, "paper", rep.Document)
		require.Len(t, rep.Elements, 4)
		assert.Equal(t, "Heading", rep.Elements[0].Kind)
		assert.Equal(t, "Paragraph", rep.Elements[1].Kind)
		assert.Equal(t, "Table", rep.Elements[2].Kind)
		assert.Len(t, rep.Trace, 4)
	})

	t.Run("Disabled rule changes the result", func(t *testing.T) {
		out, err := execute(t, "detect", writeSnapshot(t), "--format", "json", "--disable", "caption")
		require.NoError(t, err)
		var rep struct {
			Trace []struct {
				Rule string `json:"matched_rule_id"`
			} `json:"trace"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &rep))
		assert.Equal(t, "fallback", rep.Trace[1].Rule)
	})

	t.Run("Report file and summary", func(t *testing.T) {
		reportFile := filepath.Join(t.TempDir(), "out", "paper.report.json")
		out, err := execute(t, "detect", writeSnapshot(t), "--format", "summary", "--report", reportFile, "--chart")
		require.NoError(t, err)
		assert.Contains(t, out, "Import Summary")
		assert.FileExists(t, reportFile)
	})

	t.Run("Trace table", func(t *testing.T) {
		out, err := execute(t, "detect", writeSnapshot(t))
		require.NoError(t, err)
		assert.Contains(t, out, "heading-style")
		assert.Contains(t, out, "NonParagraph")
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := execute(t, "detect", writeSnapshot(t), "--format", "xml")
		assert.Error(t, err)

		_, err = execute(t, "detect", filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)

		_, err = execute(t, "detect")
		assert.Error(t, err)
	})
}
