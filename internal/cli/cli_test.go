package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag state and captured output.
func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	resetFlags(rootCmd)
	cfg, logger = nil, nil

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	code = run(args)
	return out.String(), errOut.String(), code
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatPrintsCorrectedText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "中文English\n")

	stdout, _, code := execute(t, "--dir", dir, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "中文 English\n", stdout)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "中文English\n", string(raw), "format mode must not write")
}

func TestLintDiff(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "// 第1行注释\npackage main\n")
	writeFile(t, dir, "clean.go", "// 第 1 行注释\npackage main\n")

	stdout, stderr, code := execute(t, "--dir", dir, "--lint", "--no-cache", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "main.go")
	assert.Contains(t, stderr, "-// 第1行注释")
	assert.Contains(t, stderr, "+// 第 1 行注释")
	assert.NotContains(t, stderr, "clean.go")
	assert.Contains(t, stdout, "AutoCorrect spend time")
}

func TestLintJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "// 第1行注释\npackage main\n")
	writeFile(t, dir, "broken.go", "/* 未结束\n")
	writeFile(t, dir, "image.png", "\x89PNG")

	stdout, _, code := execute(t, "--dir", dir, "--lint", "--format", "json", "--no-cache", dir)
	assert.Equal(t, 1, code)

	var got struct {
		Count    int `json:"count"`
		Messages []struct {
			Filepath string            `json:"filepath"`
			Lines    []json.RawMessage `json:"lines"`
			Error    string            `json:"error"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 2, got.Count)

	byName := map[string]int{}
	for i, m := range got.Messages {
		byName[filepath.Base(m.Filepath)] = i
	}
	require.Contains(t, byName, "main.go")
	require.Contains(t, byName, "broken.go")
	assert.Len(t, got.Messages[byName["main.go"]].Lines, 2)
	assert.NotEmpty(t, got.Messages[byName["broken.go"]].Error)
}

func TestFixThenLintClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "// 第1行注释\npackage main\n")

	stdout, _, code := execute(t, "--dir", dir, "--fix", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Done.")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// 第 1 行注释\npackage main\n", string(raw))

	_, _, code = execute(t, "--dir", dir, "--lint", path)
	assert.Equal(t, 0, code)

	// the second clean run is served from the cache
	_, stderr, code := execute(t, "--dir", dir, "--lint", "--debug", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, `"cached": 1`)
	assert.FileExists(t, filepath.Join(dir, ".autocorrect", "cache.db"))
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "// 第 1 行注释\npackage main\n")

	_, _, code := execute(t, "--dir", dir, "--lint", path)
	assert.Equal(t, 0, code)

	_, stderr, code := execute(t, "--dir", dir, "--lint", "--clear-cache", "--debug", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "lint cache cleared")
	assert.Contains(t, stderr, `"entries": 1`)
	assert.Contains(t, stderr, `"cached": 0`)
}

func TestConfigExcludesAndIgnoreFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".autocorrectrc.yaml", "files:\n  excludes:\n    - \"**/fixtures/**\"\n")
	writeFile(t, dir, ".autocorrectignore", "src/gen/\n")
	writeFile(t, dir, "src/a.md", "中文English\n")
	writeFile(t, dir, "src/gen/b.md", "中文English\n")
	writeFile(t, dir, "src/fixtures/c.md", "中文English\n")

	stdout, _, code := execute(t, "--dir", dir, filepath.Join(dir, "src"))
	assert.Equal(t, 0, code)
	assert.Equal(t, "中文 English\n", stdout)

	_, _, code = execute(t, "--dir", dir, "--fix", filepath.Join(dir, "src", "gen", "b.md"))
	assert.Equal(t, 0, code)
	raw, err := os.ReadFile(filepath.Join(dir, "src", "gen", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, "中文English\n", string(raw), "ignored files must not be rewritten")
}

func TestConfigDisablesRule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".autocorrectrc.yaml", "rules:\n  space-word: 0\n")
	path := writeFile(t, dir, "a.md", "中文English和1个\n")

	stdout, _, code := execute(t, "--dir", dir, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "中文English和 1 个\n", stdout)

	stdout, _, code = execute(t, "--dir", dir, "rules")
	assert.Equal(t, 0, code)
	assert.Regexp(t, `space-word\s+off`, stdout)
	assert.Regexp(t, `space-number\s+on`, stdout)
}

func TestForcedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.unknown", "中文English\n")

	stdout, _, code := execute(t, "--dir", dir, path)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout, "unsupported files are skipped")

	stdout, _, code = execute(t, "--dir", dir, "--type", "text", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "中文 English\n", stdout)

	_, stderr, code := execute(t, "--dir", dir, "--type", "cobol", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestLanguages(t *testing.T) {
	stdout, _, code := execute(t, "--dir", t.TempDir(), "languages")
	assert.Equal(t, 0, code)
	assert.Regexp(t, `(?m)^go\s+\.go$`, stdout)
	assert.Regexp(t, `(?m)^markdown\s+`, stdout)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	stdout, _, code := execute(t, "--dir", dir, "init")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, ".autocorrectrc.yaml")
	assert.FileExists(t, filepath.Join(dir, ".autocorrectrc.yaml"))

	_, stderr, code := execute(t, "--dir", dir, "init")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "already exists")

	_, _, code = execute(t, "--dir", dir, "init", "--force")
	assert.Equal(t, 0, code)

	_, _, code = execute(t, "--dir", dir, "init", "--toml")
	assert.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, ".autocorrectrc.toml"))
}
