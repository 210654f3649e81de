package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocorrect/internal/domain"
)

func sampleResults() []domain.FormatResult {
	return []domain.FormatResult{
		{Path: "clean.go", Raw: "a\n", Text: "a\n"},
		{
			Path: "main.go",
			Raw:  "a\n// 第1行\nb\n",
			Text: "a\n// 第 1 行\nb\n",
			Diagnostics: []domain.Diagnostic{
				{Offset: 6, Line: 2, Column: 4, EndColumn: 6, Original: "第1", Corrected: "第 1", RuleID: "space-number"},
				{Offset: 7, Line: 2, Column: 5, EndColumn: 7, Original: "1行", Corrected: "1 行", RuleID: "space-number"},
			},
		},
		{Path: "broken.go", Raw: "/* x", Text: "/* x", Err: errors.New("go:1:1: unterminated block comment")},
	}
}

func TestDiffRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDiffRenderer(false).Render(&buf, sampleResults()))

	want := strings.Join([]string{
		"--> main.go",
		"@@ -1,3 +1,3 @@",
		" a",
		"-// 第1行",
		"    ^^^^^",
		"+// 第 1 行",
		" b",
		"",
		"--> broken.go",
		"error: go:1:1: unterminated block comment",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestDiffRenderer_Colored(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDiffRenderer(true).Render(&buf, sampleResults()[1:2]))
	assert.Contains(t, buf.String(), "\x1b[31m-// 第1行")
	assert.Contains(t, buf.String(), "\x1b[32m+// 第 1 行")
}

func TestCarets(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		diags []domain.Diagnostic
		want  string
	}{
		{"none", "abc", nil, ""},
		{"ascii", "ab中c", []domain.Diagnostic{{Column: 3, EndColumn: 5}}, "  ^^^"},
		{"tab padding", "\t中a", []domain.Diagnostic{{Column: 2, EndColumn: 4}}, "\t^^^"},
		{"past end", "中", []domain.Diagnostic{{Column: 1, EndColumn: 9}}, "^^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, carets(tt.line, tt.diags))
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, sampleResults()))

	var got struct {
		Count    int `json:"count"`
		Messages []struct {
			Filepath string           `json:"filepath"`
			Lines    []map[string]any `json:"lines"`
			Error    string           `json:"error"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, 2, got.Count)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "main.go", got.Messages[0].Filepath)
	require.Len(t, got.Messages[0].Lines, 2)
	assert.Equal(t, map[string]any{
		"l": 2.0, "c": 4.0, "ec": 6.0, "old": "第1", "new": "第 1", "rule": "space-number",
	}, got.Messages[0].Lines[0])
	assert.Empty(t, got.Messages[0].Error)

	assert.Equal(t, "broken.go", got.Messages[1].Filepath)
	assert.Empty(t, got.Messages[1].Lines)
	assert.Contains(t, got.Messages[1].Error, "unterminated")
}

func TestJSONRenderer_NoResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, nil))
	assert.JSONEq(t, `{"count":0,"messages":[]}`, buf.String())
}

func TestNew(t *testing.T) {
	r, err := New("JSON", false)
	require.NoError(t, err)
	assert.IsType(t, JSONRenderer{}, r)

	r, err = New("", true)
	require.NoError(t, err)
	assert.IsType(t, &DiffRenderer{}, r)

	_, err = New("xml", false)
	assert.Error(t, err)
}
