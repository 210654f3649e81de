package report

import (
	"encoding/json"
	"fmt"
	"io"

	"autocorrect/internal/domain"
)

// LintOutput is the JSON document written in lint mode. Count is the number
// of files reported; clean files are left out.
type LintOutput struct {
	Count    int           `json:"count"`
	Messages []FileMessage `json:"messages"`
}

type FileMessage struct {
	Filepath string              `json:"filepath"`
	Lines    []domain.Diagnostic `json:"lines"`
	Error    string              `json:"error"`
}

// JSONRenderer writes one LintOutput per call.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, results []domain.FormatResult) error {
	out := BuildLintOutput(results)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode lint output: %w", err)
	}
	return nil
}

// BuildLintOutput collects the files with diagnostics or errors.
func BuildLintOutput(results []domain.FormatResult) LintOutput {
	out := LintOutput{Messages: []FileMessage{}}
	for _, res := range results {
		if !res.Errored() && len(res.Diagnostics) == 0 {
			continue
		}
		lines := res.Diagnostics
		if lines == nil {
			lines = []domain.Diagnostic{}
		}
		out.Messages = append(out.Messages, FileMessage{
			Filepath: res.Path,
			Lines:    lines,
			Error:    res.ErrorMessage(),
		})
	}
	out.Count = len(out.Messages)
	return out
}
