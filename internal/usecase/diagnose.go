package usecase

import (
	"strings"
	"unicode/utf8"

	"autocorrect/internal/domain"
)

// Diagnose turns ordered edits against text into diagnostics. Edits that
// share an offset collapse into one diagnostic whose window spans the rune
// before the edit and the runes it touches.
func Diagnose(text string, edits []domain.Edit) []domain.Diagnostic {
	if len(edits) == 0 {
		return nil
	}
	lines := domain.NewLineIndex(text)
	diags := make([]domain.Diagnostic, 0, len(edits))

	for i := 0; i < len(edits); {
		j := i + 1
		for j < len(edits) && edits[j].Offset == edits[i].Offset {
			j++
		}
		diags = append(diags, diagnostic(text, lines, edits[i:j]))
		i = j
	}
	return diags
}

func diagnostic(text string, lines *domain.LineIndex, group []domain.Edit) domain.Diagnostic {
	offset := group[0].Offset
	end := offset
	inserts := true
	for _, e := range group {
		end = max(end, e.End)
		inserts = inserts && e.IsInsert()
	}

	start := offset
	if start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if r != '\n' && r != '\r' {
			start -= size
		}
	}
	// a pure insertion shows the rune after it too
	if inserts && end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if r != '\n' && r != '\r' {
			end += size
		}
	}

	shifted := make([]domain.Edit, len(group))
	var ids []string
	for k, e := range group {
		e.Offset -= start
		e.End -= start
		shifted[k] = e
		if !containsString(ids, e.RuleID) {
			ids = append(ids, e.RuleID)
		}
	}

	original := text[start:end]
	line, col := lines.Position(start)
	return domain.Diagnostic{
		Offset:    offset,
		Line:      line,
		Column:    col,
		EndColumn: col + utf8.RuneCountInString(original),
		Original:  original,
		Corrected: domain.ApplyEdits(original, shifted),
		RuleID:    strings.Join(ids, ","),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
