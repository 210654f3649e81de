package usecase

import (
	"regexp"
	"strings"

	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
)

var directivePattern = regexp.MustCompile(`(?i)autocorrect(?::\s*(true|false)|-(enable|disable))\b`)

// Corrector walks a span tree and corrects its correctable segments.
type Corrector struct {
	engine *rules.Engine
}

// NewCorrector creates a corrector driven by engine.
func NewCorrector(engine *rules.Engine) *Corrector {
	return &Corrector{engine: engine}
}

// Correct returns the corrected text and the edits that produce it from
// text. Code spans are copied verbatim. Each gap between the children of a
// correctable span is corrected on its own, so no rule sees across a span
// boundary.
func (c *Corrector) Correct(tree *domain.SpanTree, text string) (string, []domain.Edit) {
	if tree == nil || len(tree.Spans) == 0 {
		return text, nil
	}

	var edits []domain.Edit
	enabled := true
	segment := func(start, end int) {
		if !enabled || start >= end {
			return
		}
		edits = append(edits, c.engine.Apply(text[start:end], start)...)
	}

	var visit func(idx int)
	visit = func(idx int) {
		span := tree.Spans[idx]
		if span.Kind.IsComment() {
			if on, ok := directive(text[span.Start:span.End]); ok {
				enabled = on
			}
		}
		correctable := span.Kind.Correctable()
		pos := span.Start
		for _, ci := range span.Children {
			child := tree.Spans[ci]
			if correctable {
				segment(pos, child.Start)
			}
			visit(ci)
			pos = child.End
		}
		if correctable {
			segment(pos, span.End)
		}
	}
	visit(0)

	return domain.ApplyEdits(text, edits), edits
}

// directive reports the last autocorrect toggle found in a comment.
func directive(comment string) (on bool, ok bool) {
	if !strings.Contains(strings.ToLower(comment), "autocorrect") {
		return false, false
	}
	matches := directivePattern.FindAllStringSubmatch(comment, -1)
	if len(matches) == 0 {
		return false, false
	}
	m := matches[len(matches)-1]
	switch strings.ToLower(m[1] + m[2]) {
	case "true", "enable":
		return true, true
	default:
		return false, true
	}
}
