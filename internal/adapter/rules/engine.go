package rules

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"autocorrect/internal/domain"
)

// Engine applies the enabled rules of a table to correctable text.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	table   []domain.Rule
	enabled map[string]bool
}

// NewEngine enables every rule of table except the disabled ids.
func NewEngine(table []domain.Rule, disabled ...string) *Engine {
	off := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		off[id] = true
	}
	enabled := make(map[string]bool, len(table))
	for _, r := range table {
		enabled[r.ID] = !off[r.ID]
	}
	return &Engine{table: table, enabled: enabled}
}

// Table returns the rule table the engine was built from.
func (e *Engine) Table() []domain.Rule {
	return e.table
}

// Enabled reports whether rule id is active.
func (e *Engine) Enabled(id string) bool {
	return e.enabled[id]
}

// Fingerprint identifies the active rule set.
func (e *Engine) Fingerprint() string {
	ids := make([]string, 0, len(e.table))
	for _, r := range e.table {
		if e.enabled[r.ID] {
			ids = append(ids, r.ID)
		}
	}
	return strings.Join(ids, ",")
}

type cell struct {
	r    rune
	out  rune
	off  int
	size int
	rule string
}

// Apply returns the edits for one segment of correctable text. Offsets are
// shifted by base so they address the enclosing document. Edits come out
// ordered by offset; an insertion precedes a replacement at the same offset.
func (e *Engine) Apply(segment string, base int) []domain.Edit {
	if segment == "" {
		return nil
	}
	cells := make([]cell, 0, utf8.RuneCountInString(segment))
	for off, r := range segment {
		cells = append(cells, cell{r: r, out: r, off: off})
	}
	for i := range cells {
		end := len(segment)
		if i+1 < len(cells) {
			end = cells[i+1].off
		}
		cells[i].size = end - cells[i].off
	}

	if e.enabled[RuleHalfwidth] {
		for i := range cells {
			r := cells[i].r
			if !isFullwidthDigit(r) && !isFullwidthLetter(r) {
				continue
			}
			if n := width.LookupRune(r).Narrow(); n != 0 {
				cells[i].out = n
				cells[i].rule = RuleHalfwidth
			}
		}
	}

	if e.enabled[RuleFullwidth] {
		for i := 1; i < len(cells); i++ {
			wide, ok := fullwidthPunct[cells[i].out]
			if !ok || Classify(cells[i-1].out) != ClassCJK {
				continue
			}
			if i+1 < len(cells) {
				next := cells[i+1].out
				if next != '\n' && next != '\r' && Classify(next) != ClassCJK {
					continue
				}
			}
			cells[i].out = wide
			cells[i].rule = RuleFullwidth
		}
	}

	var edits []domain.Edit
	for i := range cells {
		if i > 0 {
			if id := e.spacing(Classify(cells[i-1].out), Classify(cells[i].out)); id != "" {
				edits = append(edits, domain.Edit{
					Offset:      base + cells[i].off,
					End:         base + cells[i].off,
					Replacement: " ",
					RuleID:      id,
				})
			}
		}
		if cells[i].rule != "" {
			edits = append(edits, domain.Edit{
				Offset:      base + cells[i].off,
				End:         base + cells[i].off + cells[i].size,
				Replacement: string(cells[i].out),
				RuleID:      cells[i].rule,
			})
		}
	}
	return edits
}

// spacing returns the rule id that asks for a space between a and b.
func (e *Engine) spacing(a, b Class) string {
	var other Class
	switch {
	case a == ClassCJK:
		other = b
	case b == ClassCJK:
		other = a
	default:
		return ""
	}
	switch {
	case other == ClassLetter && e.enabled[RuleSpaceWord]:
		return RuleSpaceWord
	case other == ClassDigit && e.enabled[RuleSpaceNumber]:
		return RuleSpaceNumber
	}
	return ""
}

// Correct applies the engine to a whole string.
func (e *Engine) Correct(text string) string {
	return domain.ApplyEdits(text, e.Apply(text, 0))
}
