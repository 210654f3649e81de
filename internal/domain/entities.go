package domain

import (
	"sort"
	"strings"
)

// SourceDocument is the immutable input of one correction pass.
type SourceDocument struct {
	Path string
	Text string
	Lang string
}

// SpanKind classifies a byte range of a document.
type SpanKind int

const (
	KindCode SpanKind = iota
	KindComment
	KindDocComment
	KindStringLiteral
	KindMarkup
	KindPlainText
)

var spanKindNames = [...]string{
	KindCode:          "code",
	KindComment:       "comment",
	KindDocComment:    "doc_comment",
	KindStringLiteral: "string",
	KindMarkup:        "markup",
	KindPlainText:     "text",
}

func (k SpanKind) String() string {
	if int(k) < len(spanKindNames) {
		return spanKindNames[k]
	}
	return "unknown"
}

// Correctable reports whether text of this kind may be rewritten.
func (k SpanKind) Correctable() bool {
	return k != KindCode
}

// IsComment reports whether the kind is a line, block or doc comment.
func (k SpanKind) IsComment() bool {
	return k == KindComment || k == KindDocComment
}

// Node is a raw grammar production: a rule name over [Start, End) with
// nested productions. Grammars emit nodes; the segmenter turns them into spans.
type Node struct {
	Rule     string
	Start    int
	End      int
	Children []Node
}

// Span is a node of the canonical span tree.
type Span struct {
	Start    int
	End      int
	Kind     SpanKind
	Parent   int
	Children []int
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// SpanTree is an arena of spans; index 0 is the root and covers the whole
// document. Parent of the root is -1.
type SpanTree struct {
	Spans []Span
}

// Root returns the root span.
func (t *SpanTree) Root() Span {
	return t.Spans[0]
}

// Innermost returns the index of the deepest span containing offset, or -1
// when offset is outside the document.
func (t *SpanTree) Innermost(offset int) int {
	if len(t.Spans) == 0 || !t.Spans[0].Contains(offset) {
		return -1
	}
	idx := 0
	for {
		children := t.Spans[idx].Children
		i := sort.Search(len(children), func(i int) bool {
			return t.Spans[children[i]].End > offset
		})
		if i == len(children) || !t.Spans[children[i]].Contains(offset) {
			return idx
		}
		idx = children[i]
	}
}

// KindAt returns the kind of the innermost span covering offset.
func (t *SpanTree) KindAt(offset int) SpanKind {
	idx := t.Innermost(offset)
	if idx < 0 {
		return KindCode
	}
	return t.Spans[idx].Kind
}

// Walk visits spans depth-first in document order. Returning false from fn
// skips the children of that span.
func (t *SpanTree) Walk(fn func(idx int, span Span) bool) {
	if len(t.Spans) == 0 {
		return
	}
	var visit func(idx int)
	visit = func(idx int) {
		if !fn(idx, t.Spans[idx]) {
			return
		}
		for _, c := range t.Spans[idx].Children {
			visit(c)
		}
	}
	visit(0)
}

// Edit replaces the original bytes [Offset, End) with Replacement.
// Offset == End is an insertion.
type Edit struct {
	Offset      int
	End         int
	Replacement string
	RuleID      string
}

// IsInsert reports whether the edit only inserts text.
func (e Edit) IsInsert() bool {
	return e.Offset == e.End
}

// ApplyEdits applies edits ordered by offset to text. Edits must not overlap.
func ApplyEdits(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(edits))
	last := 0
	for _, e := range edits {
		b.WriteString(text[last:e.Offset])
		b.WriteString(e.Replacement)
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Action is what a correction rule does at its trigger.
type Action int

const (
	ActionInsertSpace Action = iota
	ActionToHalfwidth
	ActionToFullwidth
)

func (a Action) String() string {
	switch a {
	case ActionInsertSpace:
		return "insert-space"
	case ActionToHalfwidth:
		return "to-halfwidth"
	case ActionToFullwidth:
		return "to-fullwidth"
	default:
		return "unknown"
	}
}

// Rule describes one entry of the correction rule table.
type Rule struct {
	ID          string
	Description string
	Action      Action
}

// Diagnostic locates one correction in the original document. Line and
// columns are 1-based; columns count runes and EndColumn is exclusive.
type Diagnostic struct {
	Offset    int    `json:"-"`
	Line      int    `json:"l"`
	Column    int    `json:"c"`
	EndColumn int    `json:"ec"`
	Original  string `json:"old"`
	Corrected string `json:"new"`
	RuleID    string `json:"rule"`
}

// FormatResult is the outcome of one pass over one document.
type FormatResult struct {
	Path        string
	Lang        string
	Raw         string
	Text        string
	Diagnostics []Diagnostic
	Err         error
}

// Errored reports whether segmentation failed.
func (r FormatResult) Errored() bool {
	return r.Err != nil
}

// ErrorMessage returns the error text or "".
func (r FormatResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Changed reports whether the corrected text differs from the input.
func (r FormatResult) Changed() bool {
	return r.Err == nil && r.Text != r.Raw
}
