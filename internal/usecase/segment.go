package usecase

import (
	"fmt"
	"unicode/utf8"

	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// Segmenter turns grammar productions into a validated span tree.
type Segmenter struct {
	registry port.GrammarRegistry
}

// NewSegmenter creates a segmenter over a grammar registry.
func NewSegmenter(registry port.GrammarRegistry) *Segmenter {
	return &Segmenter{registry: registry}
}

// Language resolves the language tag of a document: the explicit tag when
// set, otherwise detection from the path.
func (s *Segmenter) Language(doc domain.SourceDocument) string {
	if doc.Lang != "" {
		return doc.Lang
	}
	return s.registry.Detect(doc.Path)
}

// Segment parses doc into its span tree. Partial trees are never returned.
func (s *Segmenter) Segment(doc domain.SourceDocument) (*domain.SpanTree, error) {
	lang := s.Language(doc)
	if lang == "" {
		return nil, &domain.UnsupportedLanguageError{Lang: doc.Path}
	}
	g, err := s.registry.Lookup(lang)
	if err != nil {
		return nil, err
	}

	text := doc.Text
	lines := domain.NewLineIndex(text)
	if !utf8.ValidString(text) {
		return nil, locate(lines, &domain.ParseError{Lang: g.Name(), Offset: invalidUTF8(text), Msg: "invalid UTF-8"})
	}

	nodes, err := g.Parse(text)
	if err != nil {
		if pe, ok := err.(*domain.ParseError); ok {
			return nil, locate(lines, pe)
		}
		return nil, fmt.Errorf("failed to parse %s: %w", g.Name(), err)
	}

	b := &treeBuilder{grammar: g}
	b.tree.Spans = append(b.tree.Spans, domain.Span{
		Start:  0,
		End:    len(text),
		Kind:   g.RootKind(),
		Parent: -1,
	})
	if err := b.add(0, nodes); err != nil {
		return nil, locate(lines, err)
	}
	return &b.tree, nil
}

type treeBuilder struct {
	grammar port.Grammar
	tree    domain.SpanTree
}

// add appends nodes as children of parent, checking the tree invariants.
func (b *treeBuilder) add(parent int, nodes []domain.Node) *domain.ParseError {
	p := b.tree.Spans[parent]
	prevEnd := p.Start
	for _, n := range nodes {
		if n.Start == n.End && len(n.Children) == 0 {
			continue
		}
		switch {
		case n.Start >= n.End:
			return b.invalid(n, "empty production")
		case n.Start < p.Start || n.End > p.End:
			return b.invalid(n, "production escapes its parent")
		case parent != 0 && n.Start == p.Start && n.End == p.End:
			return b.invalid(n, "production equals its parent")
		case n.Start < prevEnd:
			return b.invalid(n, "overlapping productions")
		}
		prevEnd = n.End

		idx := len(b.tree.Spans)
		b.tree.Spans = append(b.tree.Spans, domain.Span{
			Start:  n.Start,
			End:    n.End,
			Kind:   b.grammar.Kind(n.Rule),
			Parent: parent,
		})
		b.tree.Spans[parent].Children = append(b.tree.Spans[parent].Children, idx)
		if err := b.add(idx, n.Children); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) invalid(n domain.Node, msg string) *domain.ParseError {
	return &domain.ParseError{
		Lang:   b.grammar.Name(),
		Offset: n.Start,
		Msg:    fmt.Sprintf("%s: %q [%d, %d)", msg, n.Rule, n.Start, n.End),
	}
}

// locate fills in the line and column of a parse error.
func locate(lines *domain.LineIndex, pe *domain.ParseError) *domain.ParseError {
	located := *pe
	located.Line, located.Column = lines.Position(pe.Offset)
	return &located
}

func invalidUTF8(text string) int {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(text)
}
