package grammar

import (
	"strings"

	"autocorrect/internal/domain"
)

// textGrammar treats the whole document as prose.
type textGrammar struct{}

func NewText() *textGrammar { return &textGrammar{} }

func (g *textGrammar) Name() string { return "text" }

func (g *textGrammar) RootKind() domain.SpanKind { return domain.KindPlainText }

func (g *textGrammar) Kind(rule string) domain.SpanKind { return lookupKind(defaultKinds, rule) }

func (g *textGrammar) Parse(text string) ([]domain.Node, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return nil, &domain.ParseError{Lang: g.Name(), Offset: i, Msg: "illegal NUL byte"}
	}
	return nil, nil
}

// shiftNodes moves nodes parsed from a substring back to document offsets.
func shiftNodes(nodes []domain.Node, delta int) []domain.Node {
	for i := range nodes {
		nodes[i].Start += delta
		nodes[i].End += delta
		nodes[i].Children = shiftNodes(nodes[i].Children, delta)
	}
	return nodes
}

// shiftError moves a ParseError offset from a substring to the document.
func shiftError(err error, delta int) error {
	if pe, ok := err.(*domain.ParseError); ok {
		shifted := *pe
		shifted.Offset += delta
		return &shifted
	}
	return err
}
