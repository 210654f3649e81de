package grammar

import (
	"autocorrect/internal/domain"
)

// jsonGrammar parses JSON and its commented variants. Object keys are code,
// string values are prose.
type jsonGrammar struct {
	lex *lexicalGrammar
}

func NewJSON() *jsonGrammar {
	return &jsonGrammar{lex: NewLexical(Syntax{
		Name:          "json",
		LineComments:  []string{"//"},
		BlockComments: []Delim{cBlock},
		Strings:       []StringDelim{dquote, squote},
	})}
}

func (g *jsonGrammar) Name() string { return "json" }

func (g *jsonGrammar) RootKind() domain.SpanKind { return domain.KindCode }

func (g *jsonGrammar) Kind(rule string) domain.SpanKind { return g.lex.Kind(rule) }

func (g *jsonGrammar) Parse(text string) ([]domain.Node, error) {
	nodes, err := g.lex.Parse(text)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		n := &nodes[i]
		if n.Rule != "string" {
			continue
		}
		for j := n.Start; j < n.End; j++ {
			if text[j] < 0x20 && text[j] != '\t' {
				return nil, &domain.ParseError{Lang: g.Name(), Offset: j, Msg: "control character in string"}
			}
		}
		if nextSignificant(text, n.End) == ':' {
			n.Rule = "key"
			n.Children = nil
		}
	}
	return nodes, nil
}

// nextSignificant returns the first non-blank byte at or after off, or 0.
func nextSignificant(text string, off int) byte {
	for ; off < len(text); off++ {
		switch text[off] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return text[off]
	}
	return 0
}
