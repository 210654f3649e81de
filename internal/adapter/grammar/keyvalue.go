package grammar

import (
	"strings"

	"autocorrect/internal/domain"
)

// keyValueGrammar covers .properties and INI files.
type keyValueGrammar struct {
	name     string
	comments string
}

// NewKeyValue builds a line grammar; comments lists the bytes that start a
// comment line.
func NewKeyValue(name, comments string) *keyValueGrammar {
	return &keyValueGrammar{name: name, comments: comments}
}

func (g *keyValueGrammar) Name() string { return g.name }

func (g *keyValueGrammar) RootKind() domain.SpanKind { return domain.KindCode }

func (g *keyValueGrammar) Kind(rule string) domain.SpanKind { return lookupKind(defaultKinds, rule) }

func (g *keyValueGrammar) Parse(text string) ([]domain.Node, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return nil, &domain.ParseError{Lang: g.name, Offset: i, Msg: "illegal NUL byte"}
	}
	var nodes []domain.Node
	c := &cursor{src: text}
	continued := false
	for !c.eof() {
		lineStart := c.off
		lineEnd := c.lineEnd()
		line := text[lineStart:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		start := lineStart + len(line) - len(trimmed)

		switch {
		case continued:
			if trimmed != "" {
				nodes = append(nodes, domain.Node{Rule: "value", Start: start, End: valueEnd(text, start, lineEnd)})
			}
		case trimmed == "":
		case strings.IndexByte(g.comments, trimmed[0]) >= 0:
			nodes = append(nodes, domain.Node{Rule: "line_comment", Start: start, End: lineEnd})
		case trimmed[0] == '[':
		default:
			if sep := strings.IndexAny(trimmed, "=:"); sep >= 0 {
				v := start + sep + 1
				for v < lineEnd && (text[v] == ' ' || text[v] == '\t') {
					v++
				}
				if end := valueEnd(text, v, lineEnd); end > v {
					nodes = append(nodes, domain.Node{Rule: "value", Start: v, End: end})
				}
			}
		}
		continued = trimmed != "" && strings.HasSuffix(line, `\`) && !strings.HasSuffix(line, `\\`) &&
			(continued || strings.IndexByte(g.comments, trimmed[0]) < 0)

		c.off = lineEnd
		c.skipLine()
		if !c.eof() {
			c.advance(1)
		}
	}
	return nodes, nil
}

// valueEnd trims trailing blanks and a line continuation backslash.
func valueEnd(text string, start, end int) int {
	v := strings.TrimRight(text[start:end], " \t")
	if strings.HasSuffix(v, `\`) && !strings.HasSuffix(v, `\\`) {
		v = strings.TrimRight(v[:len(v)-1], " \t")
	}
	return start + len(v)
}
