package grammar

import (
	"strings"

	"autocorrect/internal/domain"
)

// yamlGrammar is a line scanner for YAML documents. Keys, anchors, tags and
// flow collections are code; scalar values and comments are prose.
type yamlGrammar struct{}

func NewYAML() *yamlGrammar { return &yamlGrammar{} }

func (g *yamlGrammar) Name() string { return "yaml" }

func (g *yamlGrammar) RootKind() domain.SpanKind { return domain.KindCode }

func (g *yamlGrammar) Kind(rule string) domain.SpanKind { return lookupKind(defaultKinds, rule) }

func (g *yamlGrammar) fail(offset int, msg string) error {
	return &domain.ParseError{Lang: g.Name(), Offset: offset, Msg: msg}
}

func (g *yamlGrammar) Parse(text string) ([]domain.Node, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return nil, g.fail(i, "illegal NUL byte")
	}
	var nodes []domain.Node
	c := &cursor{src: text}
	blockIndent := -1

	for !c.eof() {
		lineStart := c.off
		lineEnd := c.lineEnd()
		line := text[lineStart:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)

		if blockIndent >= 0 {
			if trimmed == "" || indent > blockIndent {
				if trimmed != "" {
					nodes = append(nodes, domain.Node{Rule: "value", Start: lineStart + indent, End: lineEnd})
				}
				g.nextLine(c)
				continue
			}
			blockIndent = -1
		}

		c.off = lineStart + indent
		switch {
		case trimmed == "":
		case trimmed[0] == '#':
			nodes = append(nodes, domain.Node{Rule: "line_comment", Start: c.off, End: lineEnd})
		case trimmed == "---" || trimmed == "..." || strings.HasPrefix(trimmed, "--- ") || trimmed[0] == '%':
		default:
			lineNodes, block, err := g.scanEntry(c, lineEnd)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, lineNodes...)
			if block {
				blockIndent = indent
			}
		}
		if c.off < lineEnd {
			c.off = lineEnd
		}
		g.nextLine(c)
	}
	return nodes, nil
}

func (g *yamlGrammar) nextLine(c *cursor) {
	c.skipLine()
	if !c.eof() {
		c.advance(1)
	}
}

// scanEntry handles one logical entry. block reports a "|" or ">" scalar
// whose body follows on the next lines. Quoted scalars may carry the cursor
// past lineEnd.
func (g *yamlGrammar) scanEntry(c *cursor, lineEnd int) (nodes []domain.Node, block bool, err error) {
	for c.at("- ") || c.at("-\t") || (c.peek() == '-' && c.off+1 == lineEnd) {
		c.advance(1)
		g.skipBlanks(c, lineEnd)
	}
	if c.off >= lineEnd {
		return nil, false, nil
	}

	// key
	switch c.peek() {
	case '"', '\'':
		start := c.off
		if _, err := g.scanQuoted(c); err != nil {
			return nil, false, err
		}
		if c.peek() == ':' {
			c.advance(1)
			lineEnd = c.lineEnd()
		} else {
			c.off = start
		}
	case '[', '{', '&', '!', '*', '|', '>':
	default:
		if k := plainKeyEnd(c.src[c.off:lineEnd]); k >= 0 {
			c.advance(k + 1)
		}
	}
	g.skipBlanks(c, lineEnd)

	// node properties
	for c.off < lineEnd && (c.peek() == '&' || c.peek() == '!') {
		for c.off < lineEnd && c.peek() != ' ' && c.peek() != '\t' {
			c.advance(1)
		}
		g.skipBlanks(c, lineEnd)
	}
	if c.off >= lineEnd {
		return nil, false, nil
	}

	switch b := c.peek(); {
	case b == '#':
		nodes = append(nodes, domain.Node{Rule: "line_comment", Start: c.off, End: lineEnd})
		c.off = lineEnd
	case b == '|' || b == '>':
		block = true
		if i := strings.Index(c.src[c.off:lineEnd], " #"); i >= 0 {
			nodes = append(nodes, domain.Node{Rule: "line_comment", Start: c.off + i + 1, End: lineEnd})
		}
		c.off = lineEnd
	case b == '"' || b == '\'':
		node, err := g.scanQuoted(c)
		if err != nil {
			return nil, false, err
		}
		nodes = append(nodes, node)
		rest := c.lineEnd()
		if i := strings.Index(c.src[c.off:rest], "#"); i >= 0 {
			nodes = append(nodes, domain.Node{Rule: "line_comment", Start: c.off + i, End: rest})
		}
		c.off = rest
	case b == '[' || b == '{' || b == '*':
		c.off = lineEnd
	default:
		start := c.off
		end := lineEnd
		if i := strings.Index(c.src[start:lineEnd], " #"); i >= 0 {
			end = start + i
			nodes = append(nodes, domain.Node{Rule: "value", Start: start, End: start + len(strings.TrimRight(c.src[start:end], " \t"))})
			nodes = append(nodes, domain.Node{Rule: "line_comment", Start: end + 1, End: lineEnd})
		} else {
			nodes = append(nodes, domain.Node{Rule: "value", Start: start, End: start + len(strings.TrimRight(c.src[start:end], " \t"))})
		}
		c.off = lineEnd
	}
	return nodes, block, nil
}

func (g *yamlGrammar) skipBlanks(c *cursor, limit int) {
	for c.off < limit && (c.peek() == ' ' || c.peek() == '\t') {
		c.advance(1)
	}
}

// scanQuoted scans a single- or double-quoted scalar, which may span lines.
func (g *yamlGrammar) scanQuoted(c *cursor) (domain.Node, error) {
	start := c.off
	q := c.peek()
	c.advance(1)
	var children []domain.Node
	for {
		if c.eof() {
			return domain.Node{}, g.fail(start, "unterminated quoted scalar")
		}
		b := c.peek()
		if q == '\'' && b == '\'' {
			if c.peekAt(1) == '\'' {
				children = append(children, domain.Node{Rule: "escape", Start: c.off, End: c.off + 2})
				c.advance(2)
				continue
			}
			c.advance(1)
			break
		}
		if q == '"' && b == '"' {
			c.advance(1)
			break
		}
		if q == '"' && b == '\\' {
			escStart := c.off
			c.advance(1)
			if c.eof() {
				return domain.Node{}, g.fail(start, "unterminated quoted scalar")
			}
			scanEscapeBody(c)
			children = append(children, domain.Node{Rule: "escape", Start: escStart, End: c.off})
			continue
		}
		c.bumpRune()
	}
	return domain.Node{Rule: "string", Start: start, End: c.off, Children: children}, nil
}

// plainKeyEnd returns the index of the ':' ending a plain mapping key, or -1.
func plainKeyEnd(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '#':
			if i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
				return -1
			}
		case ':':
			if i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\t' {
				return i
			}
		}
	}
	return -1
}
