package grammar

import (
	"strings"

	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// markdownGrammar keeps prose correctable and marks code blocks, inline
// code, link destinations, raw HTML and URLs as code.
type markdownGrammar struct {
	frontMatter port.Grammar
}

// NewMarkdown builds the markdown grammar. frontMatter parses a leading
// "---" block; nil leaves front matter as opaque code.
func NewMarkdown(frontMatter port.Grammar) *markdownGrammar {
	return &markdownGrammar{frontMatter: frontMatter}
}

func (g *markdownGrammar) Name() string { return "markdown" }

func (g *markdownGrammar) RootKind() domain.SpanKind { return domain.KindMarkup }

func (g *markdownGrammar) Kind(rule string) domain.SpanKind { return lookupKind(defaultKinds, rule) }

func (g *markdownGrammar) Parse(text string) ([]domain.Node, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return nil, &domain.ParseError{Lang: g.Name(), Offset: i, Msg: "illegal NUL byte"}
	}

	var nodes []domain.Node
	c := &cursor{src: text}

	if node, ok, err := g.scanFrontMatter(c); err != nil {
		return nil, err
	} else if ok {
		nodes = append(nodes, node)
	}

	prevBlank := true
	inIndented := false
	for !c.eof() {
		if c.atLineStart() {
			lineStart := c.off
			lineEnd := c.lineEnd()
			line := text[lineStart:lineEnd]
			blank := strings.TrimSpace(line) == ""

			if node, ok := scanFence(c); ok {
				nodes = append(nodes, node)
				prevBlank, inIndented = false, false
				continue
			}
			if !blank && (prevBlank || inIndented) && (strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")) {
				nodes = append(nodes, domain.Node{Rule: "code_block", Start: lineStart, End: lineEnd})
				c.off = lineEnd
				c.skipLine()
				inIndented = true
				prevBlank = false
				continue
			}
			if !blank {
				inIndented = false
			}
			prevBlank = blank
			if node, ok := scanReferenceDefinition(c, lineEnd); ok {
				nodes = append(nodes, node)
				continue
			}
		}

		lineEnd := c.lineEnd()
		inline := g.scanInline(c, lineEnd)
		nodes = append(nodes, inline...)
		if c.off >= lineEnd {
			c.skipLine()
			if !c.eof() {
				c.advance(1)
			}
		}
	}
	return nodes, nil
}

func (g *markdownGrammar) scanFrontMatter(c *cursor) (domain.Node, bool, error) {
	text := c.src
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return domain.Node{}, false, nil
	}
	bodyStart := strings.IndexByte(text, '\n') + 1
	pos := bodyStart
	for pos < len(text) {
		end := strings.IndexByte(text[pos:], '\n')
		lineEnd := len(text)
		if end >= 0 {
			lineEnd = pos + end
		}
		if strings.TrimRight(text[pos:lineEnd], "\r") == "---" {
			node := domain.Node{Rule: "front_matter", Start: 0, End: lineEnd}
			if g.frontMatter != nil {
				children, err := g.frontMatter.Parse(text[bodyStart:pos])
				if err != nil {
					return domain.Node{}, false, shiftError(err, bodyStart)
				}
				node.Children = shiftNodes(children, bodyStart)
			}
			c.off = lineEnd
			return node, true, nil
		}
		if end < 0 {
			break
		}
		pos = lineEnd + 1
	}
	return domain.Node{}, false, nil
}

// scanFence consumes a ``` or ~~~ block starting at the cursor's line. An
// unclosed fence runs to the end of the document.
func scanFence(c *cursor) (domain.Node, bool) {
	start := c.off
	p := start
	for i := 0; i < 3 && p < len(c.src) && c.src[p] == ' '; i++ {
		p++
	}
	if p >= len(c.src) || (c.src[p] != '`' && c.src[p] != '~') {
		return domain.Node{}, false
	}
	fence := c.src[p]
	n := 0
	for p+n < len(c.src) && c.src[p+n] == fence {
		n++
	}
	if n < 3 {
		return domain.Node{}, false
	}
	marker := strings.Repeat(string(fence), n)

	c.off = p
	c.skipLine()
	for !c.eof() {
		c.advance(1)
		lineStart := c.off
		lineEnd := c.lineEnd()
		trimmed := strings.TrimSpace(c.src[lineStart:lineEnd])
		if strings.HasPrefix(trimmed, marker) && strings.Trim(trimmed, string(fence)) == "" {
			c.off = lineEnd
			return domain.Node{Rule: "code_block", Start: start, End: lineEnd}, true
		}
		c.skipLine()
	}
	return domain.Node{Rule: "code_block", Start: start, End: len(c.src)}, true
}

// scanReferenceDefinition marks the destination of "[label]: url".
func scanReferenceDefinition(c *cursor, lineEnd int) (domain.Node, bool) {
	line := c.src[c.off:lineEnd]
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "[") {
		return domain.Node{}, false
	}
	idx := strings.Index(trimmed, "]:")
	if idx < 0 {
		return domain.Node{}, false
	}
	start := c.off + (len(line) - len(trimmed)) + idx + 2
	for start < lineEnd && (c.src[start] == ' ' || c.src[start] == '\t') {
		start++
	}
	if start >= lineEnd {
		return domain.Node{}, false
	}
	c.off = lineEnd
	return domain.Node{Rule: "link", Start: start, End: lineEnd}, true
}

// scanInline scans from the cursor to lineEnd. HTML comments may carry the
// cursor past lineEnd.
func (g *markdownGrammar) scanInline(c *cursor, lineEnd int) []domain.Node {
	var nodes []domain.Node
	for c.off < lineEnd {
		switch b := c.peek(); {
		case b == '\\' && c.off+1 < lineEnd:
			c.advance(1)
			c.bumpRune()
		case b == '`':
			if node, ok := scanInlineCode(c); ok {
				nodes = append(nodes, node)
				if c.off > lineEnd {
					lineEnd = c.lineEnd()
				}
				continue
			}
			for c.peek() == '`' {
				c.advance(1)
			}
		case c.at("<!--"):
			start := c.off
			end := strings.Index(c.src[start+4:], "-->")
			if end < 0 {
				c.off = len(c.src)
			} else {
				c.off = start + 4 + end + 3
			}
			nodes = append(nodes, domain.Node{Rule: "block_comment", Start: start, End: c.off})
			lineEnd = c.lineEnd()
		case b == '<' && isTagStart(c.peekAt(1)):
			start := c.off
			end := strings.IndexByte(c.src[start:lineEnd], '>')
			if end < 0 {
				c.advance(1)
				continue
			}
			c.off = start + end + 1
			nodes = append(nodes, domain.Node{Rule: "html", Start: start, End: c.off})
		case b == ']' && c.peekAt(1) == '(':
			start := c.off + 1
			end := matchParen(c.src[start:lineEnd])
			if end < 0 {
				c.advance(2)
				continue
			}
			c.off = start + end + 1
			nodes = append(nodes, domain.Node{Rule: "link", Start: start, End: c.off})
		case b == 'h' && (c.at("http://") || c.at("https://")):
			start := c.off
			for c.off < lineEnd && isURLByte(c.peek()) {
				c.advance(1)
			}
			nodes = append(nodes, domain.Node{Rule: "link", Start: start, End: c.off})
		default:
			c.bumpRune()
		}
	}
	return nodes
}

// scanInlineCode matches a backtick run with a closing run of equal length
// inside the same paragraph.
func scanInlineCode(c *cursor) (domain.Node, bool) {
	start := c.off
	n := 0
	for c.peekAt(n) == '`' {
		n++
	}
	marker := strings.Repeat("`", n)
	limit := len(c.src)
	if i := strings.Index(c.src[start:], "\n\n"); i >= 0 {
		limit = start + i
	}
	pos := start + n
	for pos < limit {
		i := strings.Index(c.src[pos:limit], marker)
		if i < 0 {
			return domain.Node{}, false
		}
		end := pos + i
		if end+n < len(c.src) && c.src[end+n] == '`' {
			// longer run, keep looking past it
			pos = end + n
			for pos < limit && c.src[pos] == '`' {
				pos++
			}
			continue
		}
		c.off = end + n
		return domain.Node{Rule: "inline_code", Start: start, End: c.off}, true
	}
	return domain.Node{}, false
}

func matchParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isTagStart(b byte) bool {
	return b == '/' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isURLByte(b byte) bool {
	if b <= ' ' || b >= 0x7f {
		return false
	}
	switch b {
	case '<', '>', '"', ')', '(', '`':
		return false
	}
	return true
}
