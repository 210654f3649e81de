package grammar

import (
	"strings"

	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// humanAttrs are attributes whose values are read by people.
var humanAttrs = map[string]bool{
	"title":       true,
	"alt":         true,
	"placeholder": true,
	"aria-label":  true,
	"label":       true,
	"content":     true,
}

// htmlGrammar handles HTML-like markup: tags are code, text between tags is
// prose, and <script>/<style> bodies are handed to embedded grammars.
type htmlGrammar struct {
	name   string
	script port.Grammar
	style  port.Grammar
}

// NewHTML builds a markup grammar. script and style may be nil, in which
// case those bodies stay opaque.
func NewHTML(name string, script, style port.Grammar) *htmlGrammar {
	return &htmlGrammar{name: name, script: script, style: style}
}

func (g *htmlGrammar) Name() string { return g.name }

func (g *htmlGrammar) RootKind() domain.SpanKind { return domain.KindCode }

func (g *htmlGrammar) Kind(rule string) domain.SpanKind {
	if rule == "attr_value" {
		return domain.KindPlainText
	}
	return lookupKind(defaultKinds, rule)
}

func (g *htmlGrammar) fail(offset int, msg string) error {
	return &domain.ParseError{Lang: g.name, Offset: offset, Msg: msg}
}

func (g *htmlGrammar) Parse(text string) ([]domain.Node, error) {
	var nodes []domain.Node
	c := &cursor{src: text}
	for !c.eof() {
		switch {
		case c.peek() == 0:
			return nil, g.fail(c.off, "illegal NUL byte")
		case c.at("<!--"):
			start := c.off
			end := strings.Index(text[start+4:], "-->")
			if end < 0 {
				return nil, g.fail(start, "unterminated comment")
			}
			c.off = start + 4 + end + 3
			nodes = append(nodes, domain.Node{Rule: "block_comment", Start: start, End: c.off})
		case c.at("<![CDATA["):
			start := c.off + len("<![CDATA[")
			end := strings.Index(text[start:], "]]>")
			if end < 0 {
				return nil, g.fail(c.off, "unterminated CDATA section")
			}
			if end > 0 {
				nodes = append(nodes, domain.Node{Rule: "text", Start: start, End: start + end})
			}
			c.off = start + end + 3
		case c.at("<!") || c.at("<?"):
			end := strings.IndexByte(text[c.off:], '>')
			if end < 0 {
				c.off = len(text)
			} else {
				c.off += end + 1
			}
		case c.peek() == '<' && isTagStart(c.peekAt(1)):
			tagNodes, err := g.scanTag(c)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, tagNodes...)
		default:
			nodes = append(nodes, g.scanText(c)...)
		}
	}
	return nodes, nil
}

// scanText consumes character data up to the next tag. Entities become
// code children.
func (g *htmlGrammar) scanText(c *cursor) []domain.Node {
	start := c.off
	var entities []domain.Node
	for !c.eof() {
		b := c.peek()
		if c.off > start && b == '<' && (isTagStart(c.peekAt(1)) || c.peekAt(1) == '!' || c.peekAt(1) == '?') {
			break
		}
		if b == 0 {
			break
		}
		if b == '&' {
			if n := entityLen(c.src[c.off:]); n > 0 {
				entities = append(entities, domain.Node{Rule: "entity", Start: c.off, End: c.off + n})
				c.advance(n)
				continue
			}
		}
		c.bumpRune()
	}
	if strings.TrimSpace(c.src[start:c.off]) == "" {
		return nil
	}
	return []domain.Node{{Rule: "text", Start: start, End: c.off, Children: entities}}
}

func entityLen(s string) int {
	for i := 1; i < len(s) && i < 12; i++ {
		b := s[i]
		if b == ';' {
			if i == 1 {
				return 0
			}
			return i + 1
		}
		if !(isIdentByte(b) && b < 0x80) && b != '#' {
			return 0
		}
	}
	return 0
}

// scanTag consumes one tag and, for script and style, the element body.
func (g *htmlGrammar) scanTag(c *cursor) ([]domain.Node, error) {
	start := c.off
	c.advance(1)
	closing := c.peek() == '/'
	if closing {
		c.advance(1)
	}
	nameStart := c.off
	for !c.eof() && (isIdentByte(c.peek()) || c.peek() == '-' || c.peek() == ':') {
		c.advance(1)
	}
	name := strings.ToLower(c.src[nameStart:c.off])

	var nodes []domain.Node
	for {
		if c.eof() {
			return nil, g.fail(start, "unterminated tag")
		}
		b := c.peek()
		if b == '>' {
			c.advance(1)
			break
		}
		if b == '"' || b == '\'' {
			attr := attrNameBefore(c.src[start:c.off])
			qStart := c.off
			end := strings.IndexByte(c.src[qStart+1:], b)
			if end < 0 {
				return nil, g.fail(qStart, "unterminated attribute value")
			}
			c.off = qStart + 1 + end + 1
			if humanAttrs[attr] && end > 0 {
				nodes = append(nodes, domain.Node{Rule: "attr_value", Start: qStart + 1, End: qStart + 1 + end})
			}
			continue
		}
		c.bumpRune()
	}

	if closing || strings.HasSuffix(c.src[start:c.off], "/>") {
		return nodes, nil
	}
	var embedded port.Grammar
	switch name {
	case "script":
		embedded = g.script
	case "style":
		embedded = g.style
	case "pre", "code":
	default:
		return nodes, nil
	}

	bodyStart := c.off
	closeTag := "</" + name
	end := indexFold(c.src[bodyStart:], closeTag)
	bodyEnd := len(c.src)
	if end >= 0 {
		bodyEnd = bodyStart + end
	}
	c.off = bodyEnd
	if bodyEnd == bodyStart {
		return nodes, nil
	}
	body := domain.Node{Rule: "embedded", Start: bodyStart, End: bodyEnd}
	if embedded != nil {
		children, err := embedded.Parse(c.src[bodyStart:bodyEnd])
		if err != nil {
			return nil, shiftError(err, bodyStart)
		}
		body.Children = shiftNodes(children, bodyStart)
	}
	return append(nodes, body), nil
}

// attrNameBefore returns the attribute name preceding "=" at the end of s.
func attrNameBefore(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if !strings.HasSuffix(s, "=") {
		return ""
	}
	s = strings.TrimRight(s[:len(s)-1], " \t\r\n")
	i := len(s)
	for i > 0 && (isIdentByte(s[i-1]) || s[i-1] == '-' || s[i-1] == ':') {
		i--
	}
	return strings.ToLower(s[i:])
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
