package grammar

import (
	"sort"
	"strings"

	"autocorrect/internal/domain"
)

// Delim is an open/close pair.
type Delim struct {
	Open  string
	Close string
	// Nested block comments count inner Open markers.
	Nested bool
	// LineStart restricts Open to column 0.
	LineStart bool
}

// StringDelim describes one literal form.
type StringDelim struct {
	Rule      string
	Open      string
	Close     string
	Escape    byte
	Multiline bool
	// Doubled treats two consecutive Close markers as an escaped Close.
	Doubled bool
	// Interp lists interpolation forms whose bodies are scanned as code.
	Interp []Delim
	// BraceEscapes treats "{{" and "}}" as escapes.
	BraceEscapes bool
	// Char literals hold one rune or one escape; anything else leaves the
	// opener as plain code.
	Char bool
	// Boundary requires Open not to follow an identifier byte.
	Boundary bool
	// DocAtLineStart renames the literal to "docstring" when it opens a line.
	DocAtLineStart bool
}

// Syntax is the lexical table of a language.
type Syntax struct {
	Name             string
	LineComments     []string
	DocLineComments  []string
	BlockComments    []Delim
	DocBlockComments []Delim
	Strings          []StringDelim
	// CommentBoundary makes line comments start only after blanks.
	CommentBoundary bool
	// RegexLiterals scans /pattern/flags literals where an operand may start.
	RegexLiterals bool
	Kinds           map[string]domain.SpanKind
}

type openerKind int

const (
	openLine openerKind = iota
	openDocLine
	openBlock
	openDocBlock
	openString
)

type opener struct {
	text  string
	kind  openerKind
	block Delim
	str   StringDelim
}

// lexicalGrammar scans comments and literals and leaves the rest as code.
type lexicalGrammar struct {
	syn     Syntax
	kinds   map[string]domain.SpanKind
	openers []opener
}

// NewLexical builds a grammar from a syntax table.
func NewLexical(syn Syntax) *lexicalGrammar {
	g := &lexicalGrammar{syn: syn, kinds: kindTable(syn.Kinds)}
	for _, s := range syn.DocLineComments {
		g.openers = append(g.openers, opener{text: s, kind: openDocLine})
	}
	for _, s := range syn.LineComments {
		g.openers = append(g.openers, opener{text: s, kind: openLine})
	}
	for _, d := range syn.DocBlockComments {
		g.openers = append(g.openers, opener{text: d.Open, kind: openDocBlock, block: d})
	}
	for _, d := range syn.BlockComments {
		g.openers = append(g.openers, opener{text: d.Open, kind: openBlock, block: d})
	}
	for _, d := range syn.Strings {
		g.openers = append(g.openers, opener{text: d.Open, kind: openString, str: d})
	}
	// longest opener wins; ties keep table order
	sort.SliceStable(g.openers, func(i, j int) bool {
		return len(g.openers[i].text) > len(g.openers[j].text)
	})
	return g
}

func (g *lexicalGrammar) Name() string { return g.syn.Name }

func (g *lexicalGrammar) RootKind() domain.SpanKind { return domain.KindCode }

func (g *lexicalGrammar) Kind(rule string) domain.SpanKind {
	return lookupKind(g.kinds, rule)
}

func (g *lexicalGrammar) Parse(text string) ([]domain.Node, error) {
	c := &cursor{src: text}
	return g.scanCode(c, 0, 0)
}

func (g *lexicalGrammar) fail(offset int, msg string) error {
	return &domain.ParseError{Lang: g.syn.Name, Offset: offset, Msg: msg}
}

// scanCode collects comment and literal nodes until EOF or, when until is
// set, until an unbalanced until byte. The until byte is not consumed.
func (g *lexicalGrammar) scanCode(c *cursor, until, open byte) ([]domain.Node, error) {
	var nodes []domain.Node
	depth := 0
	for !c.eof() {
		b := c.peek()
		if b == 0 {
			return nil, g.fail(c.off, "illegal NUL byte")
		}
		if until != 0 {
			if b == until {
				if depth == 0 {
					return nodes, nil
				}
				depth--
			} else if b == open {
				depth++
			}
		}
		node, ok, err := g.scanToken(c)
		if err != nil {
			return nil, err
		}
		if ok {
			nodes = append(nodes, node)
			continue
		}
		c.bumpRune()
	}
	if until != 0 {
		return nil, g.fail(c.off, "unterminated interpolation")
	}
	return nodes, nil
}

func (g *lexicalGrammar) scanToken(c *cursor) (domain.Node, bool, error) {
	for _, op := range g.openers {
		if !c.at(op.text) {
			continue
		}
		switch op.kind {
		case openLine, openDocLine:
			if g.syn.CommentBoundary && !c.prevIsSpace() {
				continue
			}
			rule := "line_comment"
			if op.kind == openDocLine {
				rule = "doc_comment"
			}
			start := c.off
			end := c.lineEnd()
			c.off = end
			if end == start {
				continue
			}
			return domain.Node{Rule: rule, Start: start, End: end}, true, nil

		case openBlock, openDocBlock:
			if op.block.LineStart && !c.atLineStart() {
				continue
			}
			// "/**/" is an empty plain comment, not a doc comment
			if op.kind == openDocBlock && c.at(op.text[:len(op.text)-1]+op.block.Close) {
				continue
			}
			rule := "block_comment"
			if op.kind == openDocBlock {
				rule = "doc_comment"
			}
			node, err := g.scanBlock(c, op.block, rule)
			return node, err == nil, err

		case openString:
			if op.str.Boundary && c.prevIsIdent() {
				continue
			}
			start := c.off
			node, ok, err := g.scanString(c, op.str)
			if err != nil {
				return domain.Node{}, false, err
			}
			if !ok {
				c.off = start
				continue
			}
			return node, true, nil
		}
	}
	if g.syn.RegexLiterals && c.peek() == '/' && c.regexAllowed() {
		start := c.off
		if scanRegex(c) {
			return domain.Node{Rule: "regex", Start: start, End: c.off}, true, nil
		}
		c.off = start
	}
	return domain.Node{}, false, nil
}

// scanRegex moves past a regular expression literal with its flags. It
// reports false when the literal does not close on its line; a lone slash
// is then a division.
func scanRegex(c *cursor) bool {
	c.advance(1)
	inClass := false
	for !c.eof() {
		switch c.peek() {
		case '\n', '\r', 0:
			return false
		case '\\':
			c.advance(1)
			if b := c.peek(); b == '\n' || b == '\r' || b == 0 {
				return false
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if inClass {
				break
			}
			c.advance(1)
			for b := c.peek(); (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'); b = c.peek() {
				c.advance(1)
			}
			return true
		}
		c.bumpRune()
	}
	return false
}

func (g *lexicalGrammar) scanBlock(c *cursor, d Delim, rule string) (domain.Node, error) {
	start := c.off
	c.advance(len(d.Open))
	depth := 1
	for !c.eof() {
		switch {
		case c.at(d.Close):
			c.advance(len(d.Close))
			depth--
			if depth == 0 || !d.Nested {
				return domain.Node{Rule: rule, Start: start, End: c.off}, nil
			}
		case d.Nested && c.at(d.Open):
			c.advance(len(d.Open))
			depth++
		case c.peek() == 0:
			return domain.Node{}, g.fail(c.off, "illegal NUL byte")
		default:
			c.bumpRune()
		}
	}
	return domain.Node{}, g.fail(start, "unterminated block comment")
}

// scanString scans one literal. ok is false when a char literal does not
// close; the caller then treats the opener as code.
func (g *lexicalGrammar) scanString(c *cursor, d StringDelim) (domain.Node, bool, error) {
	if d.Char {
		return g.scanChar(c, d)
	}
	start := c.off
	onlyIndent := c.onlyIndentBefore()
	c.advance(len(d.Open))
	var children []domain.Node
	for {
		if c.eof() {
			return domain.Node{}, false, g.fail(start, "unterminated string literal")
		}
		if c.at(d.Close) {
			if d.Doubled && strings.HasPrefix(c.src[c.off+len(d.Close):], d.Close) {
				children = append(children, domain.Node{Rule: "escape", Start: c.off, End: c.off + 2*len(d.Close)})
				c.advance(2 * len(d.Close))
				continue
			}
			c.advance(len(d.Close))
			break
		}
		b := c.peek()
		if b == '\n' && !d.Multiline {
			return domain.Node{}, false, g.fail(start, "unterminated string literal")
		}
		if b == 0 {
			return domain.Node{}, false, g.fail(c.off, "illegal NUL byte")
		}

		if node, ok, err := g.scanInterp(c, d); err != nil {
			return domain.Node{}, false, err
		} else if ok {
			children = append(children, node)
			continue
		}
		if d.BraceEscapes && (c.at("{{") || c.at("}}")) {
			children = append(children, domain.Node{Rule: "escape", Start: c.off, End: c.off + 2})
			c.advance(2)
			continue
		}
		if d.Escape != 0 && b == d.Escape {
			escStart := c.off
			c.advance(1)
			if c.eof() {
				return domain.Node{}, false, g.fail(start, "unterminated string literal")
			}
			scanEscapeBody(c)
			children = append(children, domain.Node{Rule: "escape", Start: escStart, End: c.off})
			continue
		}
		c.bumpRune()
	}

	rule := d.Rule
	if rule == "" {
		rule = "string"
	}
	if d.DocAtLineStart && onlyIndent {
		rule = "docstring"
	}
	return domain.Node{Rule: rule, Start: start, End: c.off, Children: children}, true, nil
}

func (g *lexicalGrammar) scanChar(c *cursor, d StringDelim) (domain.Node, bool, error) {
	start := c.off
	c.advance(len(d.Open))
	if c.eof() || c.peek() == '\n' || c.peek() == 0 || c.at(d.Close) {
		return domain.Node{}, false, nil
	}
	var children []domain.Node
	if d.Escape != 0 && c.peek() == d.Escape {
		c.advance(1)
		if c.eof() {
			return domain.Node{}, false, nil
		}
		scanEscapeBody(c)
		children = append(children, domain.Node{Rule: "escape", Start: start + len(d.Open), End: c.off})
	} else {
		c.bumpRune()
	}
	if !c.at(d.Close) {
		return domain.Node{}, false, nil
	}
	c.advance(len(d.Close))
	rule := d.Rule
	if rule == "" {
		rule = "char"
	}
	return domain.Node{Rule: rule, Start: start, End: c.off, Children: children}, true, nil
}

func (g *lexicalGrammar) scanInterp(c *cursor, d StringDelim) (domain.Node, bool, error) {
	for _, in := range d.Interp {
		if !c.at(in.Open) {
			continue
		}
		if d.BraceEscapes && in.Open == "{" && c.at("{{") {
			return domain.Node{}, false, nil
		}
		start := c.off
		c.advance(len(in.Open))
		closeByte := in.Close[len(in.Close)-1]
		openByte := in.Open[len(in.Open)-1]
		inner, err := g.scanCode(c, closeByte, openByte)
		if err != nil {
			return domain.Node{}, false, err
		}
		c.advance(len(in.Close))
		return domain.Node{Rule: "interpolation", Start: start, End: c.off, Children: inner}, true, nil
	}
	return domain.Node{}, false, nil
}

// scanEscapeBody consumes what follows an escape character.
func scanEscapeBody(c *cursor) {
	switch c.peek() {
	case 'u':
		c.advance(1)
		if c.peek() == '{' {
			for !c.eof() && c.peek() != '}' && c.peek() != '\n' {
				c.advance(1)
			}
			if c.peek() == '}' {
				c.advance(1)
			}
			return
		}
		scanHex(c, 4)
	case 'U':
		c.advance(1)
		scanHex(c, 8)
	case 'x':
		c.advance(1)
		scanHex(c, 2)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		for i := 0; i < 3 && c.peek() >= '0' && c.peek() <= '7'; i++ {
			c.advance(1)
		}
	case '\r':
		c.advance(1)
		if c.peek() == '\n' {
			c.advance(1)
		}
	default:
		c.bumpRune()
	}
}

func scanHex(c *cursor, max int) {
	for i := 0; i < max && isHex(c.peek()); i++ {
		c.advance(1)
	}
}
