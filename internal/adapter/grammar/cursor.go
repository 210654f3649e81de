package grammar

import (
	"strings"
	"unicode/utf8"
)

// cursor is a byte position in the text being scanned.
type cursor struct {
	src string
	off int
}

func (c *cursor) eof() bool {
	return c.off >= len(c.src)
}

// peek returns the current byte or 0 at EOF.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peekAt returns the byte n positions ahead or 0.
func (c *cursor) peekAt(n int) byte {
	if c.off+n >= len(c.src) {
		return 0
	}
	return c.src[c.off+n]
}

func (c *cursor) at(s string) bool {
	return strings.HasPrefix(c.src[c.off:], s)
}

func (c *cursor) advance(n int) {
	c.off += n
	if c.off > len(c.src) {
		c.off = len(c.src)
	}
}

// bumpRune moves past one UTF-8 sequence.
func (c *cursor) bumpRune() {
	if c.eof() {
		return
	}
	if c.src[c.off] < utf8.RuneSelf {
		c.off++
		return
	}
	_, size := utf8.DecodeRuneInString(c.src[c.off:])
	c.off += size
}

// skipLine moves to the next '\n' without consuming it.
func (c *cursor) skipLine() {
	if i := strings.IndexByte(c.src[c.off:], '\n'); i >= 0 {
		c.off += i
		return
	}
	c.off = len(c.src)
}

// lineEnd returns the offset of the end of the current line, excluding a
// trailing "\r".
func (c *cursor) lineEnd() int {
	end := len(c.src)
	if i := strings.IndexByte(c.src[c.off:], '\n'); i >= 0 {
		end = c.off + i
	}
	if end > c.off && c.src[end-1] == '\r' {
		end--
	}
	return end
}

func (c *cursor) atLineStart() bool {
	return c.off == 0 || c.src[c.off-1] == '\n'
}

// onlyIndentBefore reports whether the current line holds nothing but
// blanks before the cursor.
func (c *cursor) onlyIndentBefore() bool {
	for i := c.off - 1; i >= 0; i-- {
		switch c.src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// prevIsIdent reports whether the byte before the cursor can be part of an
// identifier.
func (c *cursor) prevIsIdent() bool {
	if c.off == 0 {
		return false
	}
	return isIdentByte(c.src[c.off-1])
}

// prevIsSpace reports whether the cursor is at line start or after a blank.
func (c *cursor) prevIsSpace() bool {
	if c.off == 0 {
		return true
	}
	switch c.src[c.off-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// regexKeywords may be followed by an operand.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// regexAllowed reports whether a '/' at the cursor can open a regular
// expression literal rather than divide.
func (c *cursor) regexAllowed() bool {
	i := c.off - 1
	for i >= 0 && strings.IndexByte(" \t\r\n", c.src[i]) >= 0 {
		i--
	}
	if i < 0 {
		return true
	}
	b := c.src[i]
	switch {
	case (b == '+' || b == '-') && i > 0 && c.src[i-1] == b:
		// a++ / 2
		return false
	case b == '/' && i > 0 && c.src[i-1] == '*':
		return true
	case strings.IndexByte("(,=:[!&|?{};+-*%<>~^", b) >= 0:
		return true
	case !isIdentByte(b):
		return false
	}
	j := i
	for j >= 0 && isIdentByte(c.src[j]) {
		j--
	}
	if j >= 0 && c.src[j] == '.' {
		return false
	}
	return regexKeywords[c.src[j+1:i+1]]
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= utf8.RuneSelf ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
