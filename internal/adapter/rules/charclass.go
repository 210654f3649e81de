package rules

import "unicode"

// Class is the character class a boundary rule looks at.
type Class int

const (
	ClassOther Class = iota
	ClassCJK
	ClassLetter
	ClassDigit
	ClassCJKPunct
	ClassASCIIPunct
	ClassQuote
	ClassSpace
)

var cjkTables = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Bopomofo,
}

// IsCJK reports whether r is a CJK ideograph, kana, hangul or bopomofo.
func IsCJK(r rune) bool {
	if r < 0x2E80 {
		return false
	}
	// prolonged sound mark is Common script but behaves like kana
	if r == 'ー' {
		return true
	}
	return unicode.IsOneOf(cjkTables, r)
}

func isFullwidthDigit(r rune) bool {
	return r >= '０' && r <= '９'
}

func isFullwidthLetter(r rune) bool {
	return (r >= 'Ａ' && r <= 'Ｚ') || (r >= 'ａ' && r <= 'ｚ')
}

// Classify returns the class of r. Full-width digits and letters fall in
// the digit and letter classes.
func Classify(r rune) Class {
	switch {
	case r >= '0' && r <= '9', isFullwidthDigit(r):
		return ClassDigit
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'), isFullwidthLetter(r):
		return ClassLetter
	case r == '"' || r == '\'' || r == '`' || r == '“' || r == '”' || r == '‘' || r == '’' ||
		r == '「' || r == '」' || r == '『' || r == '』':
		return ClassQuote
	case unicode.IsSpace(r):
		return ClassSpace
	case IsCJK(r):
		return ClassCJK
	case r < 0x80 && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
		return ClassASCIIPunct
	case unicode.IsPunct(r) && (r >= 0x3000 && r <= 0x303F || r >= 0xFF00 && r <= 0xFFEF):
		return ClassCJKPunct
	default:
		return ClassOther
	}
}
