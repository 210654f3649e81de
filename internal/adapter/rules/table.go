package rules

import "autocorrect/internal/domain"

// Rule identifiers of the canonical table.
const (
	RuleHalfwidth   = "halfwidth"
	RuleFullwidth   = "fullwidth"
	RuleSpaceWord   = "space-word"
	RuleSpaceNumber = "space-number"
)

// DefaultTable returns the canonical rule table in application order.
func DefaultTable() []domain.Rule {
	return []domain.Rule{
		{
			ID:          RuleHalfwidth,
			Description: "Convert full-width letters and digits to half-width",
			Action:      domain.ActionToHalfwidth,
		},
		{
			ID:          RuleFullwidth,
			Description: "Use full-width , . ! ? ; : between CJK text",
			Action:      domain.ActionToFullwidth,
		},
		{
			ID:          RuleSpaceWord,
			Description: "Add a space between CJK and Latin letters",
			Action:      domain.ActionInsertSpace,
		},
		{
			ID:          RuleSpaceNumber,
			Description: "Add a space between CJK and digits",
			Action:      domain.ActionInsertSpace,
		},
	}
}

// fullwidthPunct maps ASCII punctuation to the form used in CJK prose.
var fullwidthPunct = map[rune]rune{
	',': '，',
	'.': '。',
	'!': '！',
	'?': '？',
	';': '；',
	':': '：',
}
