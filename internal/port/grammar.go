package port

import "autocorrect/internal/domain"

// Grammar is a permissive, lexical description of one language.
type Grammar interface {
	// Name returns the language tag.
	Name() string

	// Parse splits text into rule-named productions. Text outside any
	// production belongs to the root. A ParseError is returned when a
	// literal or comment cannot be tokenized.
	Parse(text string) ([]domain.Node, error)

	// Kind maps a production rule name to a span kind.
	Kind(rule string) domain.SpanKind

	// RootKind is the kind of text not covered by any production.
	RootKind() domain.SpanKind
}

// GrammarRegistry resolves grammars by language tag or file path.
type GrammarRegistry interface {
	Lookup(lang string) (Grammar, error)

	Detect(path string) string
}
