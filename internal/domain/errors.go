package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is matched by UnsupportedLanguageError via errors.Is.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// UnsupportedLanguageError is returned when no grammar is registered for a tag.
type UnsupportedLanguageError struct {
	Lang string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Lang)
}

func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// ParseError reports a byte range a grammar could not tokenize.
// Line and Column are filled in by the segmenter.
type ParseError struct {
	Lang   string
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: parse error at %d:%d: %s", e.Lang, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("%s: parse error at offset %d: %s", e.Lang, e.Offset, e.Msg)
}
