package domain

import (
	"sort"
	"unicode/utf8"
)

// LineIndex maps byte offsets to 1-based line and rune column.
type LineIndex struct {
	text   string
	starts []int
}

// NewLineIndex records the start offset of every line in text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// Position returns the line and column of offset.
func (li *LineIndex) Position(offset int) (line, col int) {
	if offset > len(li.text) {
		offset = len(li.text)
	}
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	return i + 1, utf8.RuneCountInString(li.text[li.starts[i]:offset]) + 1
}
