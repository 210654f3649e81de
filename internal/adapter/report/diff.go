package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"

	"autocorrect/internal/domain"
)

// Renderer writes lint results in one output format.
type Renderer interface {
	Render(w io.Writer, results []domain.FormatResult) error
}

// New returns the renderer for format ("diff" or "json").
func New(format string, colored bool) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "diff":
		return NewDiffRenderer(colored), nil
	case "json":
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected diff or json)", format)
	}
}

// DiffRenderer prints unified hunks with one line of context and a caret
// line under every removed line that carries diagnostics.
type DiffRenderer struct {
	header *color.Color
	hunk   *color.Color
	del    *color.Color
	add    *color.Color
	caret  *color.Color
	errc   *color.Color
}

// NewDiffRenderer creates a renderer. Colors are written only when colored
// is true, whatever the destination.
func NewDiffRenderer(colored bool) *DiffRenderer {
	r := &DiffRenderer{
		header: color.New(color.Bold),
		hunk:   color.New(color.FgCyan),
		del:    color.New(color.FgRed),
		add:    color.New(color.FgGreen),
		caret:  color.New(color.FgYellow, color.Bold),
		errc:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{r.header, r.hunk, r.del, r.add, r.caret, r.errc} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *DiffRenderer) Render(w io.Writer, results []domain.FormatResult) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		if !res.Errored() && len(res.Diagnostics) == 0 {
			continue
		}
		r.renderOne(bw, res)
	}
	return bw.Flush()
}

func (r *DiffRenderer) renderOne(w io.Writer, res domain.FormatResult) {
	r.header.Fprintf(w, "--> %s\n", res.Path)
	if res.Errored() {
		r.errc.Fprintf(w, "error: %s\n\n", res.ErrorMessage())
		return
	}

	byLine := make(map[int][]domain.Diagnostic)
	for _, d := range res.Diagnostics {
		byLine[d.Line] = append(byLine[d.Line], d)
	}

	a := difflib.SplitLines(res.Raw)
	b := difflib.SplitLines(res.Text)
	m := difflib.NewMatcher(a, b)
	for _, group := range m.GetGroupedOpCodes(1) {
		first, last := group[0], group[len(group)-1]
		r.hunk.Fprintf(w, "@@ -%s +%s @@\n",
			unifiedRange(first.I1, last.I2), unifiedRange(first.J1, last.J2))
		for _, op := range group {
			if op.Tag == 'e' {
				for _, line := range a[op.I1:op.I2] {
					fmt.Fprintf(w, " %s\n", trimEOL(line))
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for i := op.I1; i < op.I2; i++ {
					line := trimEOL(a[i])
					r.del.Fprintf(w, "-%s\n", line)
					if marks := carets(line, byLine[i+1]); marks != "" {
						r.caret.Fprintf(w, " %s\n", marks)
					}
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, line := range b[op.J1:op.J2] {
					r.add.Fprintf(w, "+%s\n", trimEOL(line))
				}
			}
		}
	}
	fmt.Fprintln(w)
}

// unifiedRange formats a zero-based half-open line range the way unified
// diff headers do.
func unifiedRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// carets marks the columns of diags under line, aligned by display width.
// Tabs in the padding are kept so terminals expand them the same way.
func carets(line string, diags []domain.Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := append([]domain.Diagnostic(nil), diags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Column < sorted[j].Column })

	runes := []rune(line)
	var b strings.Builder
	col := 1
	for _, d := range sorted {
		// overlapping windows extend the previous run of carets
		if d.Column < col && d.EndColumn <= col {
			continue
		}
		for ; col < d.Column && col <= len(runes); col++ {
			if r := runes[col-1]; r == '\t' {
				b.WriteByte('\t')
			} else {
				b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
			}
		}
		end := d.EndColumn
		if end > len(runes)+1 {
			end = len(runes) + 1
		}
		width := 0
		for ; col < end; col++ {
			width += runewidth.RuneWidth(runes[col-1])
		}
		if width == 0 {
			width = 1
		}
		b.WriteString(strings.Repeat("^", width))
	}
	return strings.TrimRight(b.String(), " \t")
}
