package cli

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"autocorrect/internal/usecase"
)

// progressReporter draws a bar on terminals. Off a terminal it stays
// silent. A nil reporter is valid and does nothing.
type progressReporter struct {
	bar    *progressbar.ProgressBar
	desc   string
	failed int
}

func newProgress(w io.Writer, total int, mode usecase.Mode) *progressReporter {
	if !isTerminal(w) || total == 0 {
		return nil
	}
	desc := "[cyan]Linting[reset]"
	if mode == usecase.ModeFix {
		desc = "[cyan]Fixing[reset]"
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &progressReporter{bar: bar, desc: desc}
}

// Observe advances the bar. It runs on the dispatcher's aggregator, one
// call at a time.
func (p *progressReporter) Observe(r usecase.FileReport) {
	if p == nil {
		return
	}
	if r.Failed() || len(r.Result.Diagnostics) > 0 {
		p.failed++
		p.bar.Describe(fmt.Sprintf("%s [red]%d with issues[reset]", p.desc, p.failed))
	}
	_ = p.bar.Add(1)
}

func (p *progressReporter) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
