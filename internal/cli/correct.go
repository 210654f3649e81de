package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autocorrect/internal/adapter/cache"
	"autocorrect/internal/adapter/fs"
	"autocorrect/internal/adapter/grammar"
	"autocorrect/internal/adapter/report"
	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
	"autocorrect/internal/port"
	"autocorrect/internal/usecase"
)

var (
	lintFlag   bool
	fixFlag    bool
	fileType   string
	formatFlag string
	jobsFlag   int
	noCache    bool
	clearCache bool
)

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&lintFlag, "lint", false, "lint and output problems")
	f.BoolVar(&fixFlag, "fix", false, "automatically fix problems and rewrite files")
	f.StringVar(&fileType, "type", "", "use this language for every file")
	f.StringVar(&formatFlag, "format", "", "output format for --lint: diff or json (default from config)")
	f.IntVarP(&jobsFlag, "jobs", "j", 0, "files processed in parallel (default from config, then number of CPUs)")
	f.BoolVar(&noCache, "no-cache", false, "do not read or write the lint cache")
	f.BoolVar(&clearCache, "clear-cache", false, "empty the lint cache before running")
}

func runCorrect(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := GetConfig()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	mode := usecase.ModeFormat
	switch {
	case fixFlag:
		mode = usecase.ModeFix
	case lintFlag:
		mode = usecase.ModeLint
	}

	format := cfg.Format
	if cmd.Flags().Changed("format") {
		format = formatFlag
	}
	renderer, err := report.New(format, useColor(stderr))
	if err != nil {
		return err
	}
	jobs := cfg.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = jobsFlag
	}

	// Build the grammar registry and rule engine
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	if fileType != "" {
		if _, err := registry.Lookup(fileType); err != nil {
			return fmt.Errorf("unsupported --type: %w", err)
		}
	}
	engine := rules.NewEngine(registry.Rules(), cfg.DisabledRules()...)
	pipeline := usecase.NewPipeline(registry, engine)

	// Collect files
	paths := args
	if len(paths) == 0 {
		paths = []string{GetRootDir()}
	}
	ignorer, err := fs.NewIgnorer(GetRootDir(), cfg.Files.Excludes...)
	if err != nil {
		return fmt.Errorf("failed to load ignore files: %w", err)
	}
	var walker port.FileWalker = fs.NewWalker(GetRootDir(), cfg.Files.Includes, ignorer)
	infos, err := walker.Collect(paths)
	if err != nil {
		return err
	}
	files := make([]string, 0, len(infos))
	for _, info := range infos {
		files = append(files, info.Path)
	}

	var lintCache port.LintCache
	useCache := mode == usecase.ModeLint && cfg.Cache.Enabled && !noCache
	if useCache || clearCache {
		c, err := cache.OpenLintCache(cfg.CachePath(GetRootDir()))
		if err != nil {
			// a locked or unreadable cache only costs speed
			logger.Warn("lint cache disabled", zap.Error(err))
		} else {
			defer c.Close()
			if clearCache {
				n := c.Len()
				if err := c.Clear(); err != nil {
					return fmt.Errorf("failed to clear lint cache: %w", err)
				}
				logger.Debug("lint cache cleared", zap.Int("entries", n))
			}
			if useCache {
				lintCache = c
			}
		}
	}

	var progress *progressReporter
	if mode != usecase.ModeFormat {
		progress = newProgress(stderr, len(files), mode)
	}

	dispatcher := usecase.NewDispatcher(pipeline, fs.OS{}, fs.OS{}, lintCache, logger, usecase.DispatchOptions{
		Mode:     mode,
		Jobs:     jobs,
		Lang:     fileType,
		Progress: progress.Observe,
	})
	summary := dispatcher.Run(context.Background(), files)
	progress.Finish()

	logger.Debug("files processed",
		zap.Int("files", summary.Files),
		zap.Int("skipped", summary.Skipped),
		zap.Int("cached", summary.Cached),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch mode {
	case usecase.ModeFormat:
		return writeFormatted(stdout, summary)
	case usecase.ModeFix:
		fmt.Fprintln(stdout, "Done.")
		fmt.Fprintf(stdout, "AutoCorrect spend time %dms\n", time.Since(start).Milliseconds())
		if ioFailures(summary) > 0 {
			return &ExitError{Code: 1}
		}
		return nil
	}

	logger.Debug("lint finished", zap.Int("issues", summary.Diagnostics), zap.Int("errors", summary.Errors))
	results := lintResults(summary)
	if _, ok := renderer.(report.JSONRenderer); ok {
		if err := renderer.Render(stdout, results); err != nil {
			return err
		}
	} else {
		if err := renderer.Render(stderr, results); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "AutoCorrect spend time %dms\n", time.Since(start).Milliseconds())
	}
	if summary.Diagnostics > 0 || summary.Errors > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// newRegistry returns the built-in registry extended with the configured
// file types.
func newRegistry() (*grammar.Registry, error) {
	registry := grammar.NewRegistry()
	for pattern, lang := range GetConfig().FileTypes {
		if err := registry.MapExtension(pattern, lang); err != nil {
			return nil, fmt.Errorf("invalid file_types entry %q: %w", pattern, err)
		}
	}
	return registry, nil
}

// lintResults turns reports into renderable results, keeping read and
// write failures as errored results.
func lintResults(summary usecase.RunSummary) []domain.FormatResult {
	results := make([]domain.FormatResult, 0, len(summary.Reports))
	for _, r := range summary.Reports {
		if r.Skipped {
			continue
		}
		res := r.Result
		if r.Err != nil {
			res = domain.FormatResult{Path: r.Path, Err: r.Err}
		}
		res.Path = displayPath(r.Path)
		results = append(results, res)
	}
	return results
}

func writeFormatted(w io.Writer, summary usecase.RunSummary) error {
	for _, r := range summary.Reports {
		if r.Skipped || r.Err != nil {
			continue
		}
		// errored results carry the original text
		if _, err := io.WriteString(w, r.Result.Text); err != nil {
			return err
		}
	}
	if ioFailures(summary) > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// ioFailures counts files that could not be read or written. Parse errors
// are not failures outside lint mode.
func ioFailures(summary usecase.RunSummary) int {
	n := 0
	for _, r := range summary.Reports {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// displayPath shortens paths under the working directory.
func displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
