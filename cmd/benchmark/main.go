package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"autocorrect/config"
	"autocorrect/internal/adapter/fs"
	"autocorrect/internal/adapter/grammar"
	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
	"autocorrect/internal/usecase"
)

type langStats struct {
	files       int
	bytes       int64
	diagnostics int
	errors      int
	elapsed     time.Duration
}

func main() {
	dir := flag.String("dir", ".", "Directory to benchmark")
	rounds := flag.Int("n", 5, "Number of lint passes over every file")
	flag.Parse()

	if *rounds <= 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./testdata -n 5")
		os.Exit(1)
	}

	cfg, _, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	registry := grammar.NewRegistry()
	engine := rules.NewEngine(registry.Rules(), cfg.DisabledRules()...)
	pipeline := usecase.NewPipeline(registry, engine)

	ignorer, err := fs.NewIgnorer(*dir, cfg.Files.Excludes...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ignore files: %v\n", err)
		os.Exit(1)
	}
	files, err := fs.NewWalker(*dir, cfg.Files.Includes, ignorer).Walk(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking %s: %v\n", *dir, err)
		os.Exit(1)
	}

	fmt.Println("AUTOCORRECT LINT BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	stats := make(map[string]*langStats)
	var total langStats
	for _, f := range files {
		lang := registry.Detect(f.Path)
		if lang == "" {
			continue
		}
		text, err := fs.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", f.Path, err)
			continue
		}

		doc := domain.SourceDocument{Path: f.Path, Text: text, Lang: lang}
		var res domain.FormatResult
		start := time.Now()
		for i := 0; i < *rounds; i++ {
			res = pipeline.Lint(doc)
		}
		elapsed := time.Since(start) / time.Duration(*rounds)

		s := stats[lang]
		if s == nil {
			s = &langStats{}
			stats[lang] = s
		}
		for _, acc := range []*langStats{s, &total} {
			acc.files++
			acc.bytes += int64(len(text))
			acc.diagnostics += len(res.Diagnostics)
			acc.elapsed += elapsed
			if res.Errored() {
				acc.errors++
			}
		}
	}

	if total.files == 0 {
		fmt.Println("No supported files found.")
		return
	}

	langs := make([]string, 0, len(stats))
	for lang := range stats {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return stats[langs[i]].elapsed > stats[langs[j]].elapsed })

	fmt.Printf("%-14s %6s %10s %8s %6s %10s %10s\n", "LANG", "FILES", "BYTES", "ISSUES", "ERRORS", "TIME", "MB/s")
	fmt.Println(strings.Repeat("-", 70))
	for _, lang := range langs {
		printRow(lang, stats[lang])
	}
	fmt.Println(strings.Repeat("=", 70))
	printRow("total", &total)
}

func printRow(name string, s *langStats) {
	throughput := 0.0
	if s.elapsed > 0 {
		throughput = float64(s.bytes) / s.elapsed.Seconds() / (1 << 20)
	}
	fmt.Printf("%-14s %6d %10d %8d %6d %10s %10.2f\n",
		name, s.files, s.bytes, s.diagnostics, s.errors, s.elapsed.Round(time.Microsecond), throughput)
}
