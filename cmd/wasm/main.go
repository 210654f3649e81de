//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"autocorrect/internal/adapter/cache"
	"autocorrect/internal/adapter/grammar"
	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
	"autocorrect/internal/usecase"
)

var (
	registry *grammar.Registry
	engine   *rules.Engine
	pipeline *usecase.Pipeline
	results  *cache.ResultCache
)

func init() {
	registry = grammar.NewRegistry()
	engine = rules.NewEngine(registry.Rules())
	pipeline = usecase.NewPipeline(registry, engine)
	results = cache.NewResultCache(16, 10*time.Minute)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("autocorrectFormat", js.FuncOf(formatText))
	js.Global().Set("autocorrectLint", js.FuncOf(lintText))
	js.Global().Set("autocorrectSetRules", js.FuncOf(setRules))
	js.Global().Set("autocorrectLanguages", js.FuncOf(languages))

	<-c
}

// formatText(text, lang) returns {"out", "error"}.
func formatText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: autocorrectFormat(text, lang)")
	}
	res := lint(args[0].String(), args[1].String())
	return makeResult(map[string]interface{}{
		"out":   res.Text,
		"error": res.ErrorMessage(),
	})
}

// lintText(text, lang) returns {"lines", "error"} with the same line
// objects the CLI prints in JSON mode.
func lintText(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: autocorrectLint(text, lang)")
	}
	res := lint(args[0].String(), args[1].String())
	lines := res.Diagnostics
	if lines == nil {
		lines = []domain.Diagnostic{}
	}
	return makeResult(map[string]interface{}{
		"out":   res.Text,
		"lines": lines,
		"error": res.ErrorMessage(),
	})
}

// setRules(json) takes {"rule-id": 0|1|2}; rules set to 0 are disabled.
func setRules(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: autocorrectSetRules(json)")
	}
	var severities map[string]int
	if err := json.Unmarshal([]byte(args[0].String()), &severities); err != nil {
		return makeError("invalid rules: " + err.Error())
	}
	var disabled []string
	for id, v := range severities {
		if v == 0 {
			disabled = append(disabled, id)
		}
	}
	engine = rules.NewEngine(registry.Rules(), disabled...)
	pipeline = usecase.NewPipeline(registry, engine)
	results.Invalidate()
	return makeResult(map[string]interface{}{
		"success": true,
		"rules":   engine.Fingerprint(),
	})
}

func languages(this js.Value, args []js.Value) interface{} {
	langs := registry.Languages()
	out := make([]map[string]interface{}, 0, len(langs))
	for _, l := range langs {
		out = append(out, map[string]interface{}{
			"name":       l.Name,
			"extensions": l.Extensions,
		})
	}
	return makeResult(map[string]interface{}{
		"languages": out,
	})
}

// lint runs a lint pass, which also carries the formatted text. Format
// and lint calls on an unchanged buffer share the cached pass.
func lint(text, lang string) domain.FormatResult {
	rules := pipeline.Fingerprint()
	if res, ok := results.Get(lang, rules, text); ok {
		return res
	}
	res := pipeline.Lint(domain.SourceDocument{Text: text, Lang: lang})
	results.Put(lang, rules, text, res)
	return res
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
