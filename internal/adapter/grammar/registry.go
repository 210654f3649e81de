package grammar

import (
	"path/filepath"
	"sort"
	"strings"

	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// Language describes a registered grammar for listing.
type Language struct {
	Name       string
	Extensions []string
}

// Registry maps language tags, aliases and file names to grammars.
type Registry struct {
	grammars   map[string]port.Grammar
	aliases    map[string]string
	extensions map[string]string
	filenames  map[string]string
	rules      []domain.Rule
}

var defaultAliases = map[string]string{
	"js":     "javascript",
	"jsx":    "javascript",
	"ts":     "typescript",
	"tsx":    "typescript",
	"py":     "python",
	"rb":     "ruby",
	"md":     "markdown",
	"yml":    "yaml",
	"sh":     "shell",
	"bash":   "shell",
	"zsh":    "shell",
	"c++":    "cpp",
	"cs":     "csharp",
	"c#":     "csharp",
	"kt":     "kotlin",
	"rs":     "rust",
	"golang": "go",
	"htm":    "html",
	"objc":   "objective_c",
	"txt":    "text",
	"plain":  "text",
	"ini":    "properties",
	"jsonc":  "json",
}

var defaultFilenames = map[string]string{
	"dockerfile":  "dockerfile",
	"makefile":    "makefile",
	"gnumakefile": "makefile",
	"gemfile":     "ruby",
	"rakefile":    "ruby",
}

// NewRegistry returns a registry holding every built-in grammar.
func NewRegistry() *Registry {
	r := &Registry{
		grammars:   make(map[string]port.Grammar),
		aliases:    make(map[string]string, len(defaultAliases)),
		extensions: make(map[string]string),
		filenames:  make(map[string]string, len(defaultFilenames)),
		rules:      rules.DefaultTable(),
	}
	for k, v := range defaultAliases {
		r.aliases[k] = v
	}
	for k, v := range defaultFilenames {
		r.filenames[k] = v
	}

	for _, e := range builtinSyntaxes() {
		r.Register(NewLexical(e.syn), e.exts...)
	}
	js, _ := r.Lookup("javascript")
	css, _ := r.Lookup("css")
	yaml := NewYAML()

	r.Register(NewHTML("html", js, css), ".html", ".htm", ".xhtml")
	r.Register(NewHTML("vue", js, css), ".vue")
	r.Register(NewHTML("svelte", js, css), ".svelte")
	r.Register(NewHTML("xml", nil, nil), ".xml", ".svg", ".plist")
	r.Register(NewMarkdown(yaml), ".md", ".markdown", ".mdx")
	r.Register(NewJSON(), ".json", ".jsonc", ".json5")
	r.Register(yaml, ".yaml", ".yml")
	r.Register(NewKeyValue("properties", "#;!"), ".properties", ".ini", ".cfg")
	r.Register(NewText(), ".txt", ".text")
	return r
}

// Register adds g under its name and claims the given extensions.
func (r *Registry) Register(g port.Grammar, exts ...string) {
	name := strings.ToLower(g.Name())
	r.grammars[name] = g
	for _, ext := range exts {
		r.extensions[strings.ToLower(ext)] = name
	}
}

// MapExtension points ext at an already registered language, overriding
// the built-in mapping. It must be called before the registry is shared.
func (r *Registry) MapExtension(ext, lang string) error {
	g, err := r.Lookup(lang)
	if err != nil {
		return err
	}
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "*"))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.extensions[ext] = strings.ToLower(g.Name())
	return nil
}

// Lookup resolves a language tag. Tags are matched case-insensitively and
// may be an alias or a bare extension.
func (r *Registry) Lookup(lang string) (port.Grammar, error) {
	tag := strings.ToLower(strings.TrimSpace(lang))
	if g, ok := r.grammars[tag]; ok {
		return g, nil
	}
	if name, ok := r.aliases[tag]; ok {
		if g, ok := r.grammars[name]; ok {
			return g, nil
		}
	}
	ext := tag
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if name, ok := r.extensions[ext]; ok {
		return r.grammars[name], nil
	}
	return nil, &domain.UnsupportedLanguageError{Lang: lang}
}

// Detect returns the language tag for path, or "" when none applies.
func (r *Registry) Detect(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if name, ok := r.filenames[base]; ok {
		return name
	}
	if strings.HasPrefix(base, "dockerfile.") || strings.HasSuffix(base, ".dockerfile") {
		return "dockerfile"
	}
	if name, ok := r.extensions[filepath.Ext(base)]; ok {
		return name
	}
	return ""
}

// Languages lists registered grammars sorted by name.
func (r *Registry) Languages() []Language {
	byName := make(map[string][]string, len(r.grammars))
	for ext, name := range r.extensions {
		byName[name] = append(byName[name], ext)
	}
	out := make([]Language, 0, len(r.grammars))
	for name := range r.grammars {
		exts := byName[name]
		sort.Strings(exts)
		out = append(out, Language{Name: name, Extensions: exts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Rules returns the canonical correction rule table.
func (r *Registry) Rules() []domain.Rule {
	return append([]domain.Rule(nil), r.rules...)
}
