package grammar

import "autocorrect/internal/domain"

var (
	cBlock    = Delim{Open: "/*", Close: "*/"}
	cDocBlock = Delim{Open: "/**", Close: "*/"}
	nestBlock = Delim{Open: "/*", Close: "*/", Nested: true}
	nestDoc   = Delim{Open: "/**", Close: "*/", Nested: true}

	dquote  = StringDelim{Open: `"`, Close: `"`, Escape: '\\'}
	squote  = StringDelim{Open: `'`, Close: `'`, Escape: '\\'}
	charLit = StringDelim{Open: `'`, Close: `'`, Escape: '\\', Char: true}

	dollarBrace = []Delim{{Open: "${", Close: "}"}}
	hashBrace   = []Delim{{Open: "#{", Close: "}"}}
)

func withInterp(d StringDelim, interp []Delim) StringDelim {
	d.Interp = interp
	return d
}

func multiline(open, close string, escape byte) StringDelim {
	return StringDelim{Open: open, Close: close, Escape: escape, Multiline: true}
}

// cLike is the table shared by the curly-brace family.
func cLike(name string, strings ...StringDelim) Syntax {
	return Syntax{
		Name:             name,
		LineComments:     []string{"//"},
		BlockComments:    []Delim{cBlock},
		DocBlockComments: []Delim{cDocBlock},
		Strings:          strings,
	}
}

func pythonStrings() []StringDelim {
	var out []StringDelim
	quotes := []struct {
		q     string
		multi bool
	}{{`"""`, true}, {`'''`, true}, {`"`, false}, {`'`, false}}
	prefixes := []string{"", "r", "u", "b", "f", "rb", "br", "fr", "rf", "R", "U", "B", "F", "Rb", "bR", "Fr", "rF", "RF", "FR", "RB", "BR"}
	for _, p := range prefixes {
		fstring := false
		for _, ch := range p {
			if ch == 'f' || ch == 'F' {
				fstring = true
			}
		}
		for _, q := range quotes {
			d := StringDelim{
				Open:      p + q.q,
				Close:     q.q,
				Escape:    '\\',
				Multiline: q.multi,
				Boundary:  p != "",
			}
			if fstring {
				d.Interp = []Delim{{Open: "{", Close: "}"}}
				d.BraceEscapes = true
			}
			if q.multi && p == "" {
				d.DocAtLineStart = true
			}
			out = append(out, d)
		}
	}
	return out
}

func rustStrings() []StringDelim {
	out := []StringDelim{
		multiline(`"`, `"`, '\\'),
		{Open: `b"`, Close: `"`, Escape: '\\', Multiline: true, Boundary: true},
		{Open: `r"`, Close: `"`, Multiline: true, Boundary: true, Rule: "raw_string"},
		{Open: `br"`, Close: `"`, Multiline: true, Boundary: true, Rule: "raw_string"},
		{Open: `b'`, Close: `'`, Escape: '\\', Char: true, Boundary: true},
		charLit,
	}
	hashes := "#"
	for i := 0; i < 3; i++ {
		out = append(out, StringDelim{Open: "r" + hashes + `"`, Close: `"` + hashes, Multiline: true, Boundary: true, Rule: "raw_string"})
		hashes += "#"
	}
	return out
}

type syntaxEntry struct {
	syn  Syntax
	exts []string
}

// builtinSyntaxes returns the lexical tables and the extensions they claim.
func builtinSyntaxes() []syntaxEntry {
	var out []syntaxEntry
	add := func(syn Syntax, exts ...string) {
		out = append(out, syntaxEntry{syn: syn, exts: exts})
	}

	add(cLike("go", dquote, multiline("`", "`", 0), charLit), ".go")

	java := cLike("java", multiline(`"""`, `"""`, '\\'), dquote, charLit)
	add(java, ".java")

	kotlin := cLike("kotlin",
		withInterp(multiline(`"""`, `"""`, 0), dollarBrace),
		withInterp(dquote, dollarBrace),
		charLit)
	kotlin.BlockComments = []Delim{nestBlock}
	kotlin.DocBlockComments = []Delim{nestDoc}
	add(kotlin, ".kt", ".kts")

	scala := cLike("scala", multiline(`"""`, `"""`, 0), dquote, charLit)
	scala.BlockComments = []Delim{nestBlock}
	scala.DocBlockComments = []Delim{nestDoc}
	add(scala, ".scala", ".sc")

	groovy := cLike("groovy",
		withInterp(multiline(`"""`, `"""`, '\\'), dollarBrace),
		multiline(`'''`, `'''`, '\\'),
		withInterp(dquote, dollarBrace),
		squote)
	add(groovy, ".groovy", ".gradle")

	swiftInterp := []Delim{{Open: `\(`, Close: ")"}}
	swift := cLike("swift",
		withInterp(multiline(`"""`, `"""`, '\\'), swiftInterp),
		withInterp(dquote, swiftInterp))
	swift.DocLineComments = []string{"///"}
	swift.BlockComments = []Delim{nestBlock}
	swift.DocBlockComments = []Delim{nestDoc}
	add(swift, ".swift")

	dart := cLike("dart",
		withInterp(multiline(`"""`, `"""`, '\\'), dollarBrace),
		withInterp(multiline(`'''`, `'''`, '\\'), dollarBrace),
		StringDelim{Open: `r"`, Close: `"`, Boundary: true, Rule: "raw_string"},
		StringDelim{Open: `r'`, Close: `'`, Boundary: true, Rule: "raw_string"},
		withInterp(dquote, dollarBrace),
		withInterp(squote, dollarBrace))
	dart.DocLineComments = []string{"///"}
	dart.BlockComments = []Delim{nestBlock}
	dart.DocBlockComments = []Delim{nestDoc}
	add(dart, ".dart")

	add(cLike("c", dquote, charLit), ".c", ".h")
	add(cLike("cpp",
		StringDelim{Open: `R"(`, Close: `)"`, Multiline: true, Boundary: true, Rule: "raw_string"},
		dquote, charLit), ".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx")
	add(cLike("objective_c", StringDelim{Open: `@"`, Close: `"`, Escape: '\\'}, dquote, charLit), ".m", ".mm")

	csharp := cLike("csharp",
		multiline(`"""`, `"""`, 0),
		StringDelim{Open: `$@"`, Close: `"`, Multiline: true, Doubled: true, Interp: []Delim{{Open: "{", Close: "}"}}, BraceEscapes: true},
		StringDelim{Open: `@$"`, Close: `"`, Multiline: true, Doubled: true, Interp: []Delim{{Open: "{", Close: "}"}}, BraceEscapes: true},
		StringDelim{Open: `@"`, Close: `"`, Multiline: true, Doubled: true, Rule: "raw_string"},
		StringDelim{Open: `$"`, Close: `"`, Escape: '\\', Interp: []Delim{{Open: "{", Close: "}"}}, BraceEscapes: true},
		dquote, charLit)
	csharp.DocLineComments = []string{"///"}
	add(csharp, ".cs")

	rust := cLike("rust", rustStrings()...)
	rust.DocLineComments = []string{"///", "//!"}
	rust.BlockComments = []Delim{nestBlock}
	rust.DocBlockComments = []Delim{nestDoc, {Open: "/*!", Close: "*/", Nested: true}}
	add(rust, ".rs")

	js := func(name string) Syntax {
		syn := cLike(name,
			StringDelim{Open: "`", Close: "`", Escape: '\\', Multiline: true, Interp: dollarBrace, Rule: "template"},
			dquote, squote)
		syn.RegexLiterals = true
		return syn
	}
	add(js("javascript"), ".js", ".jsx", ".mjs", ".cjs")
	add(js("typescript"), ".ts", ".tsx", ".mts", ".cts")

	php := cLike("php", dquote, squote)
	php.LineComments = []string{"//", "#"}
	add(php, ".php")

	css := Syntax{
		Name:          "css",
		BlockComments: []Delim{cBlock},
		Strings:       []StringDelim{dquote, squote},
	}
	add(css, ".css")
	scss := css
	scss.Name = "scss"
	scss.LineComments = []string{"//"}
	add(scss, ".scss", ".less", ".sass")

	add(Syntax{
		Name:            "zig",
		LineComments:    []string{"//"},
		DocLineComments: []string{"///", "//!"},
		Strings:         []StringDelim{dquote, charLit},
	}, ".zig")

	add(Syntax{Name: "python", LineComments: []string{"#"}, Strings: pythonStrings()}, ".py", ".pyi")

	add(Syntax{
		Name:          "ruby",
		LineComments:  []string{"#"},
		BlockComments: []Delim{{Open: "=begin", Close: "=end", LineStart: true}},
		Strings:       []StringDelim{withInterp(multiline(`"`, `"`, '\\'), hashBrace), multiline(`'`, `'`, '\\')},
	}, ".rb", ".rake", ".gemspec")

	add(Syntax{
		Name:            "shell",
		LineComments:    []string{"#"},
		CommentBoundary: true,
		Strings: []StringDelim{
			withInterp(multiline(`"`, `"`, '\\'), []Delim{{Open: "$(", Close: ")"}, {Open: "${", Close: "}"}}),
			multiline(`'`, `'`, 0),
		},
	}, ".sh", ".bash", ".zsh", ".fish")

	add(Syntax{
		Name:            "perl",
		LineComments:    []string{"#"},
		CommentBoundary: true,
		Strings:         []StringDelim{multiline(`"`, `"`, '\\'), multiline(`'`, `'`, '\\')},
	}, ".pl", ".pm")

	add(Syntax{
		Name:         "r",
		LineComments: []string{"#"},
		Strings:      []StringDelim{multiline(`"`, `"`, '\\'), multiline(`'`, `'`, '\\')},
	}, ".r", ".R")

	add(Syntax{
		Name:         "elixir",
		LineComments: []string{"#"},
		Strings: []StringDelim{
			withInterp(StringDelim{Open: `"""`, Close: `"""`, Escape: '\\', Multiline: true, DocAtLineStart: true}, hashBrace),
			withInterp(multiline(`"`, `"`, '\\'), hashBrace),
			squote,
		},
	}, ".ex", ".exs")

	add(Syntax{
		Name:         "toml",
		LineComments: []string{"#"},
		Strings: []StringDelim{
			multiline(`"""`, `"""`, '\\'),
			multiline(`'''`, `'''`, 0),
			dquote,
			{Open: `'`, Close: `'`},
		},
	}, ".toml")

	add(Syntax{
		Name:         "gettext",
		LineComments: []string{"#"},
		Strings:      []StringDelim{dquote},
	}, ".po", ".pot")

	add(Syntax{
		Name:            "dockerfile",
		LineComments:    []string{"#"},
		CommentBoundary: true,
		Strings:         []StringDelim{dquote},
	})

	add(Syntax{
		Name:            "makefile",
		LineComments:    []string{"#"},
		CommentBoundary: true,
	}, ".mk")

	add(Syntax{
		Name:          "sql",
		LineComments:  []string{"--"},
		BlockComments: []Delim{cBlock},
		Strings: []StringDelim{
			{Open: `'`, Close: `'`, Escape: '\\', Doubled: true, Multiline: true},
			{Open: `"`, Close: `"`, Doubled: true, Rule: "quoted_ident"},
			{Open: "`", Close: "`", Rule: "quoted_ident"},
		},
		Kinds: map[string]domain.SpanKind{"quoted_ident": domain.KindCode},
	}, ".sql")

	add(Syntax{
		Name:          "lua",
		LineComments:  []string{"--"},
		BlockComments: []Delim{{Open: "--[[", Close: "]]"}, {Open: "--[==[", Close: "]==]"}},
		Strings:       []StringDelim{multiline("[[", "]]", 0), dquote, squote},
	}, ".lua")

	haskell := Syntax{
		Name:             "haskell",
		LineComments:     []string{"--"},
		DocLineComments:  []string{"-- |", "-- ^"},
		BlockComments:    []Delim{{Open: "{-", Close: "-}", Nested: true}},
		DocBlockComments: []Delim{{Open: "{-|", Close: "-}", Nested: true}},
		Strings:          []StringDelim{dquote, {Open: `'`, Close: `'`, Escape: '\\', Char: true, Boundary: true}},
	}
	add(haskell, ".hs")
	elm := haskell
	elm.Name = "elm"
	add(elm, ".elm")

	return out
}
