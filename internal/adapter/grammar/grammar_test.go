package grammar

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocorrect/internal/domain"
)

type production struct {
	Rule string
	Text string
}

// flatten lists productions depth-first with the text they cover.
func flatten(text string, nodes []domain.Node) []production {
	var out []production
	for _, n := range nodes {
		out = append(out, production{Rule: n.Rule, Text: text[n.Start:n.End]})
		out = append(out, flatten(text, n.Children)...)
	}
	return out
}

func parse(t *testing.T, lang, text string) []production {
	t.Helper()
	g, err := NewRegistry().Lookup(lang)
	require.NoError(t, err)
	nodes, err := g.Parse(text)
	require.NoError(t, err)
	return flatten(text, nodes)
}

func TestLexical_Java(t *testing.T) {
	src := "// 第1行注释\n" +
		"String s = \"第1个字符串string\";\n" +
		"String m = \"\"\"\n这是多行string里面包含\"双引号\"\n\"\"\";\n" +
		"char c = '\\n';\n"

	got := parse(t, "java", src)
	want := []production{
		{"line_comment", "// 第1行注释"},
		{"string", `"第1个字符串string"`},
		{"string", "\"\"\"\n这是多行string里面包含\"双引号\"\n\"\"\""},
		{"char", `'\n'`},
		{"escape", `\n`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}
}

func TestLexical_Languages(t *testing.T) {
	tests := []struct {
		name string
		lang string
		src  string
		want []production
	}{
		{
			name: "go raw string",
			lang: "go",
			src:  "x := `多行\n文本` // 注释",
			want: []production{{"string", "`多行\n文本`"}, {"line_comment", "// 注释"}},
		},
		{
			name: "go doc block",
			lang: "go",
			src:  "/** 文档 */ /**/",
			want: []production{{"doc_comment", "/** 文档 */"}, {"block_comment", "/**/"}},
		},
		{
			name: "rust nested comment and lifetime",
			lang: "rust",
			src:  "/* a /* b */ c */ fn f<'a>(x: &'a str) {}",
			want: []production{{"block_comment", "/* a /* b */ c */"}},
		},
		{
			name: "rust doc and raw string",
			lang: "rust",
			src:  "/// 文档\nlet s = r#\"原始\"#;",
			want: []production{{"doc_comment", "/// 文档"}, {"raw_string", `r#"原始"#`}},
		},
		{
			name: "python docstring and f-string",
			lang: "python",
			src:  "def f():\n    \"\"\"说明\"\"\"\n    return f\"值{x}个\"",
			want: []production{
				{"docstring", `"""说明"""`},
				{"string", `f"值{x}个"`},
				{"interpolation", "{x}"},
			},
		},
		{
			name: "python assigned triple quote is a string",
			lang: "python",
			src:  `s = """文本"""`,
			want: []production{{"string", `"""文本"""`}},
		},
		{
			name: "javascript template interpolation",
			lang: "js",
			src:  "const s = `共${n + \"个\"}项`;",
			want: []production{
				{"template", "`共${n + \"个\"}项`"},
				{"interpolation", "${n + \"个\"}"},
				{"string", `"个"`},
			},
		},
		{
			name: "javascript regex holding a quote",
			lang: "javascript",
			src:  `const re = /"/; // 注释a`,
			want: []production{{"regex", `/"/`}, {"line_comment", "// 注释a"}},
		},
		{
			name: "javascript regex class and flags",
			lang: "javascript",
			src:  `s.replace(/[/'"]+/g, '') // 替换`,
			want: []production{
				{"regex", `/[/'"]+/g`},
				{"string", "''"},
				{"line_comment", "// 替换"},
			},
		},
		{
			name: "javascript escaped slash in regex",
			lang: "javascript",
			src:  `if (/^a\/'/.test(p)) {}`,
			want: []production{{"regex", `/^a\/'/`}},
		},
		{
			name: "javascript division is code",
			lang: "javascript",
			src:  `const r = a / b + "个" / 2, i = n++ / 2; // 注`,
			want: []production{{"string", `"个"`}, {"line_comment", "// 注"}},
		},
		{
			name: "typescript regex after keyword",
			lang: "typescript",
			src:  "function f(s: string) {\n  return /'/.test(s) // 检查\n}",
			want: []production{{"regex", "/'/"}, {"line_comment", "// 检查"}},
		},
		{
			name: "ruby block comment",
			lang: "ruby",
			src:  "=begin\n说明\n=end\nputs \"#{a}中\"",
			want: []production{
				{"block_comment", "=begin\n说明\n=end"},
				{"string", `"#{a}中"`},
				{"interpolation", "#{a}"},
			},
		},
		{
			name: "shell hash inside word",
			lang: "shell",
			src:  "echo ${#arr} # 注释",
			want: []production{{"line_comment", "# 注释"}},
		},
		{
			name: "sql doubled quote",
			lang: "sql",
			src:  "SELECT 'it''s' -- 注释",
			want: []production{
				{"string", "'it''s'"},
				{"escape", "''"},
				{"line_comment", "-- 注释"},
			},
		},
		{
			name: "haskell prime is not a char",
			lang: "haskell",
			src:  "let x' = 'a' -- 注释",
			want: []production{{"char", "'a'"}, {"line_comment", "-- 注释"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.lang, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("productions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexical_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		src    string
		offset int
	}{
		{"unterminated block comment", "go", "x /* 没有结束", 2},
		{"unterminated string", "java", "s = \"abc\n\";", 4},
		{"unterminated interpolation", "javascript", "`${a", 4},
		{"nul byte", "go", "a\x00b", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewRegistry().Lookup(tt.lang)
			require.NoError(t, err)
			_, err = g.Parse(tt.src)
			var pe *domain.ParseError
			require.True(t, errors.As(err, &pe), "want ParseError, got %v", err)
			assert.Equal(t, tt.offset, pe.Offset)
		})
	}
}

func TestMarkdown(t *testing.T) {
	src := "---\ntitle: 标题\n---\n" +
		"# 标题\n\n" +
		"使用`code`和[链接](http://a.com)\n\n" +
		"```go\n// 注释\n```\n" +
		"访问 https://example.com/路径 <br>\n"

	got := parse(t, "markdown", src)
	want := []production{
		{"front_matter", "---\ntitle: 标题\n---"},
		{"value", "标题"},
		{"inline_code", "`code`"},
		{"link", "(http://a.com)"},
		{"code_block", "```go\n// 注释\n```"},
		{"link", "https://example.com/"},
		{"html", "<br>"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}
}

func TestHTML(t *testing.T) {
	src := `<p title="提示">你好&nbsp;世界</p><!-- 注释 --><script>// 脚本
var s = "字";</script>`

	got := parse(t, "html", src)
	want := []production{
		{"attr_value", "提示"},
		{"text", "你好&nbsp;世界"},
		{"entity", "&nbsp;"},
		{"block_comment", "<!-- 注释 -->"},
		{"embedded", "// 脚本\nvar s = \"字\";"},
		{"line_comment", "// 脚本"},
		{"string", `"字"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}

	_, err := NewHTML("html", nil, nil).Parse("<p>文本<!-- 没有结束")
	assert.Error(t, err)
}

func TestJSON_KeysAreCode(t *testing.T) {
	src := "{\n  // 注释\n  \"名称\": \"值1\",\n  \"list\": [\"第1项\"]\n}"

	got := parse(t, "json", src)
	want := []production{
		{"line_comment", "// 注释"},
		{"key", `"名称"`},
		{"string", `"值1"`},
		{"key", `"list"`},
		{"string", `"第1项"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}

	g := NewRegistry()
	kind := func(rule string) domain.SpanKind {
		j, _ := g.Lookup("json")
		return j.Kind(rule)
	}
	assert.Equal(t, domain.KindCode, kind("key"))
	assert.Equal(t, domain.KindStringLiteral, kind("string"))
}

func TestYAML(t *testing.T) {
	src := "# 注释\n" +
		"name: 第1个 # 尾注\n" +
		"list:\n  - 项目a\n  - &anchor \"引用\\n\"\n" +
		"desc: |\n  多行\n  文本\n" +
		"flow: [a, b]\n"

	got := parse(t, "yaml", src)
	want := []production{
		{"line_comment", "# 注释"},
		{"value", "第1个"},
		{"line_comment", "# 尾注"},
		{"value", "项目a"},
		{"string", `"引用\n"`},
		{"escape", `\n`},
		{"value", "多行"},
		{"value", "文本"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyValue(t *testing.T) {
	src := "# 注释\n[section]\nkey = 值a \\\n  续行\nother: 文本\n"

	got := parse(t, "properties", src)
	want := []production{
		{"line_comment", "# 注释"},
		{"value", "值a"},
		{"value", "续行"},
		{"value", "文本"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("productions mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	for _, tag := range []string{"go", "Go", "golang", "js", "TypeScript", "py", ".rs", "md", "yml", "html"} {
		g, err := r.Lookup(tag)
		require.NoError(t, err, tag)
		assert.NotNil(t, g, tag)
	}

	_, err := r.Lookup("brainfuck")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
	var ule *domain.UnsupportedLanguageError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "brainfuck", ule.Lang)
}

func TestRegistry_Detect(t *testing.T) {
	r := NewRegistry()
	tests := map[string]string{
		"main.go":            "go",
		"src/App.VUE":        "vue",
		"README.md":          "markdown",
		"Dockerfile":         "dockerfile",
		"build/Makefile":     "makefile",
		"conf/app.yml":       "yaml",
		"data.jsonc":         "json",
		"notes.txt":          "text",
		"setup.cfg":          "properties",
		"binary.exe":         "",
		"no_extension_at_al": "",
	}
	for path, want := range tests {
		assert.Equal(t, want, r.Detect(path), path)
	}
}

func TestRegistry_MapExtension(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.MapExtension("*.tpl", "html"))
	require.NoError(t, r.MapExtension("txt", "markdown"))
	assert.Equal(t, "html", r.Detect("views/index.tpl"))
	assert.Equal(t, "markdown", r.Detect("notes.txt"))

	err := r.MapExtension(".x", "cobol")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestRegistry_Languages(t *testing.T) {
	langs := NewRegistry().Languages()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].Name, langs[i].Name)
	}
	var goExts []string
	for _, l := range langs {
		if l.Name == "go" {
			goExts = l.Extensions
		}
	}
	assert.Equal(t, []string{".go"}, goExts)
}
