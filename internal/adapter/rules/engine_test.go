package rules

import (
	"testing"

	"autocorrect/internal/domain"
)

func TestEngine_Correct(t *testing.T) {
	e := NewEngine(DefaultTable())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cjk then digit", "第1行", "第 1 行"},
		{"cjk then letter", "多行string里面", "多行 string 里面"},
		{"already spaced", "第 1 行", "第 1 行"},
		{"tab counts as space", "第\t1\t行", "第\t1\t行"},
		{"quotes untouched", `包含"双引号"`, `包含"双引号"`},
		{"ascii only", "Begin at the beginning, the King said.", "Begin at the beginning, the King said."},
		{"cjk only", "这是中文注释", "这是中文注释"},
		{"version number", "使用v1.2版本", "使用 v1.2 版本"},
		{"comma between cjk", "你好,世界", "你好，世界"},
		{"period at end", "这是句子.", "这是句子。"},
		{"period before newline", "结束.\n下一行", "结束。\n下一行"},
		{"punct before latin stays", "文件.txt", "文件.txt"},
		{"ellipsis stays", "等等...", "等等..."},
		{"fullwidth digits", "第１行", "第 1 行"},
		{"fullwidth letters", "ＡＢＣ中文", "ABC 中文"},
		{"japanese", "これはtestです", "これは test です"},
		{"korean", "한국어test", "한국어 test"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Correct(tt.input)
			if got != tt.want {
				t.Errorf("Correct(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := NewEngine(DefaultTable())
	inputs := []string{
		"第1行注释",
		"你好,world",
		"中文,English,中文",
		"第１个ＡＰＩ调用",
		"100%中文",
		"a中b文c",
		"版本v2.0.1发布了!",
		"混合text和123数字.",
	}
	for _, in := range inputs {
		once := e.Correct(in)
		twice := e.Correct(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestEngine_DisabledRules(t *testing.T) {
	e := NewEngine(DefaultTable(), RuleHalfwidth, RuleFullwidth)

	if got := e.Correct("第１行"); got != "第 １ 行" {
		t.Errorf("full-width digit should still get spacing, got %q", got)
	}
	if got := e.Correct("你好,世界"); got != "你好,世界" {
		t.Errorf("fullwidth disabled, got %q", got)
	}

	e = NewEngine(DefaultTable(), RuleSpaceWord)
	if got := e.Correct("中文abc123中文"); got != "中文abc123 中文" {
		t.Errorf("space-word disabled, got %q", got)
	}
}

func TestEngine_ApplyOffsets(t *testing.T) {
	e := NewEngine(DefaultTable())

	edits := e.Apply("第１行", 10)
	want := []domain.Edit{
		{Offset: 13, End: 13, Replacement: " ", RuleID: RuleSpaceNumber},
		{Offset: 13, End: 16, Replacement: "1", RuleID: RuleHalfwidth},
		{Offset: 16, End: 16, Replacement: " ", RuleID: RuleSpaceNumber},
	}
	if len(edits) != len(want) {
		t.Fatalf("expected %d edits, got %d: %+v", len(want), len(edits), edits)
	}
	for i := range want {
		if edits[i] != want[i] {
			t.Errorf("edit %d = %+v, want %+v", i, edits[i], want[i])
		}
	}
}

func TestEngine_Fingerprint(t *testing.T) {
	all := NewEngine(DefaultTable())
	some := NewEngine(DefaultTable(), RuleFullwidth)

	if all.Fingerprint() == some.Fingerprint() {
		t.Error("fingerprint should change when a rule is disabled")
	}
	if some.Enabled(RuleFullwidth) {
		t.Error("fullwidth should be disabled")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		want Class
	}{
		{'中', ClassCJK},
		{'か', ClassCJK},
		{'カ', ClassCJK},
		{'ー', ClassCJK},
		{'한', ClassCJK},
		{'a', ClassLetter},
		{'Ｚ', ClassLetter},
		{'7', ClassDigit},
		{'７', ClassDigit},
		{'，', ClassCJKPunct},
		{'。', ClassCJKPunct},
		{',', ClassASCIIPunct},
		{'%', ClassASCIIPunct},
		{'"', ClassQuote},
		{'“', ClassQuote},
		{' ', ClassSpace},
		{'　', ClassSpace},
		{'é', ClassOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}
