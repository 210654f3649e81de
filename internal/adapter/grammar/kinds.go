package grammar

import "autocorrect/internal/domain"

// defaultKinds maps the production names shared by all grammars.
var defaultKinds = map[string]domain.SpanKind{
	"line_comment":  domain.KindComment,
	"block_comment": domain.KindComment,
	"doc_comment":   domain.KindDocComment,
	"docstring":     domain.KindDocComment,
	"string":        domain.KindStringLiteral,
	"raw_string":    domain.KindStringLiteral,
	"char":          domain.KindStringLiteral,
	"template":      domain.KindStringLiteral,
	"value":         domain.KindPlainText,
	"text":          domain.KindPlainText,
	"markup":        domain.KindMarkup,
	"escape":        domain.KindCode,
	"regex":         domain.KindCode,
	"interpolation": domain.KindCode,
	"key":           domain.KindCode,
	"code_block":    domain.KindCode,
	"inline_code":   domain.KindCode,
	"link":          domain.KindCode,
	"html":          domain.KindCode,
	"entity":        domain.KindCode,
	"front_matter":  domain.KindCode,
	"embedded":      domain.KindCode,
}

func kindTable(overrides map[string]domain.SpanKind) map[string]domain.SpanKind {
	table := make(map[string]domain.SpanKind, len(defaultKinds)+len(overrides))
	for k, v := range defaultKinds {
		table[k] = v
	}
	for k, v := range overrides {
		table[k] = v
	}
	return table
}

// lookupKind falls back to Code so unknown productions are never rewritten.
func lookupKind(table map[string]domain.SpanKind, rule string) domain.SpanKind {
	if k, ok := table[rule]; ok {
		return k
	}
	return domain.KindCode
}
