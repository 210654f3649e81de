package usecase

import (
	"autocorrect/internal/adapter/rules"
	"autocorrect/internal/domain"
	"autocorrect/internal/port"
)

// Pipeline runs segmentation, correction and diagnosis over one document.
// It is stateless and safe for concurrent use.
type Pipeline struct {
	segmenter *Segmenter
	corrector *Corrector
	engine    *rules.Engine
}

// NewPipeline creates a pipeline over a grammar registry and rule engine.
func NewPipeline(registry port.GrammarRegistry, engine *rules.Engine) *Pipeline {
	return &Pipeline{
		segmenter: NewSegmenter(registry),
		corrector: NewCorrector(engine),
		engine:    engine,
	}
}

// Language resolves the language tag used for doc.
func (p *Pipeline) Language(doc domain.SourceDocument) string {
	return p.segmenter.Language(doc)
}

// Fingerprint identifies the active rule configuration.
func (p *Pipeline) Fingerprint() string {
	return p.engine.Fingerprint()
}

// Format returns the corrected text of doc. On failure the result carries
// the error and the original text.
func (p *Pipeline) Format(doc domain.SourceDocument) domain.FormatResult {
	res, _ := p.run(doc)
	return res
}

// Lint is Format plus the diagnostics that locate every change.
func (p *Pipeline) Lint(doc domain.SourceDocument) domain.FormatResult {
	res, edits := p.run(doc)
	if res.Err == nil {
		res.Diagnostics = Diagnose(doc.Text, edits)
	}
	return res
}

func (p *Pipeline) run(doc domain.SourceDocument) (domain.FormatResult, []domain.Edit) {
	res := domain.FormatResult{
		Path: doc.Path,
		Lang: p.segmenter.Language(doc),
		Raw:  doc.Text,
		Text: doc.Text,
	}
	tree, err := p.segmenter.Segment(doc)
	if err != nil {
		res.Err = err
		return res, nil
	}
	text, edits := p.corrector.Correct(tree, doc.Text)
	res.Text = text
	return res, edits
}
