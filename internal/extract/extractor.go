package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/scontrinosmart/receipt-extractor/internal/tagging"
)

// Extractor turns OCR text into an ExtractedReceipt. It is immutable after New
// and safe for concurrent use as long as its Tagger is.
type Extractor struct {
	tagger  tagging.Tagger
	rules   Rules
	totalRE *regexp.Regexp
	noise   map[string]struct{}
}

// Option configures an Extractor
type Option func(*Extractor)

// WithRules replaces the default rule tables
func WithRules(r Rules) Option {
	return func(e *Extractor) {
		e.rules = r
	}
}

// New creates an Extractor. A nil tagger disables line-item extraction.
func New(tagger tagging.Tagger, opts ...Option) (*Extractor, error) {
	if tagger == nil {
		tagger = tagging.Nop{}
	}

	e := &Extractor{
		tagger: tagger,
		rules:  DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = e.rules.withDefaults()

	totalRE, err := compileTotalPattern(e.rules.TotalKeywords)
	if err != nil {
		return nil, fmt.Errorf("building total finder: %w", err)
	}
	e.totalRE = totalRE

	e.noise = make(map[string]struct{}, len(e.rules.NoiseTokens))
	for _, n := range e.rules.NoiseTokens {
		if n = strings.ToUpper(strings.TrimSpace(n)); n != "" {
			e.noise[n] = struct{}{}
		}
	}

	return e, nil
}

// Extract runs every finder over the text and merges the results. It never
// fails: fields that cannot be found are left empty.
func (e *Extractor) Extract(raw string) ExtractedReceipt {
	lines := SplitLines(raw)

	result := ExtractedReceipt{
		StoreName: e.FindStoreName(lines),
		Items:     e.FindItems(lines),
	}
	if total, ok := e.FindTotal(raw); ok {
		result.Total = &total
	}
	if date, ok := e.FindDate(raw); ok {
		result.Date = &date
	}

	return result
}

// Tagger returns the line-item tagger in use
func (e *Extractor) Tagger() tagging.Tagger {
	return e.tagger
}
