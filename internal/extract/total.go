package extract

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// amountCandidate is one keyword-adjacent number found in the text
type amountCandidate struct {
	value float64
	start int
}

// compileTotalPattern builds the keyword regexp. Longer keywords come first so
// "balance due" is preferred over a shorter keyword at the same position.
func compileTotalPattern(keywords []string) (*regexp.Regexp, error) {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("at least one total keyword is required")
	}
	sort.SliceStable(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})

	alternatives := make([]string, len(cleaned))
	for i, k := range cleaned {
		words := strings.Fields(k)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		alternatives[i] = strings.Join(words, `\s+`)
	}

	pattern := `(?i)(?:` + strings.Join(alternatives, "|") + `)` +
		`\s*[:=]?\s*(?:[$€£]|euro?|usd|gbp|chf)?\s*` +
		`(\d+(?:[.,]\d{1,2})?)`

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling total pattern: %w", err)
	}
	return re, nil
}

// FindTotal returns the largest amount that follows a total keyword
func (e *Extractor) FindTotal(raw string) (float64, bool) {
	candidates := e.totalCandidates(raw)
	if len(candidates) == 0 {
		return 0, false
	}

	best := candidates[0].value
	for _, c := range candidates[1:] {
		if c.value > best {
			best = c.value
		}
	}
	return best, true
}

func (e *Extractor) totalCandidates(raw string) []amountCandidate {
	var candidates []amountCandidate
	for _, m := range e.totalRE.FindAllStringSubmatchIndex(raw, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		value, ok := parseAmount(raw[m[2]:m[3]])
		if !ok {
			continue
		}
		candidates = append(candidates, amountCandidate{value: value, start: m[2]})
	}
	return candidates
}

// parseAmount parses a number written with either a dot or a comma as the
// decimal separator. When both appear, the last one is the decimal separator
// and the others are thousands grouping.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
