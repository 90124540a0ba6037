package tagging

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	summaryLineRE   = regexp.MustCompile(`(?i)\b(?:sub\s*)?total[ei]?\b|\b(?:tax|iva|vat|resto|contanti|change|cash|sconto|discount|balance|bancomat|pagato|credit\s+card|carta\s+di\s+credito)\b`)
	priceTokenRE    = regexp.MustCompile(`^[$€£]?\d+[.,]\d{2}[$€£]?$`)
	markedQtyRE     = regexp.MustCompile(`^(?:[xX]\d+|\d+[xX])$`)
	bareQtyRE       = regexp.MustCompile(`^\d{1,3}$`)
	codeTokenRE     = regexp.MustCompile(`^\d{6,}$`)
	taxFlagTokenRE  = regexp.MustCompile(`^[A-Z]$`)
	multiplierToken = map[string]bool{"x": true, "X": true, "@": true}
)

// Pattern is an offline rule-based tagger for lines shaped like "NAME [QTY] PRICE".
// Summary lines (totals, tax, change) are never tagged as items.
type Pattern struct{}

// NewPattern creates a new Pattern tagger
func NewPattern() *Pattern {
	return &Pattern{}
}

// Tag labels a single line
func (p *Pattern) Tag(line string) ([]Token, error) {
	words := Tokenize(line)
	if len(words) == 0 {
		return nil, nil
	}

	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Text: w}
	}

	if summaryLineRE.MatchString(line) {
		return tokens, nil
	}

	price := priceIndex(words)
	if price < 1 {
		return tokens, nil
	}
	tokens[price].Label = ItemPrice

	for i := 0; i < price; i++ {
		w := words[i]
		switch {
		case markedQtyRE.MatchString(w):
			tokens[i].Label = Quantity
		case i == 0 && bareQtyRE.MatchString(w) && price > 1:
			tokens[i].Label = Quantity
		case i == price-1 && i > 0 && isSmallCount(w):
			tokens[i].Label = Quantity
		case codeTokenRE.MatchString(w), multiplierToken[w]:
			// outside
		default:
			tokens[i].Label = ProductName
		}
	}

	return tokens, nil
}

// Close is a no-op
func (p *Pattern) Close() error {
	return nil
}

// maxTrailingCount is the largest bare number read as a quantity when it sits
// right before the price. Larger ones are sizes such as "330" (ml) or "500" (g).
const maxTrailingCount = 20

func isSmallCount(w string) bool {
	if !bareQtyRE.MatchString(w) {
		return false
	}
	n, err := strconv.Atoi(w)
	return err == nil && n >= 1 && n <= maxTrailingCount
}

// priceIndex returns the index of the trailing price token, allowing single
// letter tax flags after it. It returns -1 when the line does not end in a price.
func priceIndex(words []string) int {
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		if priceTokenRE.MatchString(w) {
			return i
		}
		if !taxFlagTokenRE.MatchString(w) {
			return -1
		}
	}
	return -1
}

// Tokenize splits a line on whitespace, trims surrounding punctuation from each
// word and drops words that are left with no letters or digits. Currency
// symbols and separators inside numbers are kept.
func Tokenize(line string) []string {
	fields := strings.Fields(line)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) && r != '@'
		})
		if w == "@" {
			words = append(words, w)
			continue
		}
		if !strings.ContainsFunc(w, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			continue
		}
		words = append(words, w)
	}
	return words
}
