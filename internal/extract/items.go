package extract

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/scontrinosmart/receipt-extractor/internal/tagging"
)

var currencyMarks = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "")

var currencyCodes = []string{"EURO", "EUR", "USD", "GBP", "CHF"}

// FindItems tags every line and assembles the labeled tokens into line items.
// A line produces an item only when it has both a product name and a price.
func (e *Extractor) FindItems(lines []string) []LineItem {
	items := make([]LineItem, 0)
	if !tagging.Available(e.tagger) {
		return items
	}

	for _, line := range lines {
		tokens, err := e.tagLine(line)
		if err != nil {
			slog.Debug("Failed to tag line", "line", line, "error", err)
			continue
		}
		if item, ok := assembleItem(tokens); ok {
			items = append(items, item)
		}
	}

	return items
}

// tagLine runs the tagger on one line, turning a tagger panic into an error
func (e *Extractor) tagLine(line string) (tokens []tagging.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("tagger panic: %v", r)
		}
	}()
	return e.tagger.Tag(line)
}

// assembleItem folds the tokens of one line into an item
func assembleItem(tokens []tagging.Token) (LineItem, bool) {
	var (
		name     []string
		quantity = 1
		price    float64
		hasPrice bool
	)

	for _, t := range tokens {
		switch t.Label {
		case tagging.ProductName:
			if w := strings.TrimSpace(t.Text); w != "" {
				name = append(name, w)
			}
		case tagging.Quantity:
			if q, ok := parseQuantity(t.Text); ok {
				quantity = q
			}
		case tagging.ItemPrice:
			if p, ok := parsePrice(t.Text); ok {
				price = p
				hasPrice = true
			}
		}
	}

	itemName := strings.TrimSpace(strings.Join(name, " "))
	if itemName == "" || !hasPrice {
		return LineItem{}, false
	}

	return LineItem{Name: itemName, Quantity: quantity, UnitPrice: price}, true
}

// parseQuantity parses an integer count such as "2", "2x" or "x2". Decimal
// quantities are truncated; anything below one is discarded.
func parseQuantity(s string) (int, bool) {
	s = strings.Trim(strings.TrimSpace(s), "xX")
	if s == "" {
		return 0, false
	}
	if q, err := strconv.Atoi(s); err == nil {
		return q, q >= 1
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// parsePrice strips currency symbols and codes and parses the amount
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(currencyMarks.Replace(s))
	upper := strings.ToUpper(s)
	for _, code := range currencyCodes {
		if strings.HasPrefix(upper, code) {
			s = s[len(code):]
			break
		}
		if strings.HasSuffix(upper, code) {
			s = s[:len(s)-len(code)]
			break
		}
	}
	return parseAmount(s)
}
