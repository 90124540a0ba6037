package tagging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// lineTagPrompt is the shared prompt used by all LLM providers for labeling a receipt line
const lineTagPrompt = `You are labeling the words of ONE line of text read from a shop receipt by OCR.
Split the line into words exactly as they appear and assign each word one label:

- "PRODUCT_NAME": a word that is part of the name of a purchased product
- "QUANTITY": the number of units bought (e.g. "2", "2x", "x3")
- "ITEM_PRICE": the price of the product (e.g. "3.50", "3,50", "$3.50", "€1,20")
- "O": anything else (codes, tax flags, totals, store information, dates)

Lines with totals, subtotals, tax, payment or change information contain no products: label every word "O".

Return ONLY a valid JSON array in this exact format:
[{"token": "Milk", "label": "PRODUCT_NAME"}, {"token": "3.50", "label": "ITEM_PRICE"}]

Important:
- Keep the words in the order they appear in the line
- Do not invent words that are not in the line
- Do not include any text before or after the JSON
- Do not use markdown code blocks

Line:
`

// buildPrompt appends the line to the shared prompt
func buildPrompt(line string) string {
	return lineTagPrompt + line
}

// parseTagsJSON parses the JSON array returned by an LLM provider
func parseTagsJSON(text string) ([]Token, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	text = text[startIdx : endIdx+1]

	var raw []struct {
		Token string `json:"token"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		word := strings.TrimSpace(r.Token)
		if word == "" {
			continue
		}
		tokens = append(tokens, Token{Text: word, Label: ParseLabel(r.Label)})
	}

	return tokens, nil
}
