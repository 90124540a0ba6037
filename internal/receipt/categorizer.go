package receipt

import "strings"

// PendingCategory is the category of a receipt nobody has classified yet
const PendingCategory = "Pending"

// Categorizer assigns a spending category (e.g. "Groceries") to receipt text
type Categorizer interface {
	Categorize(text string) string
}

// pendingCategorizer is used when no classification model is configured
type pendingCategorizer struct{}

func (pendingCategorizer) Categorize(string) string {
	return PendingCategory
}

// WithCategorizer sets the categorizer used by Extract. A nil categorizer
// restores the default, which leaves every receipt Pending.
func (s *Service) WithCategorizer(c Categorizer) *Service {
	if c == nil {
		c = pendingCategorizer{}
	}
	s.categorizer = c
	return s
}

// categorize falls back to Pending when the categorizer has no answer
func (s *Service) categorize(text string) string {
	if s.categorizer == nil {
		return PendingCategory
	}
	category := strings.TrimSpace(s.categorizer.Categorize(text))
	if category == "" {
		return PendingCategory
	}
	return category
}
