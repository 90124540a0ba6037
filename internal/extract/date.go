package extract

import (
	"regexp"
	"time"
)

var (
	// dateTokenRE matches day/month/year shapes and ISO-like year-first shapes
	dateTokenRE = regexp.MustCompile(`\b(\d{1,2}[./-]\d{1,2}[./-]\d{2,4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\b`)
	timeTokenRE = regexp.MustCompile(`(?i)\b\d{1,2}[:.]\d{2}(?::\d{2})?(?:\s*[ap]\.?m\.?)?`)
)

// FindDate returns the first date token in the text that parses under any
// configured layout. Layout order decides ambiguous tokens such as 03/04/2024.
func (e *Extractor) FindDate(raw string) (time.Time, bool) {
	for _, token := range dateTokenRE.FindAllString(raw, -1) {
		if d, ok := parseDate(token, e.rules.DateLayouts); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseDate tries each layout in order and returns the first success
func parseDate(token string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		d, err := time.Parse(layout, token)
		if err != nil {
			continue
		}
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
