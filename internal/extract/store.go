package extract

import (
	"strings"
	"unicode"
)

const separatorChars = "*-=_#~.+|/\\ \t"

// FindStoreName returns the first of the leading lines that is not a noise
// word, a date line or a decorative separator
func (e *Extractor) FindStoreName(lines []string) string {
	inspected := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if inspected == e.rules.StoreLineLimit {
			break
		}
		inspected++

		if _, ok := e.noise[strings.ToUpper(trimmed)]; ok {
			continue
		}
		if isDateLine(trimmed) {
			continue
		}
		if isSeparatorLine(trimmed) {
			continue
		}
		return trimmed
	}

	return e.rules.UnknownStore
}

// isDateLine reports whether the line holds nothing but date tokens, times of
// day and punctuation
func isDateLine(line string) bool {
	if !dateTokenRE.MatchString(line) {
		return false
	}
	rest := dateTokenRE.ReplaceAllString(line, " ")
	rest = timeTokenRE.ReplaceAllString(rest, " ")
	return !strings.ContainsFunc(rest, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

// isSeparatorLine reports whether the line is only repeated separator characters
func isSeparatorLine(line string) bool {
	return strings.Trim(line, separatorChars) == ""
}
