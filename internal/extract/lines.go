package extract

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines splits raw OCR text into trimmed, non-empty lines in source order
func SplitLines(raw string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(lineBreaks.Replace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
