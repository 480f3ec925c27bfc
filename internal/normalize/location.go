package normalize

import (
	"strings"
	"unicode"
)

var locationLabels = []string{"city:", "town:", "state:"}

// Location extracts a display location from a free-text address.
//
// Best effort only: a labelled line ("City: Pune") wins, otherwise the last
// comma segment with any postal code stripped. The result is a display hint
// and is never used as a key.
func Location(address string) string {
	text := strings.TrimSpace(address)
	if text == "" {
		return ""
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		for _, label := range locationLabels {
			if strings.HasPrefix(lower, label) {
				if value := strings.TrimSpace(trimmed[len(label):]); value != "" {
					return value
				}
			}
		}
	}

	flat := strings.NewReplacer("\r\n", ",", "\n", ",").Replace(text)
	segments := make([]string, 0)
	for _, segment := range strings.Split(flat, ",") {
		if cleaned := stripPostalCode(segment); cleaned != "" {
			segments = append(segments, cleaned)
		}
	}
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-1]
}

// stripPostalCode drops digit-only words and surrounding punctuation
func stripPostalCode(segment string) string {
	words := strings.Fields(segment)
	kept := words[:0]
	for _, word := range words {
		if strings.IndexFunc(word, func(r rune) bool { return !unicode.IsDigit(r) && r != '-' }) == -1 {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Trim(strings.Join(kept, " "), " -.")
}
