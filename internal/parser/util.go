package parser

import (
	"html"
	"strings"
	"time"
)

// lenientLayout rewrites the zero-padded day and month tokens of a layout to
// their unpadded forms, which also accept two-digit values.
var lenientLayout = strings.NewReplacer("02", "2", "01", "1")

// ParseDate parses a transaction date using the configured layout
// (DD/MM/YYYY by default). Source dates come unpadded as often as padded, so
// a strict-layout miss retries with unpadded day and month tokens. Blank or
// unparseable dates sort before everything else, so they return the zero
// time and false.
func ParseDate(s, layout string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		t, err = time.Parse(lenientLayout.Replace(layout), s)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// DecodeEntities resolves HTML entities left in narrative text by the
// upstream XML export, which double-escapes the observation field.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}

// firstLine returns the text up to the first newline.
func firstLine(s string) string {
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
