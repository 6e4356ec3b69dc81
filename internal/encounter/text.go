package encounter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// either formats value into a sentence, or returns fallback when the value is unknown.
func either(value string, format string, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), ".!?")
	if value == "" {
		return fallback
	}
	return capitalize(fmt.Sprintf(format, value))
}

// sentence capitalizes s and ends it with a full stop unless it is already punctuated.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s[len(s)-1:], ".!?") {
		s += "."
	}
	return capitalize(s)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// list joins items in prose: "a", "a and b", "a, b and c".
func list(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// plural appends an s to unit unless n is one or the unit already ends in s.
func plural(n float64, unit string) string {
	if n == 1 || unit == "" || strings.HasSuffix(unit, "s") {
		return unit
	}
	return unit + "s"
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
