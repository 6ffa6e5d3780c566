package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel flattens a specialty or service label into a lowercase
// letters-and-digits token: "Hair-Dresser" becomes "hair_dresser".
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = reKeepLettersDigits.ReplaceAllString(s, "_")
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// NormalizeNotes trims free-text notes without altering inner formatting.
func NormalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}
