// Package textnorm provides the small text-normalization helpers shared by the
// offer extractor and the letter generator.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	lineBreakRe = regexp.MustCompile(`\r?\n`)
	spacesRe    = regexp.MustCompile(`\s+`)
)

// StripDiacritics removes combining marks ("é" -> "e") and leaves case untouched.
func StripDiacritics(s string) string {
	if s == "" {
		return ""
	}
	// transform.Chain keeps state, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold lowercases s and strips its diacritics. Two strings that differ only
// by case or accents fold to the same value.
func Fold(s string) string {
	return strings.ToLower(StripDiacritics(s))
}

// Lines splits s on LF or CRLF, trims every line and drops the empty ones.
func Lines(s string) []string {
	raw := lineBreakRe.Split(s, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// RuneLen returns the number of code points in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// CollapseSpaces replaces every whitespace run with a single space and trims the result.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// JoinFrench joins items the way a French sentence lists them: "a, b et c".
func JoinFrench(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " et " + items[len(items)-1]
}
