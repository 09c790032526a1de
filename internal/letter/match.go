package letter

import (
	"strings"

	"github.com/jonathan/planmyjob/internal/textnorm"
)

// maxLetterSkills bounds the {{skillsList}} placeholder.
const maxLetterSkills = 3

// cleanSkills trims skills and drops the blank ones and the repeats, compared
// without case or accents. The first spelling is kept.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool)
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := textnorm.Fold(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// DetectKeywords returns the caller skills that occur in offerText, compared
// without case or accents, in the caller's order. The result is never nil.
func DetectKeywords(offerText string, skills []string) []string {
	matched := make([]string, 0)
	folded := textnorm.Fold(offerText)
	if strings.TrimSpace(folded) == "" {
		return matched
	}
	for _, s := range cleanSkills(skills) {
		if strings.Contains(folded, textnorm.Fold(s)) {
			matched = append(matched, s)
		}
	}
	return matched
}

// PrioritizeSkills puts matched skills before the others and keeps the first three.
func PrioritizeSkills(skills, matched []string) []string {
	out := make([]string, 0, maxLetterSkills)
	seen := make(map[string]bool)
	add := func(s string) {
		key := textnorm.Fold(s)
		if len(out) < maxLetterSkills && !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	for _, s := range cleanSkills(matched) {
		add(s)
	}
	for _, s := range cleanSkills(skills) {
		add(s)
	}
	return out
}
