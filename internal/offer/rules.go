package offer

import (
	"regexp"
	"strings"

	"github.com/jonathan/planmyjob/internal/types"
)

// Field names used as Trace keys. They match the JSON names of ExtractedOffer.
const (
	FieldTitle           = "title"
	FieldCompany         = "company"
	FieldContractType    = "contract_type"
	FieldRemotePolicy    = "remote_policy"
	FieldLocation        = "location"
	FieldExperienceYears = "experience_years"
	FieldSkills          = "skills"
	FieldKeyPoints       = "key_points"
	FieldSalaryRange     = "salary_range"
	FieldApplicationURL  = "application_url"
)

// Trace maps a field name to the rule that produced its value. Fields left at
// their default have no entry.
type Trace map[string]string

// document is the prepared input plus the record being filled.
type document struct {
	text  string
	lines []string
	offer *types.ExtractedOffer
	trace Trace
}

func (d *document) line(i int) string {
	if i < len(d.lines) {
		return d.lines[i]
	}
	return ""
}

// rule is one named extraction attempt. apply reports whether it produced a
// value; then, when set, fills sibling fields after the rule fired.
type rule struct {
	name  string
	apply func(d *document) (string, bool)
	then  func(d *document)
}

// stage runs rules in order against one field and stops at the first success.
type stage struct {
	field string
	skip  func(o *types.ExtractedOffer) bool
	set   func(o *types.ExtractedOffer, v string)
	rules []rule
}

func (s stage) run(d *document) {
	if s.skip != nil && s.skip(d.offer) {
		return
	}
	for _, r := range s.rules {
		v, ok := r.apply(d)
		if !ok {
			continue
		}
		s.set(d.offer, v)
		if v != "" {
			d.trace[s.field] = r.name
		}
		if r.then != nil {
			r.then(d)
		}
		return
	}
}

// guard vetoes a regexp match; it sees the whole text and the match indices.
type guard func(text string, loc []int) bool

// firstSubmatch returns group 1 of the first match of re in text that passes
// every guard.
func firstSubmatch(re *regexp.Regexp, text string, guards ...guard) (string, bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(loc) < 4 || loc[2] < 0 {
			continue
		}
		ok := true
		for _, g := range guards {
			if !g(text, loc) {
				ok = false
				break
			}
		}
		if ok {
			return text[loc[2]:loc[3]], true
		}
	}
	return "", false
}

// restOfLineLacks rejects a match when the text that follows it, up to the
// next line break, contains word (case-insensitive).
func restOfLineLacks(word string) guard {
	word = strings.ToLower(word)
	return func(text string, loc []int) bool {
		rest := text[loc[1]:]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		return !strings.Contains(strings.ToLower(rest), word)
	}
}

// captureRule takes the trimmed first group of re and keeps it when accept
// approves. A rejected capture ends the rule; later matches are not tried.
func captureRule(name string, re *regexp.Regexp, accept func(string) bool, guards ...guard) rule {
	return rule{
		name: name,
		apply: func(d *document) (string, bool) {
			v, ok := firstSubmatch(re, d.text, guards...)
			if !ok {
				return "", false
			}
			v = strings.TrimSpace(v)
			if accept != nil && !accept(v) {
				return "", false
			}
			return v, true
		},
	}
}

// patternRule yields value when re matches anywhere in the text.
func patternRule(name string, re *regexp.Regexp, value string) rule {
	return rule{
		name: name,
		apply: func(d *document) (string, bool) {
			return value, re.MatchString(d.text)
		},
	}
}

// matchRule yields the whole first match of re, whitespace collapsed.
func matchRule(name string, re *regexp.Regexp, accept func(string) bool) rule {
	return rule{
		name: name,
		apply: func(d *document) (string, bool) {
			m := re.FindString(d.text)
			if m == "" {
				return "", false
			}
			m = strings.Join(strings.Fields(m), " ")
			if accept != nil && !accept(m) {
				return "", false
			}
			return m, true
		},
	}
}
