// Package keywords holds the fixed technology keyword tables and the
// whole-word detector used to list the skills an offer mentions.
package keywords

import (
	"regexp"
	"strings"

	"github.com/jonathan/planmyjob/internal/textnorm"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Stack lists the single-token technology keywords, in detection order.
var Stack = []string{
	"react", "vue", "vuejs", "angular", "svelte", "next.js", "nuxt",
	"typescript", "javascript", "node", "node.js", "express", "nest", "nestjs",
	"python", "django", "flask", "fastapi",
	"sql", "nosql", "mongodb", "postgresql", "mysql", "redis", "rabbitmq", "elasticsearch",
	"graphql", "rest", "api",
	"html", "css", "sass", "scss", "tailwind", "bootstrap", "webpack", "vite",
	"jest", "cypress", "playwright",
	"kubernetes", "k8s", "terraform", "jenkins", "gitlab", "github", "azure", "gcp",
	"IA", "AI",
	"wordpress", "prestashop", "php", "java", "kotlin", "swift", "go", "golang", "rust",
	"c#", ".net", "docker", "aws", "figma", "excel", "mobile",
}

// MultiWord lists the phrases tested before Stack. A multi-word match hides
// the keyword it starts with (see shadows).
var MultiWord = []string{"react native"}

// shadows maps a phrase to the single keyword it makes redundant.
var shadows = map[string]string{
	"react native": "react",
}

type matcher struct {
	keyword string
	re      *regexp.Regexp
}

var (
	multiMatchers = compile(MultiWord)
	stackMatchers = compile(Stack)
)

func compile(list []string) []matcher {
	out := make([]matcher, 0, len(list))
	for _, kw := range list {
		out = append(out, matcher{keyword: kw, re: wordPattern(kw)})
	}
	return out
}

// wordPattern builds a regexp matching kw as a whole word inside folded text.
// A boundary is only required on a side where kw starts or ends with a word
// character, so "c#" and ".net" stay detectable.
func wordPattern(kw string) *regexp.Regexp {
	fields := strings.Fields(textnorm.Fold(kw))
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	folded := strings.Join(fields, " ")
	body := strings.Join(fields, `\s+`)
	if folded != "" && isWordByte(folded[0]) {
		body = `\b` + body
	}
	if folded != "" && isWordByte(folded[len(folded)-1]) {
		body += `\b`
	}
	return regexp.MustCompile(body)
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// Detect returns the keywords found in text, multi-word phrases first, then
// Stack in table order. The result is deduplicated and never nil.
func Detect(text string) []string {
	folded := textnorm.Fold(text)
	found := make([]string, 0)
	hidden := make(map[string]bool)
	seen := make(map[string]bool)

	for _, m := range multiMatchers {
		if m.re.MatchString(folded) {
			found = append(found, m.keyword)
			seen[m.keyword] = true
			if s, ok := shadows[m.keyword]; ok {
				hidden[s] = true
			}
		}
	}
	for _, m := range stackMatchers {
		if hidden[m.keyword] || seen[m.keyword] {
			continue
		}
		if m.re.MatchString(folded) {
			found = append(found, m.keyword)
			seen[m.keyword] = true
		}
	}
	return found
}

// Contains reports whether kw occurs in text as a whole word, using the same
// folding and boundary rules as Detect.
func Contains(text, kw string) bool {
	if strings.TrimSpace(kw) == "" {
		return false
	}
	return wordPattern(kw).MatchString(textnorm.Fold(text))
}

// Options returns every known keyword, multi-word phrases included, sorted
// with French collation. It backs the competence picker.
func Options() []string {
	out := make([]string, 0, len(MultiWord)+len(Stack))
	out = append(out, MultiWord...)
	out = append(out, Stack...)
	collate.New(language.French).SortStrings(out)
	return out
}
