package letter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/planmyjob/internal/types"
)

//go:embed templates.json
var defaultTemplatesJSON []byte

// Placeholders recognized in templates.
const (
	PlaceholderCompany    = "{{company}}"
	PlaceholderPosition   = "{{position}}"
	PlaceholderSkillsList = "{{skillsList}}"
)

// Sections of a tone, in letter order.
const (
	SectionIntro   = "intro"
	SectionBody    = "body"
	SectionClosing = "closing"
)

// ToneTemplates holds the phrase variants of one tone.
type ToneTemplates struct {
	Intro   []string `json:"intro"`
	Body    []string `json:"body"`
	Closing []string `json:"closing"`
}

func (t ToneTemplates) section(name string) []string {
	switch name {
	case SectionIntro:
		return t.Intro
	case SectionBody:
		return t.Body
	case SectionClosing:
		return t.Closing
	}
	return nil
}

// TemplateSet maps every concrete tone to its templates. It is read-only
// once loaded.
type TemplateSet struct {
	tones map[types.Tone]ToneTemplates
}

// For returns the templates of tone, falling back to classic.
func (s *TemplateSet) For(tone types.Tone) ToneTemplates {
	if t, ok := s.tones[tone]; ok {
		return t
	}
	return s.tones[types.ToneClassic]
}

// TemplateError reports a template file that cannot be used.
type TemplateError struct {
	Tone    types.Tone
	Section string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	where := ""
	if e.Tone != "" {
		where = " (" + string(e.Tone)
		if e.Section != "" {
			where += "." + e.Section
		}
		where += ")"
	}
	if e.Cause != nil {
		return fmt.Sprintf("template error%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error%s: %s", where, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// LoadTemplates parses a JSON template set. Every concrete tone must define
// non-empty intro, body and closing lists without blank entries.
func LoadTemplates(r io.Reader) (*TemplateSet, error) {
	var raw map[types.Tone]ToneTemplates
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	for _, tone := range types.Tones {
		t, ok := raw[tone]
		if !ok {
			return nil, &TemplateError{Tone: tone, Message: "tone is missing"}
		}
		for _, name := range []string{SectionIntro, SectionBody, SectionClosing} {
			list := t.section(name)
			if len(list) == 0 {
				return nil, &TemplateError{Tone: tone, Section: name, Message: "section is empty"}
			}
			for i, s := range list {
				if strings.TrimSpace(s) == "" {
					return nil, &TemplateError{Tone: tone, Section: name, Message: fmt.Sprintf("entry %d is blank", i)}
				}
			}
		}
	}
	return &TemplateSet{tones: raw}, nil
}

// LoadTemplatesFile reads a template set from disk.
func LoadTemplatesFile(path string) (*TemplateSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TemplateError{Message: "failed to open " + path, Cause: err}
	}
	defer func() { _ = f.Close() }()
	return LoadTemplates(f)
}

// DefaultTemplates returns the embedded template set.
func DefaultTemplates() *TemplateSet {
	return defaultTemplates
}

var defaultTemplates = mustLoadDefault()

func mustLoadDefault() *TemplateSet {
	set, err := LoadTemplates(bytes.NewReader(defaultTemplatesJSON))
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
	return set
}
