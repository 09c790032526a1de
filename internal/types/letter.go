package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tone selects the phrase templates used for a cover letter.
type Tone string

const (
	ToneClassic Tone = "classic"
	ToneModern  Tone = "modern"
	ToneStartup Tone = "startup"
	// ToneAuto asks the generator to pick a tone from the offer text.
	ToneAuto Tone = "auto"
)

// Tones lists the concrete tones, in template-file order.
var Tones = []Tone{ToneClassic, ToneModern, ToneStartup}

// ParseTone maps a user-supplied value to a Tone. Empty input means auto.
func ParseTone(s string) (Tone, bool) {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ToneAuto, true
	case ToneAuto, ToneClassic, ToneModern, ToneStartup:
		return t, true
	}
	return "", false
}

// LetterInput is the caller-supplied profile data for a cover letter.
// The generator never rejects an input; Validate is for callers that want to
// guard the "generate" action.
type LetterInput struct {
	Company         string   `json:"company" validate:"required,notblank"`
	Position        string   `json:"position" validate:"required,notblank"`
	Skills          []string `json:"skills" validate:"required,min=1,dive,max=100"`
	Achievement     string   `json:"achievement" validate:"required,notblank"`
	Motivation      string   `json:"motivation" validate:"required,notblank"`
	Tone            Tone     `json:"tone,omitempty" validate:"omitempty,oneof=auto classic modern startup"`
	OfferText       string   `json:"offer_text,omitempty"`
	YearsExperience *float64 `json:"years_experience,omitempty" validate:"omitempty,gte=0,lte=60"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
}

// ScoreResult is the fit score between a profile and an offer.
type ScoreResult struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	StackMatches  []string `json:"stack_matches"`
}

// LetterResult is a generated letter together with its score and the tone applied.
type LetterResult struct {
	Letter        string   `json:"letter"`
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	StackMatches  []string `json:"stack_matches"`
	Tone          Tone     `json:"tone"`
}

var letterValidator = newLetterValidator()

func newLetterValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the generation preconditions: company, position,
// achievement and motivation non-blank, and at least one non-blank skill.
func (in *LetterInput) Validate() error {
	if err := letterValidator.Struct(in); err != nil {
		return err
	}
	for _, s := range in.Skills {
		if strings.TrimSpace(s) != "" {
			return nil
		}
	}
	return &InputError{Field: "Skills", Message: "at least one non-empty skill is required"}
}

// InputError reports a precondition the struct tags cannot express.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return "validation error in " + e.Field + ": " + e.Message
}
