//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() LetterInput {
	return LetterInput{
		Company:     "Acme Corp",
		Position:    "Développeur Go",
		Skills:      []string{"Go", "PostgreSQL"},
		Achievement: "j'ai divisé par deux le temps de build",
		Motivation:  "votre produit m'enthousiasme",
	}
}

func TestLetterInput_Validate(t *testing.T) {
	years := 3.0
	negative := -1.0

	tests := []struct {
		name    string
		mutate  func(in *LetterInput)
		wantErr bool
		errMsg  string
	}{
		{name: "valid", mutate: func(*LetterInput) {}},
		{name: "valid with tone and years", mutate: func(in *LetterInput) {
			in.Tone = ToneStartup
			in.YearsExperience = &years
		}},
		{name: "missing company", mutate: func(in *LetterInput) { in.Company = "" }, wantErr: true, errMsg: "Company"},
		{name: "blank position", mutate: func(in *LetterInput) { in.Position = "   " }, wantErr: true, errMsg: "notblank"},
		{name: "no skills", mutate: func(in *LetterInput) { in.Skills = nil }, wantErr: true, errMsg: "Skills"},
		{name: "only blank skills", mutate: func(in *LetterInput) { in.Skills = []string{" ", ""} }, wantErr: true, errMsg: "non-empty skill"},
		{name: "missing achievement", mutate: func(in *LetterInput) { in.Achievement = "" }, wantErr: true, errMsg: "Achievement"},
		{name: "missing motivation", mutate: func(in *LetterInput) { in.Motivation = "" }, wantErr: true, errMsg: "Motivation"},
		{name: "unknown tone", mutate: func(in *LetterInput) { in.Tone = "casual" }, wantErr: true, errMsg: "oneof"},
		{name: "negative years", mutate: func(in *LetterInput) { in.YearsExperience = &negative }, wantErr: true, errMsg: "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLetterInput_ValidateErrorTypes(t *testing.T) {
	in := validInput()
	in.Company = ""
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(in.Validate(), &verrs))

	in = validInput()
	in.Skills = []string{""}
	var ierr *InputError
	assert.True(t, errors.As(in.Validate(), &ierr))
	assert.Equal(t, "Skills", ierr.Field)
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		input string
		want  Tone
		ok    bool
	}{
		{"", ToneAuto, true},
		{"auto", ToneAuto, true},
		{" Startup ", ToneStartup, true},
		{"classic", ToneClassic, true},
		{"MODERN", ToneModern, true},
		{"formal", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLetterInput_JSONRoundTripFields(t *testing.T) {
	raw := `{"company":"Acme","position":"Dev","skills":["Go"],"achievement":"a","motivation":"m","tone":"modern","years_experience":4}`
	var in LetterInput
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	require.NotNil(t, in.YearsExperience)
	assert.Equal(t, 4.0, *in.YearsExperience)
	assert.Equal(t, ToneModern, in.Tone)
	assert.NoError(t, in.Validate())
}
