package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/planmyjob/internal/letter"
	"github.com/jonathan/planmyjob/internal/offer"
	"github.com/jonathan/planmyjob/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOffer = `Développeur Full Stack H/F
Acme Corp
12 rue de la Paix, 75002 Paris
CDI - Télétravail partiel
Nous recherchons un développeur React / Node.js avec 3 ans d'expérience.
Salaire : 45 000 - 55 000 €
Postuler : https://jobs.acme.fr/offres/42`

func TestValidateJSON_ValidJSON(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "offer_schema.json"), filepath.Join("testdata", "valid_offer.json"))
	assert.NoError(t, err)
}

func TestValidateJSON_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		fields []string
	}{
		{"missing field", "missing_field.json", []string{"(root)"}},
		{"wrong types", "type_mismatch.json", []string{"title", "skills"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(filepath.Join("testdata", "offer_schema.json"), filepath.Join("testdata", tt.file))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestValidateJSON_NotFound(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_offer.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(filepath.Join("testdata", "offer_schema.json"), "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "offer_schema.json"), malformed)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["tone"], "properties": {"tone": {"enum": ["classic", "modern", "startup"]}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"tone": "modern"}`))

	err := ValidateJSONString(schema, `{"tone": "formal"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "tone", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "title", Message: "Invalid type"},
		{Field: "(root)", Message: "skills is required"},
	}}
	assert.Equal(t, "validation failed:\n  1. title: Invalid type\n  2. (root): skills is required\n", err.Error())
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath(filepath.Join("testdata", "offer_schema.json")))
	assert.NotEmpty(t, ResolveSchemaPath(filepath.Join("schemas", "extracted_offer.schema.json")))
	assert.Empty(t, ResolveSchemaPath("nope/absent.schema.json"))
}

func TestValidateOffer_Extractions(t *testing.T) {
	inputs := []string{
		"",
		sampleOffer,
		"Poste : Data Engineer\nLieu : Lyon\nCDD\nStage\nFreelance",
		"• Mutuelle\n• Mutuelle\n• RTT\n• Tickets restaurant\n• Prime\n• Crèche\n• Sport\n• Vélo\n• Parking\n• Télétravail",
	}
	for _, in := range inputs {
		o := offer.Extract(in)
		assert.NoError(t, ValidateOffer(o), "input %q", in)
	}
}

func TestValidateOffer_Rejects(t *testing.T) {
	o := offer.Extract(sampleOffer)
	o.ContractType = "permanent"
	o.KeyPoints = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	o.ApplicationURL = "jobs.acme.fr"

	err := ValidateOffer(o)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := map[string]bool{}
	for _, fe := range validationErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["contract_type"])
	assert.True(t, fields["key_points"])
	assert.True(t, fields["application_url"])
}

func TestValidateOffer_NilSlices(t *testing.T) {
	// nil slices marshal to null, which the schema rejects.
	o := offer.Extract("")
	o.Skills = nil
	assert.Error(t, ValidateOffer(o))
}

func TestValidateLetter(t *testing.T) {
	in := types.LetterInput{
		Company:     "Acme",
		Position:    "Développeur Go",
		Skills:      []string{"Go", "Docker"},
		Achievement: "j'ai migré une API vers Go",
		Motivation:  "votre produit m'inspire",
		OfferText:   sampleOffer,
	}
	assert.NoError(t, ValidateLetter(letter.Compose(in)))

	bad := letter.Compose(in)
	bad.Score = 5
	bad.Tone = types.ToneAuto
	assert.Error(t, ValidateLetter(bad))
}

func TestValidateDraft(t *testing.T) {
	today := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	draft := offer.ToDraft(offer.Extract(sampleOffer), today)
	assert.NoError(t, ValidateDraft(draft))

	draft.PersonalRating = 9
	assert.Error(t, ValidateDraft(draft))
}

func TestValidateValue_UnknownSchema(t *testing.T) {
	err := ValidateValue("resume_plan", map[string]string{})
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(offer.Extract(sampleOffer))
	require.NoError(t, err)
	good := filepath.Join(dir, "offer.json")
	require.NoError(t, os.WriteFile(good, data, 0o644))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"title": "x"}`), 0o644))

	assert.True(t, IsEmbedded(ExtractedOfferSchema))
	assert.False(t, IsEmbedded("resume_plan"))

	assert.NoError(t, ValidateFile(ExtractedOfferSchema, good))

	err = ValidateFile(ExtractedOfferSchema, bad)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = ValidateFile(ExtractedOfferSchema, filepath.Join(dir, "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
