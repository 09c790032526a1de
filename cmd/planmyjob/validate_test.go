package main

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/planmyjob/internal/offer"
	"github.com/jonathan/planmyjob/internal/schemas"
)

func writeOfferJSON(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal(offer.Extract(boardOffer))
	require.NoError(t, err)
	return writeFile(t, dir, "offre.json", string(data))
}

func TestValidateFile_Success(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeOfferJSON(t, dir)

	tests := []struct {
		name   string
		schema string
	}{
		{"built-in name", schemas.ExtractedOfferSchema},
		{"schema file", filepath.Join("schemas", "extracted_offer.schema.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, validateFile(tt.schema, jsonPath, &out))
			assert.Contains(t, out.String(), "Validation passed")
		})
	}
}

func TestValidateFile_Failure(t *testing.T) {
	jsonPath := writeFile(t, t.TempDir(), "bad.json", `{"title": 1}`)

	var out bytes.Buffer
	err := validateFile(schemas.ExtractedOfferSchema, jsonPath, &out)

	require.Error(t, err)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, out.String(), "Validation failed")
}

func TestValidateFile_NotFound(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeOfferJSON(t, dir)

	tests := []struct {
		name     string
		schema   string
		jsonPath string
	}{
		{"missing JSON", schemas.ExtractedOfferSchema, filepath.Join(dir, "absent.json")},
		{"missing schema file", "nonexistent_schema.json", jsonPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := validateFile(tt.schema, tt.jsonPath, &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
			assert.Empty(t, out.String())
		})
	}
}

func TestValidateCommand_MissingSchemaFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)
	jsonPath := writeOfferJSON(t, t.TempDir())

	cmd := exec.Command(binaryPath, "validate", "--json", jsonPath)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}

func TestValidateCommand_Success(t *testing.T) {
	binaryPath := getBinaryPath(t)
	jsonPath := writeOfferJSON(t, t.TempDir())

	cmd := exec.Command(binaryPath, "validate", "--schema", schemas.ExtractedOfferSchema, "--json", jsonPath)
	output, err := cmd.CombinedOutput()

	assert.NoError(t, err)
	assert.Contains(t, string(output), "Validation passed")
}
