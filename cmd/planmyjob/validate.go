package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: "Validate a JSON file against a schema file, or against one of the built-in schemas by name: " +
		schemas.ExtractedOfferSchema + ", " + schemas.ApplicationDraftSchema + " or " + schemas.LetterResultSchema + ".",
	Example: "  planmyjob analyze --in offre.txt --json > offre.json\n" +
		"  planmyjob validate --schema extracted_offer --json offre.json",
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema file, or a built-in schema name (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "JSON file to validate (required)")

	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return validateFile(validateSchema, validateJSON, cmd.OutOrStdout())
}

// validateFile checks jsonPath against schema, a built-in schema name or a
// schema file path.
func validateFile(schema, jsonPath string, out io.Writer) error {
	var err error
	if schemas.IsEmbedded(schema) {
		err = schemas.ValidateFile(schema, jsonPath)
	} else {
		path := schemas.ResolveSchemaPath(schema)
		if path == "" {
			path = schema
		}
		err = schemas.ValidateJSON(path, jsonPath)
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintln(out, "Validation failed")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Validation passed: %s\n", jsonPath)
	return nil
}
