package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/config"
	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/letter"
	"github.com/jonathan/planmyjob/internal/observability"
	"github.com/jonathan/planmyjob/internal/schemas"
	"github.com/jonathan/planmyjob/internal/types"
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Write a cover letter for an offer",
	Long: "Write a French cover letter from a short profile. With --offer, the letter puts the skills the offer " +
		"asks for first, the tone can be picked from the offer, and a fit score is computed.",
	Example: "  planmyjob letter --company \"Acme Corp\" --position \"Développeur Go\" --skills Go,Docker \\\n" +
		"    --achievement \"j'ai migré notre API vers Go\" --motivation \"votre produit\" --offer offre.txt",
	RunE: runLetter,
}

var (
	letterCompany     string
	letterPosition    string
	letterSkills      []string
	letterAchievement string
	letterMotivation  string
	letterTone        string
	letterYears       float64
	letterFirstName   string
	letterLastName    string
	letterOffer       string
	letterTemplates   string
	letterJSON        bool
	letterValidate    bool
	letterConfig      string
)

func init() {
	letterCmd.Flags().StringVar(&letterCompany, "company", "", "Company name (required)")
	letterCmd.Flags().StringVar(&letterPosition, "position", "", "Position applied for (required)")
	letterCmd.Flags().StringSliceVar(&letterSkills, "skills", nil, "Skills, comma-separated or repeated (required)")
	letterCmd.Flags().StringVar(&letterAchievement, "achievement", "", "A concrete achievement (required)")
	letterCmd.Flags().StringVar(&letterMotivation, "motivation", "", "Why this company (required)")
	letterCmd.Flags().StringVar(&letterTone, "tone", "", "auto, classic, modern or startup (default: auto)")
	letterCmd.Flags().Float64Var(&letterYears, "years", 0, "Years of experience")
	letterCmd.Flags().StringVar(&letterFirstName, "first-name", "", "First name for the signature")
	letterCmd.Flags().StringVar(&letterLastName, "last-name", "", "Last name for the signature")
	letterCmd.Flags().StringVar(&letterOffer, "offer", "", "Offer file, or - for stdin")
	letterCmd.Flags().StringVar(&letterTemplates, "templates", "", "Path to a letter templates JSON file")
	letterCmd.Flags().BoolVar(&letterJSON, "json", false, "Print JSON instead of the letter")
	letterCmd.Flags().BoolVar(&letterValidate, "validate", false, "Check the result against the JSON schema")
	letterCmd.Flags().StringVarP(&letterConfig, "config", "c", "", "Path to JSON config file")

	rootCmd.AddCommand(letterCmd)
}

// letterOptions is the resolved form of the letter flags.
type letterOptions struct {
	Input     types.LetterInput
	OfferPath string
	Templates string
	JSON      bool
	Validate  bool
}

func runLetter(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(letterConfig)
	if err != nil {
		return err
	}

	// Flags win; the config file fills what they leave unset.
	flags := config.Config{
		FirstName: letterFirstName,
		LastName:  letterLastName,
		Tone:      letterTone,
		Templates: letterTemplates,
	}
	if cmd.Flags().Changed("years") {
		years := letterYears
		flags.YearsExperience = &years
	}
	merged := flags.MergeWithDefaults(*cfg)

	tone, ok := types.ParseTone(merged.Tone)
	if !ok {
		return fmt.Errorf("invalid --tone %q: must be one of auto, classic, modern, startup", merged.Tone)
	}

	opts := letterOptions{
		Input: types.LetterInput{
			Company:         letterCompany,
			Position:        letterPosition,
			Skills:          letterSkills,
			Achievement:     letterAchievement,
			Motivation:      letterMotivation,
			Tone:            tone,
			YearsExperience: merged.YearsExperience,
			FirstName:       merged.FirstName,
			LastName:        merged.LastName,
		},
		OfferPath: letterOffer,
		Templates: merged.Templates,
		JSON:      letterJSON,
		Validate:  letterValidate,
	}

	return writeLetter(opts, cmd.InOrStdin(), cmd.OutOrStdout())
}

// writeLetter reads the optional offer, then generates, scores and prints
// the letter.
func writeLetter(opts letterOptions, stdin io.Reader, out io.Writer) error {
	in := opts.Input
	if opts.OfferPath != "" {
		text, err := readOffer(opts.OfferPath, stdin)
		if err != nil {
			return err
		}
		in.OfferText = text
	}

	if err := in.Validate(); err != nil {
		return fmt.Errorf("invalid letter input: %w", err)
	}

	var set *letter.TemplateSet
	if opts.Templates != "" {
		loaded, err := letter.LoadTemplatesFile(opts.Templates)
		if err != nil {
			return err
		}
		set = loaded
	}

	result := letter.NewGenerator(set).Compose(in)
	if opts.Validate {
		if err := schemas.ValidateLetter(result); err != nil {
			return fmt.Errorf("letter failed schema validation: %w", err)
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}

	fmt.Fprintln(out, strings.TrimRight(result.Letter, "\n"))
	fmt.Fprintln(out)
	observability.NewPrinter(out).PrintLetterResult(&result)
	return nil
}

// readOffer loads offer text from a file, or from stdin when path is "-".
func readOffer(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		text, _, err := ingestion.ReadInput(stdin, ingestion.SourceStdin)
		if err != nil {
			return "", fmt.Errorf("failed to read offer from stdin: %w", err)
		}
		return text, nil
	}
	text, _, err := ingestion.IngestFromFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read offer: %w", err)
	}
	return text, nil
}
