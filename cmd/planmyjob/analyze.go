package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/export"
	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/observability"
	"github.com/jonathan/planmyjob/internal/offer"
	"github.com/jonathan/planmyjob/internal/schemas"
	"github.com/jonathan/planmyjob/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract the key facts of a job offer",
	Long: "Analyze one or more job offers read from files (--in, repeatable), a URL (--url) or stdin. " +
		"HTML input is converted to text first. Prints a summary, or JSON with --json.",
	Example: "  planmyjob analyze --in offre.txt --trace\n" +
		"  planmyjob analyze --in a.txt --in b.html --xlsx offres.xlsx\n" +
		"  planmyjob analyze --url https://www.welcometothejungle.com/fr/companies/acme/jobs/dev --browser --json\n" +
		"  pbpaste | planmyjob analyze --draft",
	RunE: runAnalyze,
}

var (
	analyzeInputs      []string
	analyzeURL         string
	analyzeBrowser     bool
	analyzeJSON        bool
	analyzeTrace       bool
	analyzeDraft       bool
	analyzeXLSX        string
	analyzeValidate    bool
	analyzeConfig      string
	analyzeVerbose     bool
	analyzeConcurrency int
)

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeInputs, "in", "i", nil, "Offer file, text or HTML (repeatable)")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "URL of the offer page")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Render client-side boards in headless Chrome when the page text is too short")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print JSON instead of a summary")
	analyzeCmd.Flags().BoolVar(&analyzeTrace, "trace", false, "Show which rule produced each field")
	analyzeCmd.Flags().BoolVar(&analyzeDraft, "draft", false, "Also pre-fill an application draft")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Write the analyzed offers to an Excel file")
	analyzeCmd.Flags().BoolVar(&analyzeValidate, "validate", false, "Check the output against the JSON schemas")
	analyzeCmd.Flags().StringVarP(&analyzeConfig, "config", "c", "", "Path to JSON config file")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", ingestion.DefaultBatchConcurrency, "Files read in parallel with --in")

	analyzeCmd.MarkFlagsMutuallyExclusive("in", "url")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOptions is the resolved form of the analyze flags.
type analyzeOptions struct {
	Inputs      []string
	URL         string
	JSON        bool
	Trace       bool
	Draft       bool
	XLSX        string
	Validate    bool
	Verbose     bool
	Concurrency int
	Today       time.Time
	// URLOptions configures --url fetches.
	URLOptions ingestion.URLOptions
}

// analyzedOffer is one analyzed input, as printed by --json.
type analyzedOffer struct {
	Source   string                  `json:"source"`
	Offer    types.ExtractedOffer    `json:"offer"`
	Trace    offer.Trace             `json:"trace,omitempty"`
	Draft    *types.ApplicationDraft `json:"draft,omitempty"`
	Metadata *ingestion.Metadata     `json:"metadata,omitempty"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(analyzeConfig)
	if err != nil {
		return err
	}

	verbose := analyzeVerbose || cfg.Verbose
	opts := analyzeOptions{
		Inputs:      analyzeInputs,
		URL:         analyzeURL,
		JSON:        analyzeJSON,
		Trace:       analyzeTrace,
		Draft:       analyzeDraft,
		XLSX:        analyzeXLSX,
		Validate:    analyzeValidate,
		Verbose:     verbose,
		Concurrency: analyzeConcurrency,
		Today:       time.Now(),
		URLOptions: ingestion.URLOptions{
			UseBrowser: analyzeBrowser || cfg.UseBrowser,
			Verbose:    verbose,
		},
	}

	return analyze(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// analyze reads every input, extracts the offers and writes the report to
// out. Notices that must not mix with JSON output go to errOut.
func analyze(ctx context.Context, opts analyzeOptions, stdin io.Reader, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(opts.Inputs) > 0 && opts.URL != "" {
		return fmt.Errorf("--in and --url are mutually exclusive; provide only one")
	}

	docs, err := loadOffers(ctx, opts, stdin)
	if err != nil {
		return err
	}

	results := make([]analyzedOffer, 0, len(docs))
	for _, doc := range docs {
		res := analyzeDocument(doc, opts)
		if opts.Verbose {
			log.Printf("[VERBOSE] %s: title=%q company=%q skills=%d", res.Source, res.Offer.Title, res.Offer.Company, len(res.Offer.Skills))
		}
		if opts.Validate {
			if err := validateResult(res); err != nil {
				return err
			}
		}
		results = append(results, res)
	}

	if opts.XLSX != "" {
		rows := make([]export.Row, 0, len(results))
		for _, res := range results {
			rows = append(rows, export.Row{Source: res.Source, Offer: res.Offer})
		}
		path, err := export.ExportOffers(rows, opts.XLSX)
		if err != nil {
			return err
		}
		fmt.Fprintf(errOut, "Excel export: %s\n", path)
	}

	if opts.JSON {
		return writeJSON(out, results)
	}

	printer := observability.NewPrinter(out)
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", res.Source)
		}
		printer.PrintExtractedOffer(&res.Offer)
		if opts.Trace {
			printer.PrintTrace(res.Trace)
		}
		if res.Draft != nil {
			printer.PrintDraft(res.Draft)
		}
	}
	return nil
}

// loadOffers resolves the input flags to ingested documents, in flag order.
func loadOffers(ctx context.Context, opts analyzeOptions, stdin io.Reader) ([]ingestion.Document, error) {
	switch {
	case len(opts.Inputs) > 0:
		return ingestion.IngestFiles(ctx, opts.Inputs, opts.Concurrency)

	case opts.URL != "":
		urlOpts := opts.URLOptions
		text, meta, err := ingestion.IngestFromURL(ctx, opts.URL, &urlOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest from URL: %w", err)
		}
		return []ingestion.Document{{Path: opts.URL, Text: text, Metadata: meta}}, nil

	default:
		text, meta, err := ingestion.ReadInput(stdin, ingestion.SourceStdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read offer from stdin: %w", err)
		}
		return []ingestion.Document{{Path: "-", Text: text, Metadata: meta}}, nil
	}
}

func analyzeDocument(doc ingestion.Document, opts analyzeOptions) analyzedOffer {
	extracted, trace := offer.Explain(doc.Text)
	res := analyzedOffer{
		Source:   doc.Path,
		Offer:    extracted,
		Metadata: doc.Metadata,
	}
	if opts.Trace {
		res.Trace = trace
	}
	if opts.Draft {
		draft := offer.ToDraft(extracted, opts.Today)
		res.Draft = &draft
	}
	return res
}

func validateResult(res analyzedOffer) error {
	if err := schemas.ValidateOffer(res.Offer); err != nil {
		return fmt.Errorf("%s: extracted offer failed schema validation: %w", res.Source, err)
	}
	if res.Draft != nil {
		if err := schemas.ValidateDraft(*res.Draft); err != nil {
			return fmt.Errorf("%s: application draft failed schema validation: %w", res.Source, err)
		}
	}
	return nil
}

// writeJSON prints a single result as an object and several as an array.
func writeJSON(out io.Writer, results []analyzedOffer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
