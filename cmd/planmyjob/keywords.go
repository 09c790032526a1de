package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/keywords"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the technologies the analyzer recognizes",
	RunE:  runKeywords,
}

var keywordsJSON bool

func init() {
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "Print a JSON array")
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	return listKeywords(cmd.OutOrStdout(), keywordsJSON)
}

func listKeywords(out io.Writer, asJSON bool) error {
	options := keywords.Options()
	if asJSON {
		if err := json.NewEncoder(out).Encode(options); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}
	for _, kw := range options {
		fmt.Fprintln(out, kw)
	}
	return nil
}
