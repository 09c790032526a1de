// Package main provides the planmyjob CLI: job offer analysis, cover letters
// and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "planmyjob",
	Short: "Analyze French job offers and write cover letters",
	Long: "planmyjob extracts the key facts of a French job offer (title, company, contract, remote policy, " +
		"skills, salary) and writes a tailored cover letter, from the command line or over a REST API.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the optional --config file. An empty path
// yields an empty configuration.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
