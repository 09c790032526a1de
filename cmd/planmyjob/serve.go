package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/planmyjob/internal/config"
	"github.com/jonathan/planmyjob/internal/ingestion"
	"github.com/jonathan/planmyjob/internal/letter"
	"github.com/jonathan/planmyjob/internal/server"
)

var (
	servePort      int
	serveBrowser   bool
	serveTemplates string
	serveConfig    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server that exposes offer analysis, application drafts, Excel export and cover letters. " +
		"The port comes from --port, then the config file, then PLANMYJOB_PORT (default 8080).",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveBrowser, "browser", false, "Allow headless Chrome rendering for URL analysis")
	serveCmd.Flags().StringVar(&serveTemplates, "templates", "", "Path to a letter templates JSON file")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfig)
	if err != nil {
		return err
	}

	envCfg, err := config.NewServerConfig()
	if err != nil {
		return err
	}

	srvCfg, err := serverConfig(cfg, envCfg)
	if err != nil {
		return err
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig merges flags, the config file and the environment.
func serverConfig(cfg *config.Config, envCfg *config.ServerConfig) (server.Config, error) {
	port := envCfg.Port
	switch {
	case servePort != 0:
		port = servePort
	case cfg.Port != 0:
		port = cfg.Port
	}

	templatesPath := serveTemplates
	if templatesPath == "" {
		templatesPath = cfg.Templates
	}
	var set *letter.TemplateSet
	if templatesPath != "" {
		loaded, err := letter.LoadTemplatesFile(templatesPath)
		if err != nil {
			return server.Config{}, err
		}
		set = loaded
	}

	return server.Config{
		Port:       port,
		CORSOrigin: envCfg.CORSOrigin,
		Templates:  set,
		URL: ingestion.URLOptions{
			UseBrowser: serveBrowser || cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		},
	}, nil
}
