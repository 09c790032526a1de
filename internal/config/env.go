package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultPort is the HTTP API port when neither flag, file nor environment set one.
const DefaultPort = 8080

// ServerConfig holds the HTTP API settings read from the environment.
type ServerConfig struct {
	Port       int
	CORSOrigin string
}

// NewServerConfig reads PLANMYJOB_PORT (default: 8080) and
// PLANMYJOB_CORS_ORIGIN (default: *).
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PLANMYJOB_PORT")
	if portStr == "" {
		portStr = strconv.Itoa(DefaultPort)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PLANMYJOB_PORT: %v", err)
	}

	origin := os.Getenv("PLANMYJOB_CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	config := &ServerConfig{
		Port:       port,
		CORSOrigin: origin,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PLANMYJOB_PORT must be between 1 and 65535, got: %d", c.Port)
	}
	return nil
}

// Addr is the listen address for the port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
