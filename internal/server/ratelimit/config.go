package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultLimit           = 1000
	defaultCleanupInterval = 5 * time.Minute
)

// EndpointConfig is the limit applied to one route. A Path ending in "/"
// also covers every path below it.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// tier is a limit shared by several routes.
type tier struct {
	limit, burst int
}

// env reads typed settings, falling back to a default when a variable is
// unset or does not parse.
type env func(key string) (string, bool)

func (e env) stringOr(key, def string) string {
	if v, ok := e(key); ok && v != "" {
		return v
	}
	return def
}

func (e env) intOr(key string, def int) int {
	if n, err := strconv.Atoi(e.stringOr(key, "")); err == nil {
		return n
	}
	return def
}

func (e env) boolOr(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.stringOr(key, "")); err == nil {
		return b
	}
	return def
}

func (e env) durationOr(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.stringOr(key, "")); err == nil {
		return d
	}
	return def
}

// ipSet parses a comma-separated list of client IPs.
func (e env) ipSet(key string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(e.stringOr(key, ""), ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}

// LoadConfig reads the RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	return loadConfig(os.LookupEnv)
}

func loadConfig(e env) *Config {
	if !e.boolOr("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    e.intOr("RATE_LIMIT_DEFAULT_LIMIT", defaultLimit),
		DefaultWindow:   e.durationOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: e.durationOr("RATE_LIMIT_CLEANUP_INTERVAL", defaultCleanupInterval),
		Whitelist:       e.ipSet("RATE_LIMIT_WHITELIST"),
		Blacklist:       e.ipSet("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: endpointConfigs(e),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Routes that may fetch
// a remote page or build a workbook share the analyze tier; the letter and
// draft computations share the write tier. GET routes use the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(os.LookupEnv)
}

func endpointConfigs(e env) []EndpointConfig {
	analyze := tier{
		limit: e.intOr("RATE_LIMIT_ANALYZE_LIMIT", 30),
		burst: e.intOr("RATE_LIMIT_ANALYZE_BURST", 5),
	}
	write := tier{
		limit: e.intOr("RATE_LIMIT_WRITE_LIMIT", 120),
		burst: e.intOr("RATE_LIMIT_WRITE_BURST", 20),
	}

	routes := []struct {
		path string
		tier tier
	}{
		{"/offers/analyze", analyze},
		{"/offers/export", analyze},
		{"/offers/draft", write},
		{"/letters", write},
		{"/letters/", write},
	}

	configs := make([]EndpointConfig, 0, len(routes))
	for _, r := range routes {
		configs = append(configs, EndpointConfig{
			Path:   r.path,
			Method: "POST",
			Limit:  r.tier.limit,
			Window: time.Minute,
			Burst:  r.tier.burst,
		})
	}
	return configs
}
