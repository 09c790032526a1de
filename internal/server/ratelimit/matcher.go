package ratelimit

import "strings"

// unlimited is returned for the health check and CORS preflight.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the config for method and path, or nil when the
// default limit applies. An exact path wins over a "/"-terminated prefix.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "OPTIONS" || (method == "GET" && path == "/health") {
		u := unlimited
		return &u
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
