package ratelimit

import "strings"

// unlimited marks endpoints that never consume tokens
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for a request, preferring exact
// path matches over prefix matches. It returns nil when nothing matches.
// The banner and health check are never limited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && (path == "/" || path == "/health") {
		return unlimited
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
