package origin

import (
	"regexp"
	"strings"
)

// CompilePatterns turns the configured allowed hosts into regex patterns,
// with '*' acting as a wildcard.
func CompilePatterns(allowedHosts []string) []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, host := range allowedHosts {
		pattern := "^" + regexp.QuoteMeta(host) + "$"
		pattern = strings.ReplaceAll(pattern, `\*`, `.*`)
		regex, err := regexp.Compile(pattern)
		if err == nil {
			patterns = append(patterns, regex)
		}
	}
	return patterns
}

// IsAllowed checks a handshake origin against the allowed host patterns.
func IsAllowed(host string, origins []*regexp.Regexp) bool {
	for _, pattern := range origins {
		if pattern.MatchString(host) {
			return true
		}
	}
	return false
}
