package tasks

import (
	"regexp"
	"strings"
)

// DefaultProfileHost is the host whose profile URLs [ExtractIdentifier] recognizes.
const DefaultProfileHost = "letterboxd.com"

var defaultProfilePattern = profilePattern(DefaultProfileHost)

func profilePattern(host string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(host) + `/([^/]+)`)
}

// ExtractIdentifier returns the first path segment after "letterboxd.com/" in input,
// or the trimmed input when it is not a profile URL.
//
// Empty input is returned as is and left to the existence check.
func ExtractIdentifier(input string) string {
	return extractIdentifier(defaultProfilePattern, input)
}

func extractIdentifier(re *regexp.Regexp, input string) string {
	if m := re.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return strings.TrimSpace(input)
}
