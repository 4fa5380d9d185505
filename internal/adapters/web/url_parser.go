package web

import (
	"regexp"
	"strings"

	"tweetfeed/internal/domain"
)

// profileURLRegex matches Twitter/X profile URLs and extracts the handle.
// Accepts twitter.com, x.com, www. and mobile. hosts.
// Query parameters and fragments are ignored.
var profileURLRegex = regexp.MustCompile(
	`^https?://(?:www\.|mobile\.)?(?:twitter\.com|x\.com)/@?(\w{1,15})/?(?:[?#].*)?$`,
)

// handleRegex matches a bare handle with an optional leading @.
var handleRegex = regexp.MustCompile(`^@?(\w{1,15})$`)

// NormalizeHandle extracts a screen name from a handle or profile URL.
// Returns domain.ErrInvalidHandle if the input is neither.
func NormalizeHandle(input string) (string, error) {
	input = strings.TrimSpace(input)
	if m := handleRegex.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if m := profileURLRegex.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", domain.ErrInvalidHandle
}
