// Package profileurl validates profile page URLs and parses @handles.
package profileurl

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that raw is an http(s) URL with a host.
func Validate(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// Handle extracts the @handle from a profile URL like
// https://makerworld.com/en/@darionji. Returns "" when the URL carries none.
func Handle(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	for _, seg := range strings.Split(parsed.Path, "/") {
		if strings.HasPrefix(seg, "@") && len(seg) > 1 {
			return strings.TrimPrefix(seg, "@")
		}
	}
	return ""
}
