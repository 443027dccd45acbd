// Package headers turns repeated -H "Name: value" flags into the header map
// a page fetch carries.
package headers

import (
	"net/http"
	"strings"
)

// Parse splits each entry on its first colon. Entries without a colon or
// with an empty name are dropped. Names are canonicalized, so a later flag
// overrides an earlier spelling of the same header (useful when a shell
// alias already sets a Cookie and the caller wants to replace it).
func Parse(entries []string) map[string]string {
	if len(entries) == 0 {
		return nil
	}
	m := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m[http.CanonicalHeaderKey(name)] = strings.TrimSpace(value)
	}
	return m
}
