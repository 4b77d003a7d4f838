// internal/app/system/normalize/normalize.go
package normalize

import (
	"net/url"
	"strings"
)

// Email trims surrounding whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims surrounding whitespace from a query or path value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// PathParam decodes a path parameter and trims it. chi matches on the
// escaped path when one is present, so "a%40b.com" arrives still encoded.
// A value that does not decode is returned trimmed but otherwise as-is.
func PathParam(s string) string {
	if dec, err := url.PathUnescape(s); err == nil {
		s = dec
	}
	return strings.TrimSpace(s)
}
