// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
)

// strict removes every element; script and style bodies are dropped with
// their tags.
var strict = bluemonday.StrictPolicy()

// IsPlainText reports whether s contains no markup at all.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}

// Sanitize strips HTML elements from s and returns the remaining text as
// typed. bluemonday escapes the text it keeps ("5 < 10" becomes "5 &lt; 10");
// that is undone because values are stored and served as JSON, not HTML.
func Sanitize(s string) string {
	if IsPlainText(s) {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// SanitizeDoc returns a copy of doc with every string value sanitized,
// descending into nested objects and arrays. Keys are kept as-is.
func SanitizeDoc(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return Sanitize(t)
	case bson.M:
		return SanitizeDoc(t)
	case map[string]any:
		return map[string]any(SanitizeDoc(bson.M(t)))
	case bson.A:
		return bson.A(sanitizeSlice(t))
	case []any:
		return sanitizeSlice(t)
	default:
		return v
	}
}

func sanitizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = sanitizeValue(e)
	}
	return out
}
