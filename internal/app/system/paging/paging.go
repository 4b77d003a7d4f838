// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the number of items returned by the "top" listings when
// the caller does not ask for a specific count.
const DefaultLimit int64 = 6

// ParseLimit extracts the "limit" query parameter. Missing, unparsable or
// non-positive values yield def.
func ParseLimit(r *http.Request, def int64) int64 {
	s := query.Get(r, "limit")
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}
