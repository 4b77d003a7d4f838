// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
)

// Owns reports whether the caller identified by claimed may act on the
// resource belonging to requested. Both sides are compared as normalized
// emails; an empty side never owns anything.
func Owns(claimed, requested string) bool {
	c := normalize.Email(claimed)
	q := normalize.Email(requested)
	return c != "" && c == q
}

// Email returns the verified caller's normalized email, or "" when the
// request carries no identity.
func Email(r *http.Request) string {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		return ""
	}
	return id.Email
}

// OwnsRequest is Owns applied to the identity attached to r.
func OwnsRequest(r *http.Request, requested string) bool {
	return Owns(Email(r), requested)
}
