// internal/domain/models/user.go
package models

// Users and instructors are schema-less documents. The fields below are the
// only ones the server reads or writes; everything else a client submits is
// stored and returned as-is.
const (
	FieldID    = "_id"
	FieldEmail = "email"
	FieldRole  = "role"
)

// User roles. A user without a role field has not been promoted yet.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleStudent,
		RoleInstructor,
		RoleAdmin,
	}
}

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
