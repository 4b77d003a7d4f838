// internal/domain/models/collections.go
package models

// Collection names. "instractors" and "selectedClasses" keep the spelling
// used by the existing data and clients.
const (
	CollUsers           = "users"
	CollInstructors     = "instractors"
	CollClasses         = "classes"
	CollSelectedClasses = "selectedClasses"
)

// Class documents reference their instructor through this field.
const FieldInstructorID = "instructorId"
