// internal/app/store/docstore/docstore.go
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doc is a schema-less document. Filters are documents too: every key must
// equal the given value (exact match, no operators).
type Doc = bson.M

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned by InsertOne when a unique key already exists.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned by ParseID for malformed ObjectID strings.
	ErrInvalidID = errors.New("invalid id")
)

// InsertResult mirrors the driver's insertOne acknowledgement.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// UpdateResult mirrors the driver's updateOne acknowledgement.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult mirrors the driver's deleteOne acknowledgement.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// FindOptions narrows a Find. A zero Limit means no limit.
type FindOptions struct {
	Limit int64
}

// Collection is the set of operations handlers need from a named group of
// documents. Implementations must be safe for concurrent use.
type Collection interface {
	Name() string
	Find(ctx context.Context, filter Doc, opts FindOptions) ([]Doc, error)
	FindOne(ctx context.Context, filter Doc) (Doc, error)
	InsertOne(ctx context.Context, doc Doc) (InsertResult, error)
	// UpdateOne applies $set semantics: only the given fields change.
	UpdateOne(ctx context.Context, filter Doc, set Doc) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Doc) (DeleteResult, error)
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}

// ParseID converts a hex string to an ObjectID, returning ErrInvalidID when
// the string is not a valid 24-character hex id.
func ParseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// withoutID returns a shallow copy of doc with any _id removed, so inserts
// always get a server-assigned id.
func withoutID(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
