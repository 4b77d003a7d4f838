package testutil

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/indexes"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryDB returns an in-memory database with the application's unique
// keys registered.
func NewMemoryDB() *docstore.Memory {
	m := docstore.NewMemory()
	indexes.EnsureMemory(m)
	return m
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db docstore.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given database.
func NewFixtures(t *testing.T, db docstore.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() docstore.Database {
	return f.db
}

// Insert stores doc in the named collection and returns its id.
func (f *Fixtures) Insert(coll string, doc docstore.Doc) primitive.ObjectID {
	f.t.Helper()
	res, err := f.db.Collection(coll).InsertOne(context.Background(), doc)
	if err != nil {
		f.t.Fatalf("failed to insert into %s: %v", coll, err)
	}
	return res.InsertedID.(primitive.ObjectID)
}

// CreateUser stores a user with the given email and role. An empty role
// leaves the field absent, as for a freshly signed-up user.
func (f *Fixtures) CreateUser(email, role string) primitive.ObjectID {
	f.t.Helper()
	doc := docstore.Doc{"email": email, "name": "Test " + email}
	if role != "" {
		doc[models.FieldRole] = role
	}
	return f.Insert(models.CollUsers, doc)
}

// CreateInstructor stores an instructor record.
func (f *Fixtures) CreateInstructor(email, name string) primitive.ObjectID {
	f.t.Helper()
	return f.Insert(models.CollInstructors, docstore.Doc{
		"email": email,
		"name":  name,
		"role":  models.RoleInstructor,
	})
}

// CreateClass stores a class taught by instructorID.
func (f *Fixtures) CreateClass(instructorID, name string) primitive.ObjectID {
	f.t.Helper()
	return f.Insert(models.CollClasses, docstore.Doc{
		models.FieldInstructorID: instructorID,
		"name":                   name,
	})
}

// CreateSelection stores a cart entry for email.
func (f *Fixtures) CreateSelection(email, classID string) primitive.ObjectID {
	f.t.Helper()
	return f.Insert(models.CollSelectedClasses, docstore.Doc{
		"email":   email,
		"classId": classID,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Call counting                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// CountingDB wraps a Database and counts every collection operation, so tests
// can assert that a request never reached the store.
type CountingDB struct {
	docstore.Database
	calls atomic.Int64
}

// NewCountingDB wraps db.
func NewCountingDB(db docstore.Database) *CountingDB {
	return &CountingDB{Database: db}
}

// Calls returns the number of collection operations so far.
func (c *CountingDB) Calls() int64 { return c.calls.Load() }

// Reset zeroes the counter.
func (c *CountingDB) Reset() { c.calls.Store(0) }

// Collection returns a counting view of the named collection.
func (c *CountingDB) Collection(name string) docstore.Collection {
	return &countingCollection{Collection: c.Database.Collection(name), calls: &c.calls}
}

type countingCollection struct {
	docstore.Collection
	calls *atomic.Int64
}

func (c *countingCollection) Find(ctx context.Context, filter docstore.Doc, opts docstore.FindOptions) ([]docstore.Doc, error) {
	c.calls.Add(1)
	return c.Collection.Find(ctx, filter, opts)
}

func (c *countingCollection) FindOne(ctx context.Context, filter docstore.Doc) (docstore.Doc, error) {
	c.calls.Add(1)
	return c.Collection.FindOne(ctx, filter)
}

func (c *countingCollection) InsertOne(ctx context.Context, doc docstore.Doc) (docstore.InsertResult, error) {
	c.calls.Add(1)
	return c.Collection.InsertOne(ctx, doc)
}

func (c *countingCollection) UpdateOne(ctx context.Context, filter, set docstore.Doc) (docstore.UpdateResult, error) {
	c.calls.Add(1)
	return c.Collection.UpdateOne(ctx, filter, set)
}

func (c *countingCollection) DeleteOne(ctx context.Context, filter docstore.Doc) (docstore.DeleteResult, error) {
	c.calls.Add(1)
	return c.Collection.DeleteOne(ctx, filter)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Failing store                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// FailingDB is a Database whose every operation returns Err.
type FailingDB struct {
	Err error
}

func (f FailingDB) Collection(name string) docstore.Collection { return failingCollection{name, f.Err} }
func (f FailingDB) Ping(ctx context.Context) error              { return f.Err }

type failingCollection struct {
	name string
	err  error
}

func (f failingCollection) Name() string { return f.name }
func (f failingCollection) Find(context.Context, docstore.Doc, docstore.FindOptions) ([]docstore.Doc, error) {
	return nil, f.err
}
func (f failingCollection) FindOne(context.Context, docstore.Doc) (docstore.Doc, error) {
	return nil, f.err
}
func (f failingCollection) InsertOne(context.Context, docstore.Doc) (docstore.InsertResult, error) {
	return docstore.InsertResult{}, f.err
}
func (f failingCollection) UpdateOne(context.Context, docstore.Doc, docstore.Doc) (docstore.UpdateResult, error) {
	return docstore.UpdateResult{}, f.err
}
func (f failingCollection) DeleteOne(context.Context, docstore.Doc) (docstore.DeleteResult, error) {
	return docstore.DeleteResult{}, f.err
}
