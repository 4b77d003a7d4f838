package instructorstore

import (
	"context"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store reads and writes instructor records. They live in their own
// collection, separate from users, even though the shapes overlap.
type Store struct {
	c docstore.Collection
}

func New(db docstore.Database) *Store {
	return &Store{c: db.Collection(models.CollInstructors)}
}

// List returns every instructor.
func (s *Store) List(ctx context.Context) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{})
}

// Top returns the first limit instructors in natural order.
func (s *Store) Top(ctx context.Context, limit int64) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{Limit: limit})
}

// GetByID loads one instructor. Returns docstore.ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (docstore.Doc, error) {
	return s.c.FindOne(ctx, docstore.Doc{models.FieldID: id})
}

// Create stores doc with markup stripped from its string fields.
func (s *Store) Create(ctx context.Context, doc docstore.Doc) (docstore.InsertResult, error) {
	return s.c.InsertOne(ctx, htmlsanitize.SanitizeDoc(doc))
}

// Delete removes the instructor with id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (docstore.DeleteResult, error) {
	return s.c.DeleteOne(ctx, docstore.Doc{models.FieldID: id})
}
