package classstore

import (
	"context"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindfulness/internal/domain/models"
)

type Store struct {
	c docstore.Collection
}

func New(db docstore.Database) *Store {
	return &Store{c: db.Collection(models.CollClasses)}
}

// List returns every class.
func (s *Store) List(ctx context.Context) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{})
}

// Top returns the first limit classes in natural order.
func (s *Store) Top(ctx context.Context, limit int64) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{Limit: limit})
}

// ByInstructor returns the classes whose instructorId equals instructorID.
// The id is matched as stored; no instructor lookup is made.
func (s *Store) ByInstructor(ctx context.Context, instructorID string) ([]docstore.Doc, error) {
	return s.c.Find(ctx, docstore.Doc{models.FieldInstructorID: instructorID}, docstore.FindOptions{})
}

// Create stores doc with markup stripped from its string fields.
func (s *Store) Create(ctx context.Context, doc docstore.Doc) (docstore.InsertResult, error) {
	return s.c.InsertOne(ctx, htmlsanitize.SanitizeDoc(doc))
}
