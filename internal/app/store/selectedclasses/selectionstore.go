package selectionstore

import (
	"context"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds cart entries: one document per class a student selected,
// keyed by the student's email.
type Store struct {
	c docstore.Collection
}

func New(db docstore.Database) *Store {
	return &Store{c: db.Collection(models.CollSelectedClasses)}
}

// List returns every cart entry of every student.
func (s *Store) List(ctx context.Context) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{})
}

// ListByEmail returns the cart entries owned by email.
func (s *Store) ListByEmail(ctx context.Context, email string) ([]docstore.Doc, error) {
	return s.c.Find(ctx, docstore.Doc{models.FieldEmail: normalize.Email(email)}, docstore.FindOptions{})
}

// Create stores doc as a cart entry of owner. Any email in doc is replaced
// by owner.
func (s *Store) Create(ctx context.Context, owner string, doc docstore.Doc) (docstore.InsertResult, error) {
	entry := htmlsanitize.SanitizeDoc(doc)
	if entry == nil {
		entry = docstore.Doc{}
	}
	entry[models.FieldEmail] = normalize.Email(owner)
	return s.c.InsertOne(ctx, entry)
}

// Delete removes the cart entry with id only if it belongs to owner.
func (s *Store) Delete(ctx context.Context, owner string, id primitive.ObjectID) (docstore.DeleteResult, error) {
	return s.c.DeleteOne(ctx, docstore.Doc{
		models.FieldID:    id,
		models.FieldEmail: normalize.Email(owner),
	})
}
