package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrExists is returned by Create when a user with the same email is
	// already stored.
	ErrExists = errors.New("user already exists")
	// ErrEmailRequired is returned by Create when the document has no email.
	ErrEmailRequired = errors.New("email is required")
	errBadRole       = errors.New(`role must be "student"|"instructor"|"admin"`)
)

type Store struct {
	c docstore.Collection
}

func New(db docstore.Database) *Store {
	return &Store{c: db.Collection(models.CollUsers)}
}

// List returns every user document.
func (s *Store) List(ctx context.Context) ([]docstore.Doc, error) {
	return s.c.Find(ctx, nil, docstore.FindOptions{})
}

// GetByID loads a user by ObjectID. Returns docstore.ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (docstore.Doc, error) {
	return s.c.FindOne(ctx, docstore.Doc{models.FieldID: id})
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (docstore.Doc, error) {
	return s.c.FindOne(ctx, docstore.Doc{models.FieldEmail: normalize.Email(email)})
}

// RoleByEmail returns the stored role for email. A missing user, or a user
// without a role, yields "" and no error.
func (s *Store) RoleByEmail(ctx context.Context, email string) (string, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	role, _ := u[models.FieldRole].(string)
	return normalize.Role(role), nil
}

// Create inserts doc as a new user. The email is normalized and must be
// present; a second user with the same email is rejected with ErrExists by
// the unique index rather than a prior lookup. Any role in doc is dropped:
// roles are granted only through SetRole.
func (s *Store) Create(ctx context.Context, doc docstore.Doc) (docstore.InsertResult, error) {
	raw, _ := doc[models.FieldEmail].(string)
	email := normalize.Email(raw)
	if email == "" {
		return docstore.InsertResult{}, ErrEmailRequired
	}

	u := htmlsanitize.SanitizeDoc(doc)
	u[models.FieldEmail] = email
	delete(u, models.FieldRole)

	res, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return docstore.InsertResult{}, ErrExists
		}
		return docstore.InsertResult{}, fmt.Errorf("insert user: %w", err)
	}
	return res, nil
}

// SetRole sets the role field of the user with id, leaving every other field
// untouched.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) (docstore.UpdateResult, error) {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return docstore.UpdateResult{}, errBadRole
	}
	return s.c.UpdateOne(ctx, docstore.Doc{models.FieldID: id}, docstore.Doc{models.FieldRole: role})
}

// Delete removes the user with id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (docstore.DeleteResult, error) {
	return s.c.DeleteOne(ctx, docstore.Doc{models.FieldID: id})
}
