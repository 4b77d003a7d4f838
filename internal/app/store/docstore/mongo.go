// internal/app/store/docstore/mongo.go
package docstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDatabase adapts a *mongo.Database to Database.
type MongoDatabase struct {
	db *mongo.Database
}

// NewMongo wraps db.
func NewMongo(db *mongo.Database) *MongoDatabase {
	return &MongoDatabase{db: db}
}

// Collection returns the named collection.
func (m *MongoDatabase) Collection(name string) Collection {
	return &mongoCollection{c: m.db.Collection(name)}
}

// Ping checks connectivity against the primary.
func (m *MongoDatabase) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

type mongoCollection struct {
	c *mongo.Collection
}

func (mc *mongoCollection) Name() string { return mc.c.Name() }

func (mc *mongoCollection) Find(ctx context.Context, filter Doc, opts FindOptions) ([]Doc, error) {
	fo := options.Find()
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	cur, err := mc.c.Find(ctx, nonNil(filter), fo)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]Doc, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (mc *mongoCollection) FindOne(ctx context.Context, filter Doc) (Doc, error) {
	var doc Doc
	if err := mc.c.FindOne(ctx, nonNil(filter)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (mc *mongoCollection) InsertOne(ctx context.Context, doc Doc) (InsertResult, error) {
	d := withoutID(doc)
	d["_id"] = primitive.NewObjectID()
	res, err := mc.c.InsertOne(ctx, d)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return InsertResult{}, ErrDuplicate
		}
		return InsertResult{}, err
	}
	return InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (mc *mongoCollection) UpdateOne(ctx context.Context, filter Doc, set Doc) (UpdateResult, error) {
	res, err := mc.c.UpdateOne(ctx, nonNil(filter), Doc{"$set": withoutID(set)})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return UpdateResult{}, ErrDuplicate
		}
		return UpdateResult{}, err
	}
	return UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (mc *mongoCollection) DeleteOne(ctx context.Context, filter Doc) (DeleteResult, error) {
	res, err := mc.c.DeleteOne(ctx, nonNil(filter))
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// The driver rejects a nil filter; an empty document matches everything.
func nonNil(filter Doc) Doc {
	if filter == nil {
		return Doc{}
	}
	return filter
}
