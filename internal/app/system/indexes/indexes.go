// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec describes one desired single-field ascending index.
type Spec struct {
	Collection string
	Field      string
	Name       string
	Unique     bool
}

// Specs is the full set of indexes the application relies on.
// users.email being unique is what makes POST /users an atomic
// insert-if-absent.
var Specs = []Spec{
	{Collection: models.CollUsers, Field: models.FieldEmail, Name: "uniq_users_email", Unique: true},
	{Collection: models.CollClasses, Field: models.FieldInstructorID, Name: "idx_classes_instructorid"},
	{Collection: models.CollSelectedClasses, Field: models.FieldEmail, Name: "idx_selectedclasses_email"},
}

func (s Spec) model() mongo.IndexModel {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D{{Key: s.Field, Value: 1}}, Options: opts}
}

/*
EnsureAll is called at startup. Each collection is reconciled
independently and problems are aggregated so startup can fail fast with
the whole picture.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	byColl := map[string][]mongo.IndexModel{}
	var order []string
	for _, s := range Specs {
		if _, seen := byColl[s.Collection]; !seen {
			order = append(order, s.Collection)
		}
		byColl[s.Collection] = append(byColl[s.Collection], s.model())
	}

	var problems []string
	for _, name := range order {
		if err := ensureIndexSet(ctx, db.Collection(name), byColl[name]); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// EnsureMemory registers the unique Specs on an in-memory database.
// Non-unique indexes have no meaning there.
func EnsureMemory(m *docstore.Memory) {
	for _, s := range Specs {
		if s.Unique {
			m.EnsureUnique(s.Collection, s.Field)
		}
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops ex and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, ex existingIndex, m mongo.IndexModel, name, sig string) error {
	if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
		return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), name, err)
	}
	return create(ctx, coll, m, name, sig)
}

func create(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, name, sig string) error {
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) && boolVal(m.Options.Unique) {
			field := strings.SplitN(sig, ":", 2)[0]
			return fmt.Errorf("%s(%s): cannot create unique index, duplicates exist on %s.%s; find them with "+
				`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
				coll.Name(), name, coll.Name(), field, coll.Name(), field)
		}
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range desired {
		name := *m.Options.Name
		unique := m.Options.Unique
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(unique)))

		log.Info("ensuring index")

		if ex, ok := existing[sig]; ok {
			if boolVal(unique) == boolVal(ex.Unique) && ex.Name == name {
				log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
				continue
			}
			// Name or uniqueness differs; replace it.
			if err := recreate(ctx, coll, ex, m, name, sig); err != nil {
				log.Warn("index recreate failed", zap.Error(err))
				errs = append(errs, err.Error())
				continue
			}
			log.Info("index dropped and recreated",
				zap.String("previous", ex.Name),
				zap.Duration("took", time.Since(start)))
			continue
		}

		err := create(ctx, coll, m, name, sig)
		if isOptionsConflictErr(err) {
			// Another process may have created it between List and CreateOne.
			if ex, ok := listExisting(ctx, coll)[sig]; ok {
				if boolVal(unique) == boolVal(ex.Unique) {
					log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
					continue
				}
				err = recreate(ctx, coll, ex, m, name, sig)
			}
		}
		if err != nil {
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			errs = append(errs, err.Error())
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
