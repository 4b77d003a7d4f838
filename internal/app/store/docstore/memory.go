// internal/app/store/docstore/memory.go
package docstore

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Database used by tests and by the "memory" store
// backend. Documents keep insertion order. Unique fields registered with
// EnsureUnique are checked under the collection lock, so concurrent inserts
// of the same key cannot both succeed.
type Memory struct {
	mu    sync.Mutex
	colls map[string]*memCollection
}

// NewMemory returns an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string]*memCollection)}
}

// Collection returns the named collection, creating it on first use.
func (m *Memory) Collection(name string) Collection {
	return m.coll(name)
}

// Ping always succeeds unless ctx is already done.
func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// EnsureUnique makes field a unique key of the named collection.
func (m *Memory) EnsureUnique(name, field string) {
	c := m.coll(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.unique {
		if f == field {
			return
		}
	}
	c.unique = append(c.unique, field)
}

func (m *Memory) coll(name string) *memCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.colls[name]
	if !ok {
		c = &memCollection{name: name}
		m.colls[name] = c
	}
	return c
}

type memCollection struct {
	name   string
	mu     sync.RWMutex
	docs   []Doc
	unique []string
}

func (c *memCollection) Name() string { return c.name }

func (c *memCollection) Find(ctx context.Context, filter Doc, opts FindOptions) ([]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Doc, 0)
	for _, d := range c.docs {
		if opts.Limit > 0 && int64(len(out)) >= opts.Limit {
			break
		}
		if matches(d, filter) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (c *memCollection) FindOne(ctx context.Context, filter Doc) (Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.docs {
		if matches(d, filter) {
			return cloneDoc(d), nil
		}
	}
	return nil, ErrNotFound
}

func (c *memCollection) InsertOne(ctx context.Context, doc Doc) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	d := cloneDoc(withoutID(doc))
	id := primitive.NewObjectID()
	d["_id"] = id

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conflicts(d, -1) {
		return InsertResult{}, ErrDuplicate
	}
	c.docs = append(c.docs, d)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memCollection) UpdateOne(ctx context.Context, filter Doc, set Doc) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	set = withoutID(set)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		next := cloneDoc(d)
		changed := false
		for k, v := range set {
			if cur, ok := next[k]; !ok || !reflect.DeepEqual(cur, v) {
				changed = true
			}
			next[k] = cloneValue(v)
		}
		if !changed {
			return UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
		}
		if c.conflicts(next, i) {
			return UpdateResult{}, ErrDuplicate
		}
		c.docs[i] = next
		return UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return UpdateResult{Acknowledged: true}, nil
}

func (c *memCollection) DeleteOne(ctx context.Context, filter Doc) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, d := range c.docs {
		if matches(d, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return DeleteResult{Acknowledged: true}, nil
}

// conflicts reports whether d collides with another document on a unique
// field. skip is the index of d itself when updating, -1 on insert.
// Must be called with c.mu held.
func (c *memCollection) conflicts(d Doc, skip int) bool {
	for _, field := range c.unique {
		v := d[field]
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if reflect.DeepEqual(other[field], v) {
				return true
			}
		}
	}
	return false
}

// matches reports whether every filter key equals the document's value.
// A nil filter value matches a missing field, as in Mongo.
func matches(d Doc, filter Doc) bool {
	for k, want := range filter {
		got, ok := d[k]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func cloneDoc(d Doc) Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Doc:
		return cloneDoc(t)
	case map[string]any:
		return cloneDoc(Doc(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
