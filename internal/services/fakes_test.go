package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"live-airlines/provisioner/internal/common"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/models/gorm"
	"live-airlines/provisioner/internal/schema"
)

func init() {
	logging.SetLogger(zap.NewNop().Sugar())
}

// memCatalog is an in-memory schema.Catalog
type memCatalog struct {
	mu      sync.Mutex
	indexes map[string][]schema.ExistingIndex
	listErr error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{indexes: map[string][]schema.ExistingIndex{}}
}

func (c *memCatalog) Database() string { return schema.DefaultDatabase }

func (c *memCatalog) CollectionNames(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	var out []string
	for n := range c.indexes {
		out = append(out, n)
	}
	return out, nil
}

func (c *memCatalog) CreateCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[name] = nil
	return nil
}

func (c *memCatalog) Indexes(ctx context.Context, coll string) ([]schema.ExistingIndex, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schema.ExistingIndex(nil), c.indexes[coll]...), nil
}

func (c *memCatalog) CreateIndex(ctx context.Context, coll string, idx schema.IndexSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[coll] = append(c.indexes[coll], schema.ExistingIndex{Name: idx.Name, Keys: idx.Keys})
	return nil
}

type recorder struct {
	runs []*gorm.ProvisionRun
	err  error
}

func (r *recorder) Record(ctx context.Context, run *gorm.ProvisionRun) error {
	r.runs = append(r.runs, run)
	return r.err
}

type heldLock struct{}

func (heldLock) Acquire(ctx context.Context, key string) (common.ReleaseFunc, error) {
	return nil, common.ErrLockHeld
}

type countingLock struct {
	acquired, released int
	key                string
}

func (l *countingLock) Acquire(ctx context.Context, key string) (common.ReleaseFunc, error) {
	l.acquired++
	l.key = key
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

// memStore is an in-memory DocumentStore keyed by collection. Filters are
// matched only in the shapes the services build.
type memStore struct {
	docs      map[string][]bson.M
	filters   map[string]interface{}
	dropped   bool
	insertErr error
	hideReads bool
}

func newMemStore() *memStore {
	return &memStore{docs: map[string][]bson.M{}, filters: map[string]interface{}{}}
}

func (s *memStore) Database() string { return schema.DefaultDatabase }

func (s *memStore) InsertOne(ctx context.Context, coll string, doc interface{}) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.docs[coll] = append(s.docs[coll], doc.(bson.M))
	return nil
}

func (s *memStore) InsertMany(ctx context.Context, coll string, docs []interface{}) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	for _, d := range docs {
		m := bson.M{}
		for _, e := range d.(bson.D) {
			m[e.Key] = e.Value
		}
		s.docs[coll] = append(s.docs[coll], m)
	}
	return len(docs), nil
}

func (s *memStore) Exists(ctx context.Context, coll string, filter interface{}) (bool, error) {
	if s.hideReads {
		return false, nil
	}
	for _, d := range s.docs[coll] {
		if matchesWithRange(d, filter.(bson.M)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteMany(ctx context.Context, coll string, filter interface{}) (int64, error) {
	s.filters[coll] = filter
	var kept []bson.M
	var n int64
	for _, d := range s.docs[coll] {
		if matchesWithRange(d, filter.(bson.M)) {
			n++
		} else {
			kept = append(kept, d)
		}
	}
	s.docs[coll] = kept
	return n, nil
}

// matchesWithRange understands equality and {"$lt": time.Time}.
func matchesWithRange(doc bson.M, filter bson.M) bool {
	for field, cond := range filter {
		c, ok := cond.(bson.M)
		if !ok {
			if doc[field] != cond {
				return false
			}
			continue
		}
		cutoff, _ := c["$lt"].(time.Time)
		ts, ok := doc[field].(time.Time)
		if !ok || !ts.Before(cutoff) {
			return false
		}
	}
	return true
}

func (s *memStore) CountDocuments(ctx context.Context, coll string) (int64, error) {
	return int64(len(s.docs[coll])), nil
}

func (s *memStore) DropDatabase(ctx context.Context) error {
	s.dropped = true
	s.docs = map[string][]bson.M{}
	return nil
}
