package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"live-airlines/provisioner/internal/schema"
)

// MongoStore is the MongoDB-backed implementation of schema.Catalog plus the
// document operations used by the maintenance commands.
type MongoStore struct {
	db *mongo.Database
}

var _ schema.Catalog = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{db: client.Database(database)}
}

func (s *MongoStore) Database() string { return s.db.Name() }

func (s *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, classifyOp("listCollections", "", "", err)
	}
	return names, nil
}

func (s *MongoStore) CreateCollection(ctx context.Context, name string) error {
	return classifyOp("createCollection", name, "", s.db.CreateCollection(ctx, name))
}

type indexDocument struct {
	Name string `bson:"name"`
	Key  bson.D `bson:"key"`
}

func (s *MongoStore) Indexes(ctx context.Context, collection string) ([]schema.ExistingIndex, error) {
	cur, err := s.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, classifyOp("listIndexes", collection, "", err)
	}
	var docs []indexDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classifyOp("listIndexes", collection, "", err)
	}

	out := make([]schema.ExistingIndex, 0, len(docs))
	for _, d := range docs {
		idx := schema.ExistingIndex{Name: d.Name}
		for _, e := range d.Key {
			idx.Keys = append(idx.Keys, schema.KeyField{Field: e.Key, Order: keyOrder(e.Value)})
		}
		out = append(out, idx)
	}
	return out, nil
}

// keyOrder normalises the numeric forms a key direction can be stored in.
// Special index types ("text", "2dsphere", "hashed") map to 0 and never
// match a plain ascending or descending key.
func keyOrder(v interface{}) int {
	switch n := v.(type) {
	case int32:
		return sign(float64(n))
	case int64:
		return sign(float64(n))
	case float64:
		return sign(n)
	case int:
		return sign(float64(n))
	}
	return 0
}

func sign(f float64) int {
	switch {
	case f > 0:
		return schema.Ascending
	case f < 0:
		return schema.Descending
	}
	return 0
}

func indexModel(idx schema.IndexSpec) mongo.IndexModel {
	keys := make(bson.D, 0, len(idx.Keys))
	for _, k := range idx.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: k.Order})
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(idx.Name),
	}
}

func (s *MongoStore) CreateIndex(ctx context.Context, collection string, idx schema.IndexSpec) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, indexModel(idx))
	return classifyOp("createIndex", collection, idx.Name, err)
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, doc)
	return classifyOp("insert", collection, "", err)
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []interface{}) (int, error) {
	res, err := s.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return 0, classifyOp("insert", collection, "", err)
	}
	return len(res.InsertedIDs), nil
}

// Exists reports whether at least one document matches filter.
func (s *MongoStore) Exists(ctx context.Context, collection string, filter interface{}) (bool, error) {
	err := s.db.Collection(collection).FindOne(ctx, filter).Err()
	switch {
	case err == nil:
		return true, nil
	case err == mongo.ErrNoDocuments:
		return false, nil
	}
	return false, classifyOp("find", collection, "", err)
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, classifyOp("delete", collection, "", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) CountDocuments(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, classifyOp("count", collection, "", err)
	}
	return n, nil
}

func (s *MongoStore) DropDatabase(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", s.db.Name(), classifyOp("dropDatabase", "", "", err))
	}
	return nil
}
