package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DocumentStore implements the document store port on MongoDB. Array
// operations map to $addToSet/$pullAll, which are atomic at the server and
// give true set-union/removal semantics for concurrent writers.
type DocumentStore struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewDocumentStore creates a document store backed by the given database.
func NewDocumentStore(db *mongo.Database, log *zap.Logger) *DocumentStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentStore{db: db, log: log.With(zap.String("component", "document_store"))}
}

// Get returns the document for the key, reporting existence separately.
// Nested BSON documents and arrays are normalized to plain maps and slices
// so callers stay free of driver types.
func (s *DocumentStore) Get(ctx context.Context, collection, key string) (map[string]interface{}, bool, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get document %s/%s: %w", collection, key, err)
	}
	delete(doc, "_id")
	return normalizeMap(doc), true, nil
}

// SetMerge upserts the given fields into the document. Nested maps are
// flattened to dotted paths so sibling fields at every level survive the
// write.
func (s *DocumentStore) SetMerge(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	set := bson.M{}
	flattenFields("", fields, set)
	if len(set) == 0 {
		return nil
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to merge document %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes the document. Deleting a missing document is not an error.
func (s *DocumentStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, key, err)
	}
	return nil
}

// ArrayUnion atomically adds values to an array field, creating the document
// if needed and never duplicating existing elements.
func (s *DocumentStore) ArrayUnion(ctx context.Context, collection, key, field string, values ...interface{}) error {
	if len(values) == 0 {
		return nil
	}
	update := bson.M{
		"$addToSet": bson.M{
			field: bson.M{"$each": values},
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": key}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to perform atomic array union on %s/%s: %w", collection, key, err)
	}
	return nil
}

// ArrayRemove atomically removes all occurrences of the values from an array
// field. A missing document is not an error.
func (s *DocumentStore) ArrayRemove(ctx context.Context, collection, key, field string, values ...interface{}) error {
	if len(values) == 0 {
		return nil
	}
	update := bson.M{
		"$pullAll": bson.M{
			field: values,
		},
	}
	_, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": key}, update)
	if err != nil {
		return fmt.Errorf("failed to perform atomic array remove on %s/%s: %w", collection, key, err)
	}
	return nil
}

// Ping verifies connectivity for health checks.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// normalizeMap converts driver document types to plain Go maps and slices.
func normalizeMap(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for key, value := range doc {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return normalizeMap(v)
	case bson.D:
		m := make(map[string]interface{}, len(v))
		for _, elem := range v {
			m[elem.Key] = normalizeValue(elem.Value)
		}
		return m
	case bson.A:
		s := make([]interface{}, len(v))
		for i, elem := range v {
			s[i] = normalizeValue(elem)
		}
		return s
	default:
		return value
	}
}

// flattenFields converts nested maps into dotted update paths.
func flattenFields(prefix string, fields map[string]interface{}, out bson.M) {
	for key, value := range fields {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenFields(path, nested, out)
			continue
		}
		out[path] = value
	}
}
