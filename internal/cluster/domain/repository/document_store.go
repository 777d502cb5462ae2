package repository

import "context"

// Document store collections used by this service.
const (
	UsersCollection    = "users"
	ClustersCollection = "clusters"

	// ClustersField is the array of owned cluster ids on a user document.
	ClustersField = "clusters"
)

// DocumentStore is the port to the remote document store: key-addressed
// document CRUD with atomic array add/remove. Array operations must provide
// true set-union/removal semantics at the store; last-writer-wins is not
// acceptable for the ownership list.
type DocumentStore interface {
	// Get returns the document, reporting existence separately from errors.
	Get(ctx context.Context, collection, key string) (map[string]interface{}, bool, error)

	// SetMerge upserts the given fields into the document, leaving other
	// fields untouched. Nested maps merge field-by-field.
	SetMerge(ctx context.Context, collection, key string, fields map[string]interface{}) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, key string) error

	// ArrayUnion atomically adds values to an array field, creating the
	// document if needed and never duplicating existing elements.
	ArrayUnion(ctx context.Context, collection, key, field string, values ...interface{}) error

	// ArrayRemove atomically removes all occurrences of the values from an
	// array field.
	ArrayRemove(ctx context.Context, collection, key, field string, values ...interface{}) error
}
