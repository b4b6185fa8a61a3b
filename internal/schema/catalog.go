package schema

import "context"

// ExistingIndex is an index as reported by the server.
type ExistingIndex struct {
	Name string
	Keys []KeyField
}

// Catalog is the minimal set of database operations provisioning needs.
// Implementations translate driver failures into *ConnectionError,
// *SchemaConflictError or ErrAlreadyExists.
type Catalog interface {
	Database() string
	CollectionNames(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, name string) error
	Indexes(ctx context.Context, collection string) ([]ExistingIndex, error)
	CreateIndex(ctx context.Context, collection string, idx IndexSpec) error
}
