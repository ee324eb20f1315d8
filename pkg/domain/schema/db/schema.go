package db

import "context"

// SchemaInterface is the versioned schema of the database.
type SchemaInterface interface {
	// Upgrade applies every version in the repository newer than the database's.
	Upgrade(ctx context.Context) error

	// Version returns the version of the schema in the database. 0 means nothing applied.
	Version(ctx context.Context) (int, error)

	// Context derives a context which is cancelled once the database schema
	// gets older than the repository (a newer version is put in it).
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
