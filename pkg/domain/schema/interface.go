package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/investperdiem/perdiem/pkg/domain/schema/db"
)

// ErrOutdated tells that the database schema is older than the repository.
var ErrOutdated = errors.New("database schema is outdated")

type Interface interface {
	Database() db.SchemaInterface

	// Serve derives a context which lives while the database schema is up to date.
	//
	// It fails with ErrOutdated when the schema is outdated already,
	// so servers do not start on an old schema.
	Serve(ctx context.Context) (context.Context, context.CancelFunc, error)
}

type impl struct {
	db db.SchemaInterface
}

func New(db db.SchemaInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.SchemaInterface {
	return i.db
}

func (i *impl) Serve(ctx context.Context) (context.Context, context.CancelFunc, error) {
	sctx, cancel := i.db.Context(ctx)
	if sctx.Err() == nil {
		return sctx, cancel, nil
	}
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return nil, nil, fmt.Errorf("%w: %w", ErrOutdated, context.Cause(sctx))
}
