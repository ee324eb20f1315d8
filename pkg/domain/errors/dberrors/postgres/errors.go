package postgres

import (
	"errors"
	"fmt"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// Conflict is a violation of a unique constraint.
type Conflict struct {
	Table      string
	Constraint string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict in %s (%s)", c.Table, c.Constraint)
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}

// AsDomainError converts errors from postgres into domain errors.
//
// No rows is Missing{table, identity}. A foreign key violation is Missing of the referred entity.
// Unique and check violations are Conflict and ErrInvalidArgument.
// Other errors are returned as they are.
func AsDomainError(err error, table string, identity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return Missing{Table: table, Identity: identity}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ForeignKeyViolation:
		return Missing{Table: pgErr.TableName, Identity: pgErr.Detail}
	case pgerrcode.UniqueViolation:
		return Conflict{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	case pgerrcode.CheckViolation:
		return fmt.Errorf("%w: violates %s", domerr.ErrInvalidArgument, pgErr.ConstraintName)
	case pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s", domerr.ErrInvalidArgument, pgErr.Message)
	}
	return err
}
