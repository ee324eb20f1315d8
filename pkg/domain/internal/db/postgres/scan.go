// Package postgres holds queries shared by repositories of each entity.
//
// Numeric columns are selected as text and scanned into decimal.Decimal.
package postgres

import (
	"time"

	"github.com/jackc/pgtype"
)

// OptionalTime converts a nullable timestamp.
func OptionalTime(t pgtype.Timestamptz) *time.Time {
	if t.Status != pgtype.Present {
		return nil
	}
	v := t.Time
	return &v
}

// NullableTime converts t into a parameter for a nullable timestamp.
func NullableTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Status: pgtype.Null}
	}
	return pgtype.Timestamptz{Time: *t, Status: pgtype.Present}
}
