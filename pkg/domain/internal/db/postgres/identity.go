package postgres

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/jackc/pgx/v4"
)

// IdentityColumns selects columns scanned by ScanIdentity.
//
// Use with IdentityFrom as the from clause.
const IdentityColumns = `
	"u"."id",
	coalesce("p"."id", 0),
	"u"."username",
	"u"."full_name",
	"u"."email",
	coalesce("p"."invest_anonymously", false),
	coalesce("a"."provider", ''),
	coalesce("a"."url", ''),
	coalesce("a"."object_key", ''),
	"u"."is_staff"
`

const IdentityFrom = `
	"user_account" as "u"
	left join "user_profile" as "p" on "p"."user_id" = "u"."id"
	left join "user_avatar" as "a" on "a"."id" = "p"."avatar_id"
`

func ScanIdentity(row pgx.Row) (domain.Identity, error) {
	var id domain.Identity
	var provider string
	err := row.Scan(
		&id.UserId, &id.ProfileId, &id.Username, &id.FullName, &id.Email,
		&id.InvestAnonymously, &provider, &id.Avatar.URL, &id.Avatar.ObjectKey,
		&id.IsStaff,
	)
	id.Avatar.Provider = domain.AvatarProvider(provider)
	return id, err
}

// GetIdentities returns identities of users, keyed by user id.
//
// Missing users are not in the result.
func GetIdentities(ctx context.Context, q kpool.Queryer, userIds []int64) (map[int64]domain.Identity, error) {
	rows, err := q.Query(
		ctx,
		`select `+IdentityColumns+` from `+IdentityFrom+` where "u"."id" = any($1::bigint[])`,
		userIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := map[int64]domain.Identity{}
	for rows.Next() {
		id, err := ScanIdentity(rows)
		if err != nil {
			return nil, err
		}
		ids[id.UserId] = id
	}
	return ids, rows.Err()
}
