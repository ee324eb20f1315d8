package postgres

import (
	"context"
	"slices"
	"strconv"

	"github.com/google/uuid"
	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	kpgerr "github.com/investperdiem/perdiem/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/investperdiem/perdiem/pkg/domain/internal/db/postgres"
	kdb "github.com/investperdiem/perdiem/pkg/domain/subscription/db"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type pgSubscription struct {
	pool kpool.Pool
}

var _ kdb.SubscriptionInterface = &pgSubscription{}

func New(pool kpool.Pool) kdb.SubscriptionInterface {
	return &pgSubscription{pool: pool}
}

func (m *pgSubscription) Subscriptions(ctx context.Context, userId int64) (domain.Subscriptions, error) {
	if err := userExists(ctx, m.pool, userId, false); err != nil {
		return nil, xe.Wrap(err)
	}
	subs, err := subscriptions(ctx, m.pool, userId)
	return subs, xe.Wrap(err)
}

// userExists returns ErrMissing when the user is not found. With lock, the user row is locked for update.
func userExists(ctx context.Context, q kpool.Queryer, userId int64, lock bool) error {
	query := `select "id" from "user_account" where "id" = $1`
	if lock {
		query += ` for update`
	}
	var id int64
	if err := q.QueryRow(ctx, query, userId).Scan(&id); err != nil {
		return kpgerr.AsDomainError(err, "user_account", strconv.FormatInt(userId, 10))
	}
	return nil
}

func subscriptions(ctx context.Context, q kpool.Queryer, userId int64) (domain.Subscriptions, error) {
	rows, err := q.Query(
		ctx,
		`select "subscription", "subscribed" from "email_subscription" where "user_id" = $1`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := domain.Subscriptions{}
	for rows.Next() {
		var kind string
		var subscribed bool
		if err := rows.Scan(&kind, &subscribed); err != nil {
			return nil, err
		}
		subs[domain.SubscriptionKind(kind)] = subscribed
	}
	return subs, rows.Err()
}

func (m *pgSubscription) SetSubscribed(
	ctx context.Context, userId int64, kinds []domain.SubscriptionKind, subscribed bool,
) ([]domain.SubscriptionKind, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if err := userExists(ctx, tx, userId, true); err != nil {
		return nil, xe.Wrap(err)
	}
	current, err := subscriptions(ctx, tx, userId)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	changed := []domain.SubscriptionKind{}
	for _, k := range kinds {
		if slices.Contains(changed, k) {
			continue
		}
		if _, err := tx.Exec(
			ctx,
			`
			insert into "email_subscription" ("user_id", "subscription", "subscribed")
			values ($1, $2, $3)
			on conflict ("user_id", "subscription") do update set "subscribed" = excluded."subscribed"
			`,
			userId, string(k), subscribed,
		); err != nil {
			return nil, xe.Wrap(kpgerr.AsDomainError(err, "email_subscription", string(k)))
		}
		if current.Subscribed(k) != subscribed {
			changed = append(changed, k)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return changed, nil
}

func (m *pgSubscription) UserByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	if err := m.pool.QueryRow(
		ctx,
		`select "id" from "user_account" where lower("email") = lower($1) and "email" <> '' order by "id" limit 1`,
		email,
	).Scan(&id); err != nil {
		return 0, xe.Wrap(kpgerr.AsDomainError(err, "user_account", email))
	}
	return id, nil
}

func (m *pgSubscription) Recipient(ctx context.Context, userId int64) (domain.Recipient, error) {
	ids, err := kpgintr.GetIdentities(ctx, m.pool, []int64{userId})
	if err != nil {
		return domain.Recipient{}, xe.Wrap(err)
	}
	id, ok := ids[userId]
	if !ok {
		return domain.Recipient{}, kpgerr.Missing{Table: "user_account", Identity: strconv.FormatInt(userId, 10)}
	}

	var verified bool
	if err := m.pool.QueryRow(
		ctx,
		`
		select exists (
			select 1 from "verified_email"
			where "user_id" = $1 and "email" = $2 and "verified_at" is not null
		)
		`,
		userId, id.Email,
	).Scan(&verified); err != nil {
		return domain.Recipient{}, xe.Wrap(err)
	}

	subs, err := subscriptions(ctx, m.pool, userId)
	if err != nil {
		return domain.Recipient{}, xe.Wrap(err)
	}
	return domain.Recipient{Identity: id, EmailVerified: verified, Subscriptions: subs}, nil
}

func (m *pgSubscription) ArtistInvestors(ctx context.Context, artistId int64) ([]domain.Recipient, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select distinct "ch"."user_id"
		from "investment" as "i"
		inner join "charge" as "ch" on "ch"."id" = "i"."charge_id"
		inner join "campaign" as "ca" on "ca"."id" = "i"."campaign_id"
		inner join "project" as "p" on "p"."id" = "ca"."project_id"
		where "p"."artist_id" = $1 and "ch"."paid" and not "ch"."refunded"
		order by "ch"."user_id"
		`,
		artistId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	userIds := []int64{}
	for rows.Next() {
		var uid int64
		if err := rows.Scan(&uid); err != nil {
			rows.Close()
			return nil, xe.Wrap(err)
		}
		userIds = append(userIds, uid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	recipients := make([]domain.Recipient, 0, len(userIds))
	for _, uid := range userIds {
		r, err := m.Recipient(ctx, uid)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

func scanVerifiedEmail(row pgx.Row) (domain.VerifiedEmail, error) {
	var v domain.VerifiedEmail
	var at pgtype.Timestamptz
	if err := row.Scan(&v.UserId, &v.Email, &v.Code, &at); err != nil {
		return domain.VerifiedEmail{}, err
	}
	v.VerifiedAt = kpgintr.OptionalTime(at)
	return v, nil
}

func (m *pgSubscription) CurrentEmail(ctx context.Context, userId int64) (domain.VerifiedEmail, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.VerifiedEmail{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(
		ctx,
		`
		insert into "verified_email" ("user_id", "email", "code")
		select "id", "email", $2::uuid from "user_account" where "id" = $1
		on conflict ("user_id", "email") do nothing
		`,
		userId, uuid.NewString(),
	); err != nil {
		return domain.VerifiedEmail{}, xe.Wrap(err)
	}

	v, err := scanVerifiedEmail(tx.QueryRow(
		ctx,
		`
		select "v"."user_id", "v"."email", "v"."code"::text, "v"."verified_at"
		from "verified_email" as "v"
		inner join "user_account" as "u" on "u"."id" = "v"."user_id" and "u"."email" = "v"."email"
		where "v"."user_id" = $1
		`,
		userId,
	))
	if err != nil {
		return domain.VerifiedEmail{}, xe.Wrap(kpgerr.AsDomainError(err, "user_account", strconv.FormatInt(userId, 10)))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.VerifiedEmail{}, xe.Wrap(err)
	}
	return v, nil
}

func (m *pgSubscription) Verify(ctx context.Context, code string) (domain.VerifiedEmail, error) {
	if _, err := uuid.Parse(code); err != nil {
		return domain.VerifiedEmail{}, kpgerr.Missing{Table: "verified_email", Identity: code}
	}

	v, err := scanVerifiedEmail(m.pool.QueryRow(
		ctx,
		`
		update "verified_email" set "verified_at" = coalesce("verified_at", now())
		where "code" = $1::uuid
		returning "user_id", "email", "code"::text, "verified_at"
		`,
		code,
	))
	if err != nil {
		return domain.VerifiedEmail{}, xe.Wrap(kpgerr.AsDomainError(err, "verified_email", code))
	}
	return v, nil
}
