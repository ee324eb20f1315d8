package postgres

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	kpgerr "github.com/investperdiem/perdiem/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/investperdiem/perdiem/pkg/domain/internal/db/postgres"
	kdb "github.com/investperdiem/perdiem/pkg/domain/investor/db"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/investperdiem/perdiem/pkg/utils"
)

type pgInvestor struct {
	pool kpool.Pool
}

var _ kdb.InvestorInterface = &pgInvestor{}

func New(pool kpool.Pool) kdb.InvestorInterface {
	return &pgInvestor{pool: pool}
}

func identity(ctx context.Context, q kpool.Queryer, cond string, key any) (domain.Identity, error) {
	return kpgintr.ScanIdentity(q.QueryRow(
		ctx,
		`select `+kpgintr.IdentityColumns+` from `+kpgintr.IdentityFrom+` where `+cond,
		key,
	))
}

func (m *pgInvestor) Identity(ctx context.Context, userId int64) (domain.Identity, error) {
	id, err := identity(ctx, m.pool, `"u"."id" = $1`, userId)
	if err != nil {
		return domain.Identity{}, xe.Wrap(
			kpgerr.AsDomainError(err, "user_account", strconv.FormatInt(userId, 10)),
		)
	}
	return id, nil
}

func (m *pgInvestor) IdentityByUsername(ctx context.Context, username string) (domain.Identity, error) {
	id, err := identity(ctx, m.pool, `"u"."username" = $1`, username)
	if err != nil {
		return domain.Identity{}, xe.Wrap(kpgerr.AsDomainError(err, "user_account", username))
	}
	return id, nil
}

func (m *pgInvestor) Register(ctx context.Context, username string, email string, fullName string) (domain.Identity, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var userId int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "user_account" ("username", "email", "full_name")
		values ($1, $2, $3)
		returning "id"
		`,
		username, email, fullName,
	).Scan(&userId); err != nil {
		return domain.Identity{}, xe.Wrap(kpgerr.AsDomainError(err, "user_account", username))
	}
	if _, err := tx.Exec(
		ctx, `insert into "user_profile" ("user_id") values ($1)`, userId,
	); err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}

	id, err := identity(ctx, tx, `"u"."id" = $1`, userId)
	if err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	return id, nil
}

func (m *pgInvestor) SetInvestAnonymously(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error) {
	tag, err := m.pool.Exec(
		ctx,
		`update "user_profile" set "invest_anonymously" = $2 where "user_id" = $1`,
		userId, anonymous,
	)
	if err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Identity{}, kpgerr.Missing{Table: "user_profile", Identity: strconv.FormatInt(userId, 10)}
	}
	return m.Identity(ctx, userId)
}

func (m *pgInvestor) Holdings(ctx context.Context, userId int64) ([]domain.Holding, error) {
	hs, err := kpgintr.GetHoldings(ctx, m.pool, []int64{userId})
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return hs[userId].Holdings, nil
}

func (m *pgInvestor) AllHoldings(ctx context.Context) ([]domain.InvestorHoldings, error) {
	hs, err := kpgintr.GetHoldings(ctx, m.pool, nil)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	all := utils.Map(utils.KeysOf(hs), func(uid int64) domain.InvestorHoldings { return hs[uid] })
	slices.SortFunc(all, func(a, b domain.InvestorHoldings) int {
		return cmp.Compare(a.Investor.UserId, b.Investor.UserId)
	})
	return all, nil
}

func (m *pgInvestor) SaveAvatar(ctx context.Context, userId int64, avatar domain.Avatar) (bool, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return false, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var avatarId int64
	var created bool
	if err := tx.QueryRow(
		ctx,
		`
		insert into "user_avatar" ("user_id", "provider", "url", "object_key")
		values ($1, $2, $3, $4)
		on conflict ("user_id", "provider") do update
		set "url" = excluded."url", "object_key" = excluded."object_key"
		returning "id", (xmax = 0)
		`,
		userId, string(avatar.Provider), avatar.URL, avatar.ObjectKey,
	).Scan(&avatarId, &created); err != nil {
		return false, xe.Wrap(
			kpgerr.AsDomainError(err, "user_account", strconv.FormatInt(userId, 10)),
		)
	}

	if created {
		if _, err := tx.Exec(
			ctx,
			`update "user_profile" set "avatar_id" = $2 where "user_id" = $1 and "avatar_id" is null`,
			userId, avatarId,
		); err != nil {
			return false, xe.Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, xe.Wrap(err)
	}
	return created, nil
}
