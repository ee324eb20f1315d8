package postgres

import (
	"context"
	"strconv"
	"time"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	kdb "github.com/investperdiem/perdiem/pkg/domain/campaign/db"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	kpgerr "github.com/investperdiem/perdiem/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/investperdiem/perdiem/pkg/domain/internal/db/postgres"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/jackc/pgx/v4"
)

type pgCampaign struct {
	pool kpool.Pool
}

var _ kdb.CampaignInterface = &pgCampaign{}

func New(pool kpool.Pool) kdb.CampaignInterface {
	return &pgCampaign{pool: pool}
}

func (m *pgCampaign) Get(ctx context.Context, campaignId int64) (domain.CampaignState, error) {
	id := strconv.FormatInt(campaignId, 10)

	c, err := kpgintr.GetCampaign(ctx, m.pool, campaignId, false)
	if err != nil {
		return domain.CampaignState{}, xe.Wrap(kpgerr.AsDomainError(err, "campaign", id))
	}
	expenses, err := kpgintr.GetExpenses(ctx, m.pool, []int64{campaignId})
	if err != nil {
		return domain.CampaignState{}, xe.Wrap(err)
	}
	investments, err := kpgintr.GetInvestments(ctx, m.pool, []int64{campaignId})
	if err != nil {
		return domain.CampaignState{}, xe.Wrap(err)
	}

	c.Expenses = expenses[campaignId]
	return domain.CampaignState{Campaign: c, Investments: investments[campaignId]}, nil
}

func (m *pgCampaign) Ledger(ctx context.Context, campaignId int64) (domain.Ledger, error) {
	return ledger(ctx, m.pool, campaignId, false)
}

func ledger(ctx context.Context, q kpool.Queryer, campaignId int64, forUpdate bool) (domain.Ledger, error) {
	c, err := kpgintr.GetCampaign(ctx, q, campaignId, forUpdate)
	if err != nil {
		return domain.Ledger{}, xe.Wrap(
			kpgerr.AsDomainError(err, "campaign", strconv.FormatInt(campaignId, 10)),
		)
	}
	sold, err := kpgintr.SharesSold(ctx, q, campaignId)
	if err != nil {
		return domain.Ledger{}, xe.Wrap(err)
	}
	return domain.Ledger{Campaign: c, SharesSold: sold}, nil
}

func (m *pgCampaign) Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	if err := c.Validate(); err != nil {
		return domain.Campaign{}, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Campaign{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "campaign"
			("project_id", "amount", "value_per_share", "start_at", "end_at", "fans_percentage", "use_of_funds")
		values ($1, $2, $3, $4, $5, $6, $7)
		returning "id"
		`,
		c.ProjectId, c.Amount, c.ValuePerShare,
		kpgintr.NullableTime(c.StartAt), kpgintr.NullableTime(c.EndAt),
		c.FansPercentage, c.UseOfFunds,
	).Scan(&id); err != nil {
		return domain.Campaign{}, xe.Wrap(
			kpgerr.AsDomainError(err, "project", strconv.FormatInt(c.ProjectId, 10)),
		)
	}

	for _, e := range c.Expenses {
		if _, err := tx.Exec(
			ctx,
			`insert into "expense" ("campaign_id", "description") values ($1, $2)`,
			id, e.Description,
		); err != nil {
			return domain.Campaign{}, xe.Wrap(kpgerr.AsDomainError(err, "expense", e.Description))
		}
	}

	created, err := kpgintr.GetCampaign(ctx, tx, id, false)
	if err != nil {
		return domain.Campaign{}, xe.Wrap(err)
	}
	expenses, err := kpgintr.GetExpenses(ctx, tx, []int64{id})
	if err != nil {
		return domain.Campaign{}, xe.Wrap(err)
	}
	created.Expenses = expenses[id]

	if err := tx.Commit(ctx); err != nil {
		return domain.Campaign{}, xe.Wrap(err)
	}
	return created, nil
}

func (m *pgCampaign) RecordInvestment(
	ctx context.Context, campaignId int64, numShares int64, charge domain.Charge,
) (domain.Investment, error) {
	if numShares < 1 {
		return domain.Investment{}, domerr.ErrInvalidShares
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.Investment{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// locks the campaign row: investments to the campaign are serialized from here.
	l, err := ledger(ctx, tx, campaignId, true)
	if err != nil {
		return domain.Investment{}, err
	}

	var now time.Time
	if err := tx.QueryRow(ctx, `select now()`).Scan(&now); err != nil {
		return domain.Investment{}, xe.Wrap(err)
	}
	if err := l.Admit(numShares, now); err != nil {
		return domain.Investment{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "charge" ("id", "user_id", "amount", "paid", "refunded")
		values ($1, $2, $3::numeric, $4, $5)
		`,
		charge.Id, charge.UserId, charge.Amount.String(), charge.Paid, charge.Refunded,
	); err != nil {
		return domain.Investment{}, xe.Wrap(kpgerr.AsDomainError(err, "charge", charge.Id))
	}

	var investmentId int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "investment" ("charge_id", "campaign_id", "num_shares", "transaction_at")
		values ($1, $2, $3, $4)
		returning "id"
		`,
		charge.Id, campaignId, numShares, now,
	).Scan(&investmentId); err != nil {
		return domain.Investment{}, xe.Wrap(err)
	}

	inv, _, err := kpgintr.GetInvestment(ctx, tx, investmentId)
	if err != nil {
		return domain.Investment{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Investment{}, xe.Wrap(err)
	}
	return inv, nil
}

func (m *pgCampaign) SetRefunded(ctx context.Context, chargeId string) (domain.Identity, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var userId int64
	if err := tx.QueryRow(
		ctx,
		`update "charge" set "refunded" = true where "id" = $1 returning "user_id"`,
		chargeId,
	).Scan(&userId); err != nil {
		return domain.Identity{}, xe.Wrap(kpgerr.AsDomainError(err, "charge", chargeId))
	}

	ids, err := kpgintr.GetIdentities(ctx, tx, []int64{userId})
	if err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Identity{}, xe.Wrap(err)
	}
	return ids[userId], nil
}
