package postgres

import (
	"context"
	"strconv"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	kpgerr "github.com/investperdiem/perdiem/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/investperdiem/perdiem/pkg/domain/internal/db/postgres"
	kdb "github.com/investperdiem/perdiem/pkg/domain/project/db"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/shopspring/decimal"
)

type pgProject struct {
	pool kpool.Pool
}

var _ kdb.ProjectInterface = &pgProject{}

func New(pool kpool.Pool) kdb.ProjectInterface {
	return &pgProject{pool: pool}
}

func (m *pgProject) Get(ctx context.Context, projectId int64) (domain.ProjectState, error) {
	states, err := kpgintr.GetProjectStates(ctx, m.pool, kpgintr.ProjectsOf{ProjectIds: []int64{projectId}})
	if err != nil {
		return domain.ProjectState{}, xe.Wrap(err)
	}
	if len(states) == 0 {
		return domain.ProjectState{}, kpgerr.Missing{Table: "project", Identity: strconv.FormatInt(projectId, 10)}
	}
	return states[0], nil
}

func (m *pgProject) ByArtist(ctx context.Context, artistId int64) ([]domain.ProjectState, error) {
	states, err := kpgintr.GetProjectStates(ctx, m.pool, kpgintr.ProjectsOf{ArtistIds: []int64{artistId}})
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return states, nil
}

func (m *pgProject) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	created := p
	if err := m.pool.QueryRow(
		ctx,
		`insert into "project" ("artist_id", "reason") values ($1, $2) returning "id"`,
		p.ArtistId, p.Reason,
	).Scan(&created.Id); err != nil {
		return domain.Project{}, xe.Wrap(
			kpgerr.AsDomainError(err, "artist", strconv.FormatInt(p.ArtistId, 10)),
		)
	}
	return created, nil
}

// campaignsOf locks the project and returns the number of its campaigns and the sum of their fans percentages.
func campaignsOf(ctx context.Context, tx kpool.Tx, projectId int64, lock string) (count int64, fans int64, err error) {
	var id int64
	if err := tx.QueryRow(
		ctx, `select "id" from "project" where "id" = $1 `+lock, projectId,
	).Scan(&id); err != nil {
		return 0, 0, xe.Wrap(kpgerr.AsDomainError(err, "project", strconv.FormatInt(projectId, 10)))
	}

	if err := tx.QueryRow(
		ctx,
		`
		select count(*), coalesce(sum("fans_percentage"), 0)::bigint
		from "campaign" where "project_id" = $1
		`,
		projectId,
	).Scan(&count, &fans); err != nil {
		return 0, 0, xe.Wrap(err)
	}
	return count, fans, nil
}

func (m *pgProject) ReportRevenue(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, []int64, error) {
	amount = amount.Round(2)
	if err := domain.ValidateRevenueAmount(amount); err != nil {
		return domain.RevenueReport{}, nil, err
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.RevenueReport{}, nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	count, _, err := campaignsOf(ctx, tx, projectId, `for share`)
	if err != nil {
		return domain.RevenueReport{}, nil, err
	}
	if count == 0 {
		return domain.RevenueReport{}, nil, domerr.ErrNoCampaignDefined
	}

	report := domain.RevenueReport{ProjectId: projectId}
	if err := tx.QueryRow(
		ctx,
		`
		insert into "revenue_report" ("project_id", "amount", "reported_at")
		values ($1, $2::numeric, now())
		returning "id", "amount"::text, "reported_at"
		`,
		projectId, amount.String(),
	).Scan(&report.Id, &report.Amount, &report.ReportedAt); err != nil {
		return domain.RevenueReport{}, nil, xe.Wrap(err)
	}

	profileIds, err := investorProfiles(ctx, tx, projectId)
	if err != nil {
		return domain.RevenueReport{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RevenueReport{}, nil, xe.Wrap(err)
	}
	return report, profileIds, nil
}

func investorProfiles(ctx context.Context, q kpool.Queryer, projectId int64) ([]int64, error) {
	rows, err := q.Query(
		ctx,
		`
		select distinct "p"."id"
		from "investment" as "i"
		inner join "campaign" as "ca" on "ca"."id" = "i"."campaign_id"
		inner join "charge" as "ch" on "ch"."id" = "i"."charge_id"
		inner join "user_profile" as "p" on "p"."user_id" = "ch"."user_id"
		where "ca"."project_id" = $1 and "ch"."paid" and not "ch"."refunded"
		order by "p"."id"
		`,
		projectId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, xe.Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, xe.Wrap(rows.Err())
}

func (m *pgProject) UpsertBreakdown(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// serializes upserts of the project, and campaigns being added meanwhile.
	count, fans, err := campaignsOf(ctx, tx, projectId, `for update`)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domerr.ErrNoCampaignDefined
	}
	if err := domain.ValidateBreakdown(rows, 100-fans); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx, `delete from "artist_percentage_breakdown" where "project_id" = $1`, projectId,
	); err != nil {
		return nil, xe.Wrap(err)
	}
	for _, r := range rows {
		if _, err := tx.Exec(
			ctx,
			`
			insert into "artist_percentage_breakdown" ("project_id", "display_name", "percentage")
			values ($1, $2, $3::numeric)
			`,
			projectId, r.DisplayName, r.Percentage.String(),
		); err != nil {
			return nil, xe.Wrap(kpgerr.AsDomainError(err, "artist_percentage_breakdown", r.DisplayName))
		}
	}

	stored, err := kpgintr.GetBreakdowns(ctx, tx, []int64{projectId})
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return stored[projectId], nil
}
