package postgres

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/utils"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const campaignColumns = `
	"id", "project_id", "amount", "value_per_share",
	"start_at", "end_at", "fans_percentage", "use_of_funds"
`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	var start, end pgtype.Timestamptz
	if err := row.Scan(
		&c.Id, &c.ProjectId, &c.Amount, &c.ValuePerShare,
		&start, &end, &c.FansPercentage, &c.UseOfFunds,
	); err != nil {
		return c, err
	}
	c.StartAt = OptionalTime(start)
	c.EndAt = OptionalTime(end)
	return c, nil
}

// GetCampaign reads a campaign row. With forUpdate, the row is locked until the end of the transaction.
func GetCampaign(ctx context.Context, q kpool.Queryer, campaignId int64, forUpdate bool) (domain.Campaign, error) {
	query := `select ` + campaignColumns + ` from "campaign" where "id" = $1`
	if forUpdate {
		query += ` for update`
	}
	return scanCampaign(q.QueryRow(ctx, query, campaignId))
}

// SharesSold sums shares of settled investments in the campaign.
func SharesSold(ctx context.Context, q kpool.Queryer, campaignId int64) (int64, error) {
	var sold int64
	err := q.QueryRow(
		ctx,
		`
		select coalesce(sum("i"."num_shares"), 0)::bigint
		from "investment" as "i"
		inner join "charge" as "c" on "c"."id" = "i"."charge_id"
		where "i"."campaign_id" = $1 and "c"."paid" and not "c"."refunded"
		`,
		campaignId,
	).Scan(&sold)
	return sold, err
}

// GetCampaignStates reads campaigns of projects with their expenses and investments, keyed by project id.
//
// Campaigns are ordered by id.
func GetCampaignStates(ctx context.Context, q kpool.Queryer, projectIds []int64) (map[int64][]domain.CampaignState, error) {
	rows, err := q.Query(
		ctx,
		`select `+campaignColumns+` from "campaign" where "project_id" = any($1::bigint[]) order by "id"`,
		projectIds,
	)
	if err != nil {
		return nil, err
	}
	campaigns := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	campaignIds := utils.Map(campaigns, func(c domain.Campaign) int64 { return c.Id })
	expenses, err := GetExpenses(ctx, q, campaignIds)
	if err != nil {
		return nil, err
	}
	investments, err := GetInvestments(ctx, q, campaignIds)
	if err != nil {
		return nil, err
	}

	states := map[int64][]domain.CampaignState{}
	for _, c := range campaigns {
		c.Expenses = expenses[c.Id]
		states[c.ProjectId] = append(states[c.ProjectId], domain.CampaignState{
			Campaign: c, Investments: investments[c.Id],
		})
	}
	return states, nil
}

func GetExpenses(ctx context.Context, q kpool.Queryer, campaignIds []int64) (map[int64][]domain.Expense, error) {
	rows, err := q.Query(
		ctx,
		`
		select "id", "campaign_id", "description" from "expense"
		where "campaign_id" = any($1::bigint[])
		order by "id"
		`,
		campaignIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := map[int64][]domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.Id, &e.CampaignId, &e.Description); err != nil {
			return nil, err
		}
		expenses[e.CampaignId] = append(expenses[e.CampaignId], e)
	}
	return expenses, rows.Err()
}

const investmentColumns = `
	"i"."id", "i"."campaign_id", "i"."num_shares", "i"."transaction_at",
	"c"."id", "c"."user_id", "c"."amount"::text, "c"."paid", "c"."refunded"
`

const investmentFrom = `
	"investment" as "i"
	inner join "charge" as "c" on "c"."id" = "i"."charge_id"
`

func scanInvestment(row pgx.Row) (domain.Investment, error) {
	var i domain.Investment
	err := row.Scan(
		&i.Id, &i.CampaignId, &i.NumShares, &i.TransactionAt,
		&i.Charge.Id, &i.Charge.UserId, &i.Charge.Amount, &i.Charge.Paid, &i.Charge.Refunded,
	)
	return i, err
}

// GetInvestments reads every investment in campaigns, keyed by campaign id.
//
// Investments are ordered by transaction time, and carry their investors.
func GetInvestments(ctx context.Context, q kpool.Queryer, campaignIds []int64) (map[int64][]domain.Investment, error) {
	invs, err := queryInvestments(
		ctx, q, `"i"."campaign_id" = any($1::bigint[])`, campaignIds,
	)
	if err != nil {
		return nil, err
	}
	byCampaign := map[int64][]domain.Investment{}
	for _, i := range invs {
		byCampaign[i.CampaignId] = append(byCampaign[i.CampaignId], i)
	}
	return byCampaign, nil
}

// GetInvestment reads an investment by id.
func GetInvestment(ctx context.Context, q kpool.Queryer, investmentId int64) (domain.Investment, bool, error) {
	invs, err := queryInvestments(ctx, q, `"i"."id" = $1`, investmentId)
	if err != nil || len(invs) == 0 {
		return domain.Investment{}, false, err
	}
	return invs[0], true, nil
}

// GetSettledInvestmentsOf reads paid and non-refunded investments of users.
// nil userIds means every user who does not invest anonymously.
func GetSettledInvestmentsOf(ctx context.Context, q kpool.Queryer, userIds []int64) ([]domain.Investment, error) {
	if userIds == nil {
		return queryInvestments(
			ctx, q,
			`"c"."paid" and not "c"."refunded" and not exists (
				select 1 from "user_profile" as "p"
				where "p"."user_id" = "c"."user_id" and "p"."invest_anonymously"
			)`,
		)
	}
	return queryInvestments(
		ctx, q,
		`"c"."paid" and not "c"."refunded" and "c"."user_id" = any($1::bigint[])`,
		userIds,
	)
}

func queryInvestments(ctx context.Context, q kpool.Queryer, cond string, args ...any) ([]domain.Investment, error) {
	rows, err := q.Query(
		ctx,
		`select `+investmentColumns+` from `+investmentFrom+` where `+cond+
			` order by "i"."transaction_at", "i"."id"`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	invs := []domain.Investment{}
	for rows.Next() {
		i, err := scanInvestment(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		invs = append(invs, i)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	userIds := utils.Uniq(utils.Map(invs, func(i domain.Investment) int64 { return i.Charge.UserId }))
	ids, err := GetIdentities(ctx, q, userIds)
	if err != nil {
		return nil, err
	}
	for n := range invs {
		invs[n].Investor = ids[invs[n].Charge.UserId]
	}
	return invs, nil
}
