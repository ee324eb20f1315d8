package postgres

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/utils"
)

// GetCampaigns reads campaign rows (without expenses), keyed by id.
func GetCampaigns(ctx context.Context, q kpool.Queryer, campaignIds []int64) (map[int64]domain.Campaign, error) {
	rows, err := q.Query(
		ctx,
		`select `+campaignColumns+` from "campaign" where "id" = any($1::bigint[])`,
		campaignIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := map[int64]domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns[c.Id] = c
	}
	return campaigns, rows.Err()
}

// GetHoldings reads settled investments of users with what their earnings depend on,
// keyed by user id.
//
// nil userIds means every user who does not invest anonymously.
func GetHoldings(ctx context.Context, q kpool.Queryer, userIds []int64) (map[int64]domain.InvestorHoldings, error) {
	invs, err := GetSettledInvestmentsOf(ctx, q, userIds)
	if err != nil {
		return nil, err
	}

	campaigns, err := GetCampaigns(
		ctx, q, utils.Uniq(utils.Map(invs, func(i domain.Investment) int64 { return i.CampaignId })),
	)
	if err != nil {
		return nil, err
	}

	projectIds := utils.Uniq(utils.Map(
		utils.KeysOf(campaigns),
		func(id int64) int64 { return campaigns[id].ProjectId },
	))
	projectArtist, err := getProjectArtists(ctx, q, projectIds)
	if err != nil {
		return nil, err
	}
	artists, err := GetArtists(ctx, q, utils.Uniq(utils.Map(
		projectIds, func(pid int64) int64 { return projectArtist[pid] },
	)))
	if err != nil {
		return nil, err
	}
	reports, err := GetReports(ctx, q, projectIds)
	if err != nil {
		return nil, err
	}

	holdings := map[int64]domain.InvestorHoldings{}
	for _, i := range invs {
		c := campaigns[i.CampaignId]
		ih, ok := holdings[i.Charge.UserId]
		if !ok {
			ih = domain.InvestorHoldings{Investor: i.Investor}
		}
		ih.Holdings = append(ih.Holdings, domain.Holding{
			Investment: i,
			Campaign:   c,
			Artist:     artists[projectArtist[c.ProjectId]],
			Reports:    reports[c.ProjectId],
		})
		holdings[i.Charge.UserId] = ih
	}
	return holdings, nil
}

func getProjectArtists(ctx context.Context, q kpool.Queryer, projectIds []int64) (map[int64]int64, error) {
	rows, err := q.Query(
		ctx,
		`select "id", "artist_id" from "project" where "id" = any($1::bigint[])`,
		projectIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := map[int64]int64{}
	for rows.Next() {
		var pid, aid int64
		if err := rows.Scan(&pid, &aid); err != nil {
			return nil, err
		}
		m[pid] = aid
	}
	return m, rows.Err()
}
