package postgres

import (
	"context"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/utils"
)

// GetArtists reads artists with their genres, keyed by id.
func GetArtists(ctx context.Context, q kpool.Queryer, artistIds []int64) (map[int64]domain.Artist, error) {
	rows, err := q.Query(
		ctx,
		`
		select "id", "name", "slug", "lat"::float8, "lon"::float8
		from "artist" where "id" = any($1::bigint[])
		`,
		artistIds,
	)
	if err != nil {
		return nil, err
	}
	artists := map[int64]domain.Artist{}
	for rows.Next() {
		var a domain.Artist
		if err := rows.Scan(&a.Id, &a.Name, &a.Slug, &a.Lat, &a.Lon); err != nil {
			rows.Close()
			return nil, err
		}
		artists[a.Id] = a
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres, err := GetGenres(ctx, q, artistIds)
	if err != nil {
		return nil, err
	}
	for id, a := range artists {
		a.Genres = genres[id]
		artists[id] = a
	}
	return artists, nil
}

// GetGenres reads genre names of artists, in alphabetical order.
func GetGenres(ctx context.Context, q kpool.Queryer, artistIds []int64) (map[int64][]string, error) {
	rows, err := q.Query(
		ctx,
		`
		select "ag"."artist_id", "g"."name"
		from "artist_genre" as "ag"
		inner join "genre" as "g" on "g"."id" = "ag"."genre_id"
		where "ag"."artist_id" = any($1::bigint[])
		order by "g"."name"
		`,
		artistIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := map[int64][]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		genres[id] = append(genres[id], name)
	}
	return genres, rows.Err()
}

// GetReports reads revenue reports of projects in order of report, keyed by project id.
func GetReports(ctx context.Context, q kpool.Queryer, projectIds []int64) (map[int64][]domain.RevenueReport, error) {
	rows, err := q.Query(
		ctx,
		`
		select "id", "project_id", "amount"::text, "reported_at"
		from "revenue_report" where "project_id" = any($1::bigint[])
		order by "reported_at", "id"
		`,
		projectIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := map[int64][]domain.RevenueReport{}
	for rows.Next() {
		var r domain.RevenueReport
		if err := rows.Scan(&r.Id, &r.ProjectId, &r.Amount, &r.ReportedAt); err != nil {
			return nil, err
		}
		reports[r.ProjectId] = append(reports[r.ProjectId], r)
	}
	return reports, rows.Err()
}

// GetBreakdowns reads persisted artist percentage breakdowns, keyed by project id.
func GetBreakdowns(ctx context.Context, q kpool.Queryer, projectIds []int64) (map[int64][]domain.Breakdown, error) {
	rows, err := q.Query(
		ctx,
		`
		select "project_id", "display_name", "percentage"::text
		from "artist_percentage_breakdown" where "project_id" = any($1::bigint[])
		order by "id"
		`,
		projectIds,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bds := map[int64][]domain.Breakdown{}
	for rows.Next() {
		var pid int64
		var b domain.Breakdown
		if err := rows.Scan(&pid, &b.DisplayName, &b.Percentage); err != nil {
			return nil, err
		}
		bds[pid] = append(bds[pid], b)
	}
	return bds, rows.Err()
}

// ProjectsOf selects projects by projectIds or artistIds. One of them should be nil.
type ProjectsOf struct {
	ProjectIds []int64
	ArtistIds  []int64
}

// GetProjectStates reads projects with everything their aggregates depend on.
//
// Projects are ordered by id.
func GetProjectStates(ctx context.Context, q kpool.Queryer, of ProjectsOf) ([]domain.ProjectState, error) {
	cond, arg := `"id" = any($1::bigint[])`, of.ProjectIds
	if of.ProjectIds == nil {
		cond, arg = `"artist_id" = any($1::bigint[])`, of.ArtistIds
	}

	rows, err := q.Query(
		ctx,
		`select "id", "artist_id", "reason" from "project" where `+cond+` order by "id"`,
		arg,
	)
	if err != nil {
		return nil, err
	}
	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.Id, &p.ArtistId, &p.Reason); err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	projectIds := utils.Map(projects, func(p domain.Project) int64 { return p.Id })
	artists, err := GetArtists(
		ctx, q, utils.Uniq(utils.Map(projects, func(p domain.Project) int64 { return p.ArtistId })),
	)
	if err != nil {
		return nil, err
	}
	campaigns, err := GetCampaignStates(ctx, q, projectIds)
	if err != nil {
		return nil, err
	}
	reports, err := GetReports(ctx, q, projectIds)
	if err != nil {
		return nil, err
	}
	breakdowns, err := GetBreakdowns(ctx, q, projectIds)
	if err != nil {
		return nil, err
	}

	return utils.Map(projects, func(p domain.Project) domain.ProjectState {
		return domain.ProjectState{
			Project:    p,
			Artist:     artists[p.ArtistId],
			Campaigns:  campaigns[p.Id],
			Reports:    reports[p.Id],
			Breakdowns: breakdowns[p.Id],
		}
	}), nil
}
