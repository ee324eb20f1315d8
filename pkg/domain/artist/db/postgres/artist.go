package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
	"github.com/investperdiem/perdiem/pkg/domain"
	kdb "github.com/investperdiem/perdiem/pkg/domain/artist/db"
	kpgerr "github.com/investperdiem/perdiem/pkg/domain/errors/dberrors/postgres"
	kpgintr "github.com/investperdiem/perdiem/pkg/domain/internal/db/postgres"
	xe "github.com/investperdiem/perdiem/pkg/errors"
	"github.com/investperdiem/perdiem/pkg/utils"
)

type pgArtist struct {
	pool kpool.Pool
}

var _ kdb.ArtistInterface = &pgArtist{}

func New(pool kpool.Pool) kdb.ArtistInterface {
	return &pgArtist{pool: pool}
}

func (m *pgArtist) Get(ctx context.Context, artistId int64) (domain.ArtistSummary, error) {
	summaries, err := summarize(ctx, m.pool, []int64{artistId})
	if err != nil {
		return domain.ArtistSummary{}, xe.Wrap(err)
	}
	if len(summaries) == 0 {
		return domain.ArtistSummary{}, kpgerr.Missing{Table: "artist", Identity: strconv.FormatInt(artistId, 10)}
	}
	return summaries[0], nil
}

func (m *pgArtist) List(ctx context.Context, filter kdb.Filter) ([]domain.ArtistSummary, error) {
	conds := []string{"true"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if b := filter.Within; b != nil {
		conds = append(conds,
			`"a"."lat" between `+arg(b.MinLat)+`::float8 and `+arg(b.MaxLat)+`::float8`,
			`"a"."lon" between `+arg(b.MinLon)+`::float8 and `+arg(b.MaxLon)+`::float8`,
		)
	}
	if filter.Genre != "" {
		conds = append(conds, `exists (
			select 1 from "artist_genre" as "ag"
			inner join "genre" as "g" on "g"."id" = "ag"."genre_id"
			where "ag"."artist_id" = "a"."id" and "g"."name" = `+arg(filter.Genre)+`
		)`)
	}

	rows, err := m.pool.Query(
		ctx,
		`select "a"."id" from "artist" as "a" where `+strings.Join(conds, " and "),
		args...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, xe.Wrap(err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	summaries, err := summarize(ctx, m.pool, ids)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return summaries, nil
}

// summarize builds summaries of artists, in descending order of id. Missing artists are skipped.
func summarize(ctx context.Context, q kpool.Queryer, artistIds []int64) ([]domain.ArtistSummary, error) {
	artists, err := kpgintr.GetArtists(ctx, q, artistIds)
	if err != nil {
		return nil, err
	}
	ledgers, err := getLedgers(ctx, q, artistIds)
	if err != nil {
		return nil, err
	}

	investors := map[int64]int64{}
	raised := map[int64]int64{}
	{
		rows, err := q.Query(
			ctx,
			`
			select
				"p"."artist_id",
				count(distinct "ch"."user_id"),
				coalesce(sum("i"."num_shares" * "ca"."value_per_share"), 0)::bigint
			from "investment" as "i"
			inner join "charge" as "ch" on "ch"."id" = "i"."charge_id"
			inner join "campaign" as "ca" on "ca"."id" = "i"."campaign_id"
			inner join "project" as "p" on "p"."id" = "ca"."project_id"
			where "p"."artist_id" = any($1::bigint[]) and "ch"."paid" and not "ch"."refunded"
			group by "p"."artist_id"
			`,
			artistIds,
		)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var aid, n, r int64
			if err := rows.Scan(&aid, &n, &r); err != nil {
				rows.Close()
				return nil, err
			}
			investors[aid] = n
			raised[aid] = r
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	ids := utils.KeysOf(artists)
	summaries := make([]domain.ArtistSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, domain.ArtistSummary{
			Artist:    artists[id],
			Campaigns: ledgers[id],
			Investors: investors[id],
			Raised:    raised[id],
		})
	}
	return domain.SortArtists(summaries, domain.OrderRecent, time.Time{}), nil
}

// getLedgers reads every campaign of artists with shares sold, keyed by artist id.
func getLedgers(ctx context.Context, q kpool.Queryer, artistIds []int64) (map[int64][]domain.Ledger, error) {
	rows, err := q.Query(
		ctx,
		`
		select "p"."artist_id", "ca"."id", coalesce("sold"."n", 0)::bigint
		from "campaign" as "ca"
		inner join "project" as "p" on "p"."id" = "ca"."project_id"
		left join (
			select "i"."campaign_id", sum("i"."num_shares") as "n"
			from "investment" as "i"
			inner join "charge" as "ch" on "ch"."id" = "i"."charge_id"
			where "ch"."paid" and not "ch"."refunded"
			group by "i"."campaign_id"
		) as "sold" on "sold"."campaign_id" = "ca"."id"
		where "p"."artist_id" = any($1::bigint[])
		order by "ca"."id"
		`,
		artistIds,
	)
	if err != nil {
		return nil, err
	}
	type row struct{ artistId, campaignId, sold int64 }
	found := []row{}
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.artistId, &r.campaignId, &r.sold); err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	campaigns, err := kpgintr.GetCampaigns(
		ctx, q, utils.Map(found, func(r row) int64 { return r.campaignId }),
	)
	if err != nil {
		return nil, err
	}

	ledgers := map[int64][]domain.Ledger{}
	for _, r := range found {
		ledgers[r.artistId] = append(ledgers[r.artistId], domain.Ledger{
			Campaign: campaigns[r.campaignId], SharesSold: r.sold,
		})
	}
	return ledgers, nil
}

func (m *pgArtist) Create(ctx context.Context, a domain.Artist) (domain.Artist, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.Artist{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(
		ctx,
		`
		insert into "artist" ("name", "slug", "lat", "lon")
		values ($1, $2, $3::float8::numeric(7, 4), $4::float8::numeric(7, 4))
		returning "id"
		`,
		a.Name, a.Slug, a.Lat, a.Lon,
	).Scan(&id); err != nil {
		return domain.Artist{}, xe.Wrap(kpgerr.AsDomainError(err, "artist", a.Slug))
	}

	for _, g := range utils.Uniq(a.Genres) {
		if _, err := tx.Exec(
			ctx,
			`insert into "genre" ("name") values ($1) on conflict ("name") do nothing`,
			g,
		); err != nil {
			return domain.Artist{}, xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx,
			`
			insert into "artist_genre" ("artist_id", "genre_id")
			select $1, "id" from "genre" where "name" = $2
			`,
			id, g,
		); err != nil {
			return domain.Artist{}, xe.Wrap(err)
		}
	}

	created, err := kpgintr.GetArtists(ctx, tx, []int64{id})
	if err != nil {
		return domain.Artist{}, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Artist{}, xe.Wrap(err)
	}
	return created[id], nil
}

func (m *pgArtist) Genres(ctx context.Context) ([]string, error) {
	rows, err := m.pool.Query(ctx, `select "name" from "genre" order by "name"`)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	genres := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, xe.Wrap(err)
		}
		genres = append(genres, g)
	}
	return genres, xe.Wrap(rows.Err())
}

func (m *pgArtist) IsAdmin(ctx context.Context, artistId int64, userId int64) (bool, error) {
	var found bool
	if err := m.pool.QueryRow(
		ctx,
		`
		select exists (
			select 1 from "artist_admin" where "artist_id" = $1 and "user_id" = $2
		)
		`,
		artistId, userId,
	).Scan(&found); err != nil {
		return false, xe.Wrap(err)
	}
	return found, nil
}

func (m *pgArtist) IsInvestor(ctx context.Context, artistId int64, userId int64) (bool, error) {
	var found bool
	if err := m.pool.QueryRow(
		ctx,
		`
		select exists (
			select 1
			from "investment" as "i"
			inner join "charge" as "ch" on "ch"."id" = "i"."charge_id"
			inner join "campaign" as "ca" on "ca"."id" = "i"."campaign_id"
			inner join "project" as "p" on "p"."id" = "ca"."project_id"
			where "p"."artist_id" = $1 and "ch"."user_id" = $2
				and "ch"."paid" and not "ch"."refunded"
		)
		`,
		artistId, userId,
	).Scan(&found); err != nil {
		return false, xe.Wrap(err)
	}
	return found, nil
}

const updateColumns = `"id", "artist_id", "title", "text", "created_at"`

func scanUpdate(row interface{ Scan(...any) error }) (domain.ArtistUpdate, error) {
	var u domain.ArtistUpdate
	err := row.Scan(&u.Id, &u.ArtistId, &u.Title, &u.Text, &u.CreatedAt)
	return u, err
}

func (m *pgArtist) Updates(ctx context.Context, artistId int64) ([]domain.ArtistUpdate, error) {
	rows, err := m.pool.Query(
		ctx,
		`
		select `+updateColumns+` from "artist_update"
		where "artist_id" = $1
		order by "created_at" desc, "id" desc
		`,
		artistId,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	updates := []domain.ArtistUpdate{}
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		updates = append(updates, u)
	}
	return updates, xe.Wrap(rows.Err())
}

func (m *pgArtist) GetUpdate(ctx context.Context, updateId int64) (domain.ArtistUpdate, error) {
	u, err := scanUpdate(m.pool.QueryRow(
		ctx,
		`select `+updateColumns+` from "artist_update" where "id" = $1`,
		updateId,
	))
	if err != nil {
		return domain.ArtistUpdate{}, xe.Wrap(
			kpgerr.AsDomainError(err, "artist_update", strconv.FormatInt(updateId, 10)),
		)
	}
	return u, nil
}

func (m *pgArtist) CreateUpdate(ctx context.Context, u domain.ArtistUpdate) (domain.ArtistUpdate, error) {
	created, err := scanUpdate(m.pool.QueryRow(
		ctx,
		`
		insert into "artist_update" ("artist_id", "title", "text")
		values ($1, $2, $3)
		returning `+updateColumns,
		u.ArtistId, u.Title, u.Text,
	))
	if err != nil {
		return domain.ArtistUpdate{}, xe.Wrap(
			kpgerr.AsDomainError(err, "artist", strconv.FormatInt(u.ArtistId, 10)),
		)
	}
	return created, nil
}

func (m *pgArtist) DeleteUpdate(ctx context.Context, updateId int64) error {
	tag, err := m.pool.Exec(ctx, `delete from "artist_update" where "id" = $1`, updateId)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{Table: "artist_update", Identity: strconv.FormatInt(updateId, 10)}
	}
	return nil
}
