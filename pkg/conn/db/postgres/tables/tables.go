// manipulate records of postgres, for tests.
package tables

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/jackc/pgconn"

	kpool "github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool"
)

func withCause(v any, reason error) error {
	return fmt.Errorf("error caused inserting record %+v: %w", v, reason)
}

// table-level operations for PostgreSQL.
//
// Note: this package DOES NOT verify/guarantee consistencies of records.
// Each `Insert...` method inserts a record into one table, with the given id.
type Tables struct {
	ctx  context.Context
	pool kpool.Pool
}

func New(ctx context.Context, pool kpool.Pool) *Tables {
	return &Tables{ctx: ctx, pool: pool}
}

func shouldEffect(ctag pgconn.CommandTag, require int) error {
	aff := ctag.RowsAffected()
	if int64(require) <= aff {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	if ok {
		return fmt.Errorf("added rows are not enough @ %s:%d", file, line)
	}
	return errors.New("added rows are not enough")
}

func (f *Tables) insert(record any, query string, args ...any) error {
	ctag, err := f.pool.Exec(f.ctx, query, args...)
	if err != nil {
		return withCause(record, err)
	}
	return shouldEffect(ctag, 1)
}

func (f *Tables) InsertUserAccount(u *UserAccount) error {
	return f.insert(
		u,
		`insert into "user_account" ("id", "username", "email", "full_name", "is_staff") values ($1, $2, $3, $4, $5)`,
		u.Id, u.Username, u.Email, u.FullName, u.IsStaff,
	)
}

func (f *Tables) InsertUserAvatar(a *UserAvatar) error {
	return f.insert(
		a,
		`
		insert into "user_avatar" ("id", "user_id", "provider", "url", "object_key")
		values ($1, $2, $3, $4, $5)
		`,
		a.Id, a.UserId, a.Provider, a.URL, a.ObjectKey,
	)
}

func (f *Tables) InsertUserProfile(p *UserProfile) error {
	return f.insert(
		p,
		`
		insert into "user_profile" ("id", "user_id", "invest_anonymously", "avatar_id")
		values ($1, $2, $3, $4)
		`,
		p.Id, p.UserId, p.InvestAnonymously, p.AvatarId,
	)
}

func (f *Tables) InsertArtist(a *Artist) error {
	return f.insert(
		a,
		`insert into "artist" ("id", "name", "slug", "lat", "lon") values ($1, $2, $3, $4::numeric, $5::numeric)`,
		a.Id, a.Name, a.Slug, a.Lat, a.Lon,
	)
}

func (f *Tables) InsertGenre(g *Genre) error {
	return f.insert(g, `insert into "genre" ("id", "name") values ($1, $2)`, g.Id, g.Name)
}

func (f *Tables) InsertArtistGenre(ag *ArtistGenre) error {
	return f.insert(
		ag,
		`insert into "artist_genre" ("artist_id", "genre_id") values ($1, $2)`,
		ag.ArtistId, ag.GenreId,
	)
}

func (f *Tables) InsertArtistAdmin(a *ArtistAdmin) error {
	role := a.Role
	if role == "" {
		role = "manager"
	}
	return f.insert(
		a,
		`insert into "artist_admin" ("id", "artist_id", "user_id", "role") values ($1, $2, $3, $4)`,
		a.Id, a.ArtistId, a.UserId, role,
	)
}

func (f *Tables) InsertArtistUpdate(u *ArtistUpdate) error {
	return f.insert(
		u,
		`
		insert into "artist_update" ("id", "artist_id", "title", "text", "created_at")
		values ($1, $2, $3, $4, $5)
		`,
		u.Id, u.ArtistId, u.Title, u.Text, u.CreatedAt,
	)
}

func (f *Tables) InsertProject(p *Project) error {
	return f.insert(
		p,
		`insert into "project" ("id", "artist_id", "reason") values ($1, $2, $3)`,
		p.Id, p.ArtistId, p.Reason,
	)
}

func (f *Tables) InsertBreakdown(b *Breakdown) error {
	return f.insert(
		b,
		`
		insert into "artist_percentage_breakdown" ("id", "project_id", "display_name", "percentage")
		values ($1, $2, $3, $4::numeric)
		`,
		b.Id, b.ProjectId, b.DisplayName, b.Percentage,
	)
}

func (f *Tables) InsertRevenueReport(r *RevenueReport) error {
	return f.insert(
		r,
		`
		insert into "revenue_report" ("id", "project_id", "amount", "reported_at")
		values ($1, $2, $3::numeric, $4)
		`,
		r.Id, r.ProjectId, r.Amount, r.ReportedAt,
	)
}

func (f *Tables) InsertCampaign(c *Campaign) error {
	vps := c.ValuePerShare
	if vps == 0 {
		vps = 1
	}
	return f.insert(
		c,
		`
		insert into "campaign"
			("id", "project_id", "amount", "value_per_share", "start_at", "end_at", "fans_percentage", "use_of_funds")
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
		c.Id, c.ProjectId, c.Amount, vps,
		c.StartAt, c.EndAt,
		c.FansPercentage, c.UseOfFunds,
	)
}

func (f *Tables) InsertExpense(e *Expense) error {
	return f.insert(
		e,
		`insert into "expense" ("id", "campaign_id", "description") values ($1, $2, $3)`,
		e.Id, e.CampaignId, e.Description,
	)
}

func (f *Tables) InsertCharge(c *Charge) error {
	return f.insert(
		c,
		`
		insert into "charge" ("id", "user_id", "amount", "paid", "refunded")
		values ($1, $2, $3::numeric, $4, $5)
		`,
		c.Id, c.UserId, c.Amount, c.Paid, c.Refunded,
	)
}

func (f *Tables) InsertInvestment(i *Investment) error {
	return f.insert(
		i,
		`
		insert into "investment" ("id", "charge_id", "campaign_id", "num_shares", "transaction_at")
		values ($1, $2, $3, $4, $5)
		`,
		i.Id, i.ChargeId, i.CampaignId, i.NumShares, i.TransactionAt,
	)
}

func (f *Tables) InsertEmailSubscription(s *EmailSubscription) error {
	return f.insert(
		s,
		`
		insert into "email_subscription" ("user_id", "subscription", "subscribed")
		values ($1, $2, $3)
		`,
		s.UserId, s.Subscription, s.Subscribed,
	)
}

func (f *Tables) InsertVerifiedEmail(v *VerifiedEmail) error {
	return f.insert(
		v,
		`
		insert into "verified_email" ("user_id", "email", "code", "verified_at")
		values ($1, $2, $3::uuid, $4)
		`,
		v.UserId, v.Email, v.Code, v.VerifiedAt,
	)
}

// sequenced are tables having "id" bigserial inserted with explicit ids.
var sequenced = []string{
	"user_account", "user_avatar", "user_profile",
	"artist", "artist_admin", "artist_update", "genre", "project", "artist_percentage_breakdown", "revenue_report",
	"campaign", "expense", "investment",
	"email_subscription", "verified_email",
}

// ResetSequences moves sequences of ids after ids inserted explicitly.
func (f *Tables) ResetSequences() error {
	for _, t := range sequenced {
		if _, err := f.pool.Exec(
			f.ctx,
			fmt.Sprintf(
				`select setval(pg_get_serial_sequence('"%[1]s"', 'id'), (select coalesce(max("id"), 0) + 1 from "%[1]s"), false)`,
				t,
			),
		); err != nil {
			return fmt.Errorf("reset sequence of %s: %w", t, err)
		}
	}
	return nil
}
