package postgres_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool/testenv"
	"github.com/investperdiem/perdiem/pkg/conn/db/postgres/tables"
	"github.com/investperdiem/perdiem/pkg/domain"
	kdb "github.com/investperdiem/perdiem/pkg/domain/artist/db"
	kpgartist "github.com/investperdiem/perdiem/pkg/domain/artist/db/postgres"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/utils/try"
)

var longAgo = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// artist 1 (New York, jazz) has two campaigns: alice and bob invested in the first one,
// and carol's investment is refunded.
// bob is a musician of artist 1, and it has posted two updates.
// artist 2 (Newark, blues) has a project without campaigns, and an update.
// artist 3 (Los Angeles) has nothing.
func premise() tables.Operation {
	return tables.Operation{
		UserAccounts: []tables.UserAccount{
			{Id: 1, Username: "alice"},
			{Id: 2, Username: "bob"},
			{Id: 3, Username: "carol"},
		},
		Genres: []tables.Genre{{Id: 1, Name: "jazz"}, {Id: 2, Name: "blues"}},
		Artists: []tables.Artist{
			{Id: 1, Name: "Uptown", Slug: "uptown", Lat: "40.7128", Lon: "-74.0060"},
			{Id: 2, Name: "Across", Slug: "across", Lat: "40.7357", Lon: "-74.1724"},
			{Id: 3, Name: "Coast", Slug: "coast", Lat: "34.0522", Lon: "-118.2437"},
		},
		ArtistGenres: []tables.ArtistGenre{{ArtistId: 1, GenreId: 1}, {ArtistId: 2, GenreId: 2}},
		ArtistAdmins: []tables.ArtistAdmin{{Id: 1, ArtistId: 1, UserId: 2, Role: "musician"}},
		Updates: []tables.ArtistUpdate{
			{Id: 1, ArtistId: 1, Title: "Recording", Text: "we are in the studio", CreatedAt: longAgo},
			{Id: 2, ArtistId: 1, Title: "Mixing", Text: "almost there", CreatedAt: longAgo.Add(24 * time.Hour)},
			{Id: 3, ArtistId: 2, Title: "Tour dates", Text: "see you", CreatedAt: longAgo},
		},
		Projects: []tables.Project{
			{Id: 1, ArtistId: 1, Reason: "album"},
			{Id: 2, ArtistId: 2, Reason: "tour"},
		},
		Campaigns: []tables.Campaign{
			{Id: 1, ProjectId: 1, Amount: 1000, ValuePerShare: 2, StartAt: &longAgo, FansPercentage: 20},
			{Id: 2, ProjectId: 1, Amount: 500, ValuePerShare: 1, FansPercentage: 10},
		},
		Charges: []tables.Charge{
			{Id: "ch_a", UserId: 1, Amount: "11.59", Paid: true},
			{Id: "ch_b", UserId: 2, Amount: "11.59", Paid: true},
			{Id: "ch_c", UserId: 3, Amount: "11.59", Paid: true, Refunded: true},
		},
		Investments: []tables.Investment{
			{Id: 1, ChargeId: "ch_a", CampaignId: 1, NumShares: 10, TransactionAt: longAgo.Add(time.Hour)},
			{Id: 2, ChargeId: "ch_b", CampaignId: 1, NumShares: 5, TransactionAt: longAgo.Add(time.Hour)},
			{Id: 3, ChargeId: "ch_c", CampaignId: 1, NumShares: 50, TransactionAt: longAgo.Add(time.Hour)},
		},
	}
}

func ids(summaries []domain.ArtistSummary) []int64 {
	ret := make([]int64, 0, len(summaries))
	for _, s := range summaries {
		ret = append(ret, s.Artist.Id)
	}
	return ret
}

func TestArtist_Get(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)
	prem := premise()
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgartist.New(pool)

	t.Run("it aggregates settled investments", func(t *testing.T) {
		actual := try.To(testee.Get(ctx, 1)).OrFatal(t)
		if actual.Artist.Name != "Uptown" || !slices.Equal(actual.Artist.Genres, []string{"jazz"}) {
			t.Errorf("artist: %+v", actual.Artist)
		}
		if actual.Investors != 2 {
			t.Errorf("investors: (actual, expected) = (%d, %d)", actual.Investors, 2)
		}
		if actual.Raised != 30 {
			t.Errorf("raised: (actual, expected) = (%d, %d)", actual.Raised, 30)
		}
		if len(actual.Campaigns) != 2 {
			t.Fatalf("campaigns: %+v", actual.Campaigns)
		}
		if c := actual.Campaigns[0]; c.Id != 1 || c.SharesSold != 15 {
			t.Errorf("campaign #1: %+v", c)
		}
		if c := actual.Campaigns[1]; c.Id != 2 || c.SharesSold != 0 {
			t.Errorf("campaign #2: %+v", c)
		}
	})

	t.Run("artist without campaigns has zeroes", func(t *testing.T) {
		actual := try.To(testee.Get(ctx, 3)).OrFatal(t)
		if actual.Investors != 0 || actual.Raised != 0 || len(actual.Campaigns) != 0 {
			t.Errorf("unexpected summary: %+v", actual)
		}
	})

	t.Run("unknown artist is missing", func(t *testing.T) {
		if _, err := testee.Get(ctx, 99); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestArtist_List(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)
	prem := premise()
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgartist.New(pool)

	newYork := domain.Point{Lat: 40.7128, Lon: -74.0060}
	box := domain.BoundingBox(newYork, 25)

	for name, testcase := range map[string]struct {
		filter   kdb.Filter
		expected []int64
	}{
		"no filter lists everything": {
			filter: kdb.Filter{}, expected: []int64{3, 2, 1},
		},
		"genre": {
			filter: kdb.Filter{Genre: "blues"}, expected: []int64{2},
		},
		"unknown genre": {
			filter: kdb.Filter{Genre: "metal"}, expected: []int64{},
		},
		"box": {
			filter: kdb.Filter{Within: &box}, expected: []int64{2, 1},
		},
		"box and genre": {
			filter: kdb.Filter{Within: &box, Genre: "jazz"}, expected: []int64{1},
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := try.To(testee.List(ctx, testcase.filter)).OrFatal(t)
			if !slices.Equal(ids(actual), testcase.expected) {
				t.Errorf("(actual, expected) = (%v, %v)", ids(actual), testcase.expected)
			}
		})
	}
}

func TestArtist_Create(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)
	prem := premise()
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgartist.New(pool)

	t.Run("it creates an artist with known and new genres", func(t *testing.T) {
		actual := try.To(testee.Create(ctx, domain.Artist{
			Name: "Fresh", Slug: "fresh", Lat: 51.507351, Lon: -0.127758,
			Genres: []string{"jazz", "punk", "jazz"},
		})).OrFatal(t)

		if actual.Id == 0 || actual.Name != "Fresh" {
			t.Errorf("unexpected artist: %+v", actual)
		}
		if actual.Lat != 51.5074 || actual.Lon != -0.1278 {
			t.Errorf("coordinates are not rounded: (%v, %v)", actual.Lat, actual.Lon)
		}
		if !slices.Equal(actual.Genres, []string{"jazz", "punk"}) {
			t.Errorf("genres: %v", actual.Genres)
		}

		genres := try.To(testee.Genres(ctx)).OrFatal(t)
		if expected := []string{"blues", "jazz", "punk"}; !slices.Equal(genres, expected) {
			t.Errorf("(actual, expected) = (%v, %v)", genres, expected)
		}
	})

	t.Run("slug conflicts", func(t *testing.T) {
		_, err := testee.Create(ctx, domain.Artist{Name: "Again", Slug: "uptown"})
		if !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestArtist_Membership(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)
	prem := premise()
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgartist.New(pool)

	for name, testcase := range map[string]struct {
		artistId int64
		userId   int64
		admin    bool
		investor bool
	}{
		"alice invested in artist 1": {artistId: 1, userId: 1, investor: true},
		"bob is a musician of artist 1, and invested": {
			artistId: 1, userId: 2, admin: true, investor: true,
		},
		"refunded carol is not an investor": {artistId: 1, userId: 3},
		"alice has nothing on artist 2":     {artistId: 2, userId: 1},
	} {
		t.Run(name, func(t *testing.T) {
			admin := try.To(testee.IsAdmin(ctx, testcase.artistId, testcase.userId)).OrFatal(t)
			if admin != testcase.admin {
				t.Errorf("admin: (actual, expected) = (%v, %v)", admin, testcase.admin)
			}
			investor := try.To(testee.IsInvestor(ctx, testcase.artistId, testcase.userId)).OrFatal(t)
			if investor != testcase.investor {
				t.Errorf("investor: (actual, expected) = (%v, %v)", investor, testcase.investor)
			}
		})
	}
}

func TestArtist_Updates(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)
	prem := premise()
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgartist.New(pool)

	updateIds := func(us []domain.ArtistUpdate) []int64 {
		ret := []int64{}
		for _, u := range us {
			ret = append(ret, u.Id)
		}
		return ret
	}

	t.Run("updates are listed newest first", func(t *testing.T) {
		actual := try.To(testee.Updates(ctx, 1)).OrFatal(t)
		if expected := []int64{2, 1}; !slices.Equal(updateIds(actual), expected) {
			t.Errorf("(actual, expected) = (%v, %v)", updateIds(actual), expected)
		}
		if actual[0].Title != "Mixing" || !actual[0].CreatedAt.Equal(longAgo.Add(24*time.Hour)) {
			t.Errorf("unexpected update: %+v", actual[0])
		}
	})

	t.Run("artist without updates has none", func(t *testing.T) {
		actual := try.To(testee.Updates(ctx, 3)).OrFatal(t)
		if len(actual) != 0 {
			t.Errorf("unexpected updates: %+v", actual)
		}
	})

	t.Run("created update is the newest", func(t *testing.T) {
		created := try.To(testee.CreateUpdate(ctx, domain.ArtistUpdate{
			ArtistId: 3, Title: "Hello", Text: "first post",
		})).OrFatal(t)
		if created.Id == 0 || created.ArtistId != 3 || created.CreatedAt.IsZero() {
			t.Errorf("unexpected update: %+v", created)
		}

		got := try.To(testee.GetUpdate(ctx, created.Id)).OrFatal(t)
		if got.Title != "Hello" || got.Text != "first post" {
			t.Errorf("(actual, expected) = (%+v, %+v)", got, created)
		}
	})

	t.Run("update for unknown artist is missing", func(t *testing.T) {
		_, err := testee.CreateUpdate(ctx, domain.ArtistUpdate{ArtistId: 99, Title: "x", Text: "y"})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("deleted update is missing", func(t *testing.T) {
		if err := testee.DeleteUpdate(ctx, 3); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.GetUpdate(ctx, 3); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("get: unexpected error: %v", err)
		}
		if err := testee.DeleteUpdate(ctx, 3); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("delete again: unexpected error: %v", err)
		}
	})
}
