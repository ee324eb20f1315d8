package project_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/domain/project"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/project/db/mock"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/utils/try"
	"github.com/shopspring/decimal"
)

var (
	started = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReportRevenue(t *testing.T) {
	t.Run("it records a report and publishes it with investors", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewProjectInterface()
		report := domain.RevenueReport{Id: 5, ProjectId: 2, Amount: dec("1000"), ReportedAt: now}
		mdb.Impl.ReportRevenue = func(context.Context, int64, decimal.Decimal) (domain.RevenueReport, []int64, error) {
			return report, []int64{11, 12}, nil
		}

		published := []domain.Event{}
		bus := events.New(log.New(io.Discard, "", 0))
		bus.Subscribe("recorder", func(_ context.Context, ev domain.Event) error {
			published = append(published, ev)
			return nil
		})

		testee := project.New(mdb, bus)
		actual := try.To(testee.ReportRevenue(ctx, 2, dec("1000"))).OrFatal(t)
		if actual.Id != 5 {
			t.Errorf("report: %+v", actual)
		}
		if len(published) != 1 {
			t.Fatalf("published: %+v", published)
		}
		ev, ok := published[0].(domain.RevenueReported)
		if !ok {
			t.Fatalf("unexpected event: %#v", published[0])
		}
		if ev.ProjectId != 2 || ev.Report.Id != 5 || len(ev.InvestorProfileIds) != 2 {
			t.Errorf("unexpected event: %+v", ev)
		}
		if args := mdb.Calls.ReportRevenue[0]; args.ProjectId != 2 || !args.Amount.Equal(dec("1000")) {
			t.Errorf("unexpected args: %+v", args)
		}
	})

	t.Run("it publishes nothing on failure", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewProjectInterface()
		mdb.Impl.ReportRevenue = func(context.Context, int64, decimal.Decimal) (domain.RevenueReport, []int64, error) {
			return domain.RevenueReport{}, nil, domerr.ErrNoCampaignDefined
		}
		published := 0
		bus := events.New(log.New(io.Discard, "", 0))
		bus.Subscribe("recorder", func(context.Context, domain.Event) error {
			published += 1
			return nil
		})

		testee := project.New(mdb, bus)
		if _, err := testee.ReportRevenue(ctx, 2, dec("1000")); !errors.Is(err, domerr.ErrNoCampaignDefined) {
			t.Errorf("unexpected error: %v", err)
		}
		if published != 0 {
			t.Errorf("published %d events", published)
		}
	})
}

func TestReportRevenue_Amount(t *testing.T) {
	for name, testcase := range map[string]struct {
		amount string
		valid  bool
	}{
		"cents":                     {amount: "0.01", valid: true},
		"largest":                   {amount: "9999999.99", valid: true},
		"zero":                      {amount: "0"},
		"negative":                  {amount: "-5"},
		"ten million":               {amount: "10000000"},
		"rounded up to ten million": {amount: "9999999.995"},
		"beyond the column":         {amount: "123456789012"},
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			mdb := dbmock.NewProjectInterface()
			mdb.Impl.ReportRevenue = func(_ context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, []int64, error) {
				return domain.RevenueReport{Id: 1, ProjectId: projectId, Amount: amount, ReportedAt: now}, nil, nil
			}
			testee := project.New(mdb, events.Null())

			_, err := testee.ReportRevenue(ctx, 2, dec(testcase.amount))
			if testcase.valid {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domerr.ErrInvalidAmount) {
				t.Errorf("error: (actual, expected) = (%v, %v)", err, domerr.ErrInvalidAmount)
			}
			if mdb.Calls.ReportRevenue.Times() != 0 {
				t.Errorf("invalid amount reaches the database")
			}
		})
	}
}

func TestUpsertBreakdown(t *testing.T) {
	ctx := context.Background()
	mdb := dbmock.NewProjectInterface()
	mdb.Impl.UpsertBreakdown = func(_ context.Context, _ int64, rows []domain.Breakdown) ([]domain.Breakdown, error) {
		return rows, nil
	}
	mdb.Impl.Get = func(context.Context, int64) (domain.ProjectState, error) {
		return domain.ProjectState{
			Project: domain.Project{Id: 2, ArtistId: 1},
			Artist:  domain.Artist{Id: 1, Name: "Band"},
			Campaigns: []domain.CampaignState{
				{Campaign: domain.Campaign{Id: 1, ProjectId: 2, Amount: 1000, ValuePerShare: 1, FansPercentage: 20}},
			},
		}, nil
	}

	testee := project.New(mdb, events.Null())
	actual := try.To(testee.UpsertBreakdown(ctx, 2, []domain.Breakdown{
		{DisplayName: "drums", Percentage: dec("20")},
		{DisplayName: "vocal", Percentage: dec("40")},
		{DisplayName: "drums", Percentage: dec("20")},
	})).OrFatal(t)

	expected := []domain.Breakdown{
		{DisplayName: "drums", Percentage: dec("40")},
		{DisplayName: "vocal", Percentage: dec("40")},
	}
	if len(actual) != len(expected) {
		t.Fatalf("(actual, expected) = (%+v, %+v)", actual, expected)
	}
	for n := range expected {
		if actual[n].DisplayName != expected[n].DisplayName || !actual[n].Percentage.Equal(expected[n].Percentage) {
			t.Errorf("#%d: (actual, expected) = (%+v, %+v)", n, actual[n], expected[n])
		}
	}
}

func TestInvestors(t *testing.T) {
	ctx := context.Background()

	alice := domain.Identity{UserId: 1, ProfileId: 11, Username: "alice"}
	bob := domain.Identity{UserId: 2, ProfileId: 12, Username: "bob"}
	paid := func(id string, user int64) domain.Charge {
		return domain.Charge{Id: id, UserId: user, Paid: true}
	}

	mdb := dbmock.NewProjectInterface()
	mdb.Impl.Get = func(context.Context, int64) (domain.ProjectState, error) {
		return domain.ProjectState{
			Project: domain.Project{Id: 2, ArtistId: 1},
			Campaigns: []domain.CampaignState{
				{
					Campaign: domain.Campaign{
						Id: 1, ProjectId: 2, Amount: 1000, ValuePerShare: 1,
						StartAt: &started, FansPercentage: 20,
					},
					Investments: []domain.Investment{
						{Id: 1, NumShares: 100, Charge: paid("a", 1), Investor: alice},
						{Id: 2, NumShares: 300, Charge: paid("b", 2), Investor: bob},
						{Id: 3, NumShares: 50, Charge: paid("c", 1), Investor: alice},
						{Id: 4, NumShares: 500, Charge: domain.Charge{Id: "d", UserId: 2, Paid: true, Refunded: true}, Investor: bob},
					},
				},
			},
		}, nil
	}

	testee := project.New(mdb, events.Null(), project.WithClock(func() time.Time { return now }))
	actual := try.To(testee.Investors(ctx, 2)).OrFatal(t)

	if len(actual) != 2 {
		t.Fatalf("stakes: %+v", actual)
	}
	if actual[0].Investor.UserId != 2 || actual[0].NumShares != 300 || actual[0].TotalInvestment != 300 {
		t.Errorf("first: %+v", actual[0])
	}
	if actual[1].Investor.UserId != 1 || actual[1].NumShares != 150 || actual[1].TotalInvestment != 150 {
		t.Errorf("second: %+v", actual[1])
	}
	if actual[0].Percentage == nil || !actual[0].Percentage.Equal(dec("6")) {
		t.Errorf("percentage of bob: %v", actual[0].Percentage)
	}
	if actual[1].Percentage == nil || !actual[1].Percentage.Equal(dec("3")) {
		t.Errorf("percentage of alice: %v", actual[1].Percentage)
	}
}
