package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/cmp"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/shopspring/decimal"
)

func investor(userId int64, name string) domain.Identity {
	return domain.Identity{UserId: userId, ProfileId: userId * 10, Username: name}
}

func TestProjectState_Aggregates(t *testing.T) {
	started := now.Add(-24 * time.Hour)

	project := domain.ProjectState{
		Project: domain.Project{Id: 1, ArtistId: 1, Reason: "recording"},
		Artist:  domain.Artist{Id: 1, Name: "The Band"},
		Campaigns: []domain.CampaignState{
			{
				Campaign: domain.Campaign{Id: 1, Amount: 10_000, ValuePerShare: 1, FansPercentage: 20, StartAt: &started},
				Investments: []domain.Investment{
					{Charge: settled(1), NumShares: 1, TransactionAt: now.Add(-time.Hour), Investor: investor(1, "u1")},
				},
			},
		},
		Reports: []domain.RevenueReport{
			{Amount: decimal.NewFromInt(100), ReportedAt: now},
		},
	}

	t.Run("shares, fans and artist percentage", func(t *testing.T) {
		if actual := project.TotalNumShares(); !actual.Equal(decimal.NewFromInt(10_000)) {
			t.Errorf("total num shares: %s", actual)
		}
		if actual := project.TotalFansPercentage(); actual != 20 {
			t.Errorf("total fans percentage: %d", actual)
		}
		if actual, ok := project.TotalArtistPercentage(); !ok || actual != 80 {
			t.Errorf("total artist percentage: %d, %v", actual, ok)
		}
	})

	t.Run("generated revenue for fans is fans percentage of total revenue", func(t *testing.T) {
		actual := project.GeneratedRevenueFans()
		if !actual.Equal(decimal.NewFromInt(20)) {
			t.Errorf("generated revenue fans: %s", actual)
		}
	})

	t.Run("ledger of a campaign counts settled investments only", func(t *testing.T) {
		cs := project.Campaigns[0]
		cs.Investments = append(cs.Investments, domain.Investment{
			Charge: domain.Charge{Paid: false}, NumShares: 50,
		})
		l := cs.Ledger()
		if l.SharesSold != 1 {
			t.Errorf("shares sold: %d", l.SharesSold)
		}
		if l.PercentageFunded() != 1 {
			t.Errorf("percentage funded: %d", l.PercentageFunded())
		}
	})

	t.Run("project without campaigns has undefined artist percentage", func(t *testing.T) {
		empty := domain.ProjectState{Project: domain.Project{Id: 2}}
		if _, ok := empty.TotalArtistPercentage(); ok {
			t.Error("artist percentage should be undefined")
		}
	})
}

func TestProjectState_ArtistPercentageBreakdown(t *testing.T) {
	base := domain.ProjectState{
		Artist: domain.Artist{Name: "The Band"},
		Campaigns: []domain.CampaignState{
			{Campaign: domain.Campaign{Amount: 100, ValuePerShare: 1, FansPercentage: 30}},
		},
	}
	eq := func(a, b domain.Breakdown) bool {
		return a.DisplayName == b.DisplayName && a.Percentage.Equal(b.Percentage)
	}

	t.Run("without breakdowns, the artist owns the artist side", func(t *testing.T) {
		actual := base.ArtistPercentageBreakdown()
		expected := []domain.Breakdown{{DisplayName: "The Band", Percentage: decimal.NewFromInt(70)}}
		if !cmp.SliceEqWith(actual, expected, eq) {
			t.Errorf("(actual, expected) = (%v, %v)", actual, expected)
		}
	})

	t.Run("breakdowns are grouped by name and sorted in descending order", func(t *testing.T) {
		p := base
		p.Breakdowns = []domain.Breakdown{
			{DisplayName: "drums", Percentage: decimal.NewFromInt(10)},
			{DisplayName: "vocal", Percentage: decimal.NewFromInt(25)},
			{DisplayName: "drums", Percentage: decimal.NewFromInt(20)},
			{DisplayName: "bass", Percentage: decimal.NewFromInt(15)},
		}
		actual := p.ArtistPercentageBreakdown()
		expected := []domain.Breakdown{
			{DisplayName: "drums", Percentage: decimal.NewFromInt(30)},
			{DisplayName: "vocal", Percentage: decimal.NewFromInt(25)},
			{DisplayName: "bass", Percentage: decimal.NewFromInt(15)},
		}
		if !cmp.SliceEqWith(actual, expected, eq) {
			t.Errorf("(actual, expected) = (%v, %v)", actual, expected)
		}
	})
}

func TestValidateBreakdown(t *testing.T) {
	row := func(name string, pct string) domain.Breakdown {
		return domain.Breakdown{DisplayName: name, Percentage: decimal.RequireFromString(pct)}
	}

	for name, testcase := range map[string]struct {
		rows []domain.Breakdown
		then error
	}{
		"rows summing up to the artist percentage": {
			rows: []domain.Breakdown{row("a", "40.5"), row("b", "39.5")},
		},
		"no rows": {
			rows: []domain.Breakdown{},
		},
		"rows not summing up": {
			rows: []domain.Breakdown{row("a", "40"), row("b", "39")},
			then: domerr.ErrBreakdownMismatch,
		},
		"negative row": {
			rows: []domain.Breakdown{row("a", "-1"), row("b", "81")},
			then: domerr.ErrBreakdownOutOfRange,
		},
		"row over 100": {
			rows: []domain.Breakdown{row("a", "100.01")},
			then: domerr.ErrBreakdownOutOfRange,
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := domain.ValidateBreakdown(testcase.rows, 80)
			if testcase.then == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, testcase.then) {
				t.Errorf("error: (actual, expected) = (%v, %v)", err, testcase.then)
			}
		})
	}
}

func TestProjectInvestors(t *testing.T) {
	started := now.Add(-24 * time.Hour)
	ended := now.Add(-time.Hour)

	u1, u2 := investor(1, "u1"), investor(2, "u2")

	project := func(end *time.Time) domain.ProjectState {
		return domain.ProjectState{
			Campaigns: []domain.CampaignState{
				{
					Campaign: domain.Campaign{
						Amount: 100, ValuePerShare: 2, FansPercentage: 10,
						StartAt: &started, EndAt: end,
					},
					Investments: []domain.Investment{
						{Charge: settled(1), NumShares: 5, Investor: u1},
						{Charge: settled(2), NumShares: 20, Investor: u2},
						{Charge: settled(1), NumShares: 5, Investor: u1},
						{Charge: domain.Charge{Paid: true, Refunded: true}, NumShares: 10, Investor: u2},
					},
				},
			},
		}
	}

	t.Run("while active, investors have percentage", func(t *testing.T) {
		acc := domain.ProjectInvestors(project(nil), now, nil)
		stakes := domain.SortStakes(acc)

		if len(stakes) != 2 {
			t.Fatalf("stakes: %+v", stakes)
		}
		if s := stakes[0]; s.Investor.UserId != 2 || s.NumShares != 20 || s.TotalInvestment != 40 {
			t.Errorf("first stake: %+v", s)
		}
		if s := stakes[1]; s.Investor.UserId != 1 || s.NumShares != 10 || s.TotalInvestment != 20 {
			t.Errorf("second stake: %+v", s)
		}

		// 20 of 50 shares, of 10%
		if p := stakes[0].Percentage; p == nil || !p.Equal(decimal.NewFromInt(4)) {
			t.Errorf("percentage of u2: %v", p)
		}
		if p := stakes[1].Percentage; p == nil || !p.Equal(decimal.NewFromInt(2)) {
			t.Errorf("percentage of u1: %v", p)
		}
	})

	t.Run("after campaigns end, investors do not have percentage", func(t *testing.T) {
		acc := domain.ProjectInvestors(project(&ended), now, nil)
		for _, s := range acc {
			if s.Percentage != nil {
				t.Errorf("percentage should not be set: %+v", s)
			}
		}
	})

	t.Run("accumulator folds projects", func(t *testing.T) {
		acc := domain.ProjectInvestors(project(&ended), now, nil)
		acc = domain.ProjectInvestors(project(&ended), now, acc)
		if s := acc[1]; s.NumShares != 20 || s.TotalInvestment != 40 {
			t.Errorf("folded stake: %+v", s)
		}
	})
}
