package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

type Artist struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`

	// degrees, 4 decimal places.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	Genres []string `json:"genres,omitempty"`
}

type Project struct {
	Id       int64  `json:"id"`
	ArtistId int64  `json:"artist_id"`
	Reason   string `json:"reason"`
}

// Breakdown is a share of the artist side of the revenue, owned by a member of the artist.
type Breakdown struct {
	DisplayName string          `json:"name"`
	Percentage  decimal.Decimal `json:"percentage"`
}

// CampaignState is a campaign with its investments.
type CampaignState struct {
	Campaign
	Investments []Investment `json:"investments"`
}

// Ledger returns the campaign with shares sold by settled investments.
func (cs CampaignState) Ledger() Ledger {
	var sold int64
	for _, i := range cs.Investments {
		if i.Counts() {
			sold += i.NumShares
		}
	}
	return Ledger{Campaign: cs.Campaign, SharesSold: sold}
}

// ProjectState is a project with everything derived values of the project depend on.
type ProjectState struct {
	Project
	Artist     Artist          `json:"artist"`
	Campaigns  []CampaignState `json:"campaigns"`
	Reports    []RevenueReport `json:"reports"`
	Breakdowns []Breakdown     `json:"breakdowns"`
}

// TotalNumShares sums shares issued by campaigns of the project.
func (p ProjectState) TotalNumShares() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range p.Campaigns {
		sum = sum.Add(c.NumShares())
	}
	return sum
}

// TotalFansPercentage sums fans percentage of campaigns of the project.
func (p ProjectState) TotalFansPercentage() int64 {
	var sum int64
	for _, c := range p.Campaigns {
		sum += c.FansPercentage
	}
	return sum
}

// TotalArtistPercentage returns the percentage of revenue left to the artist.
//
// It is undefined for a project without campaigns, and then ok is false.
func (p ProjectState) TotalArtistPercentage() (percentage int64, ok bool) {
	if len(p.Campaigns) == 0 {
		return 0, false
	}
	return 100 - p.TotalFansPercentage(), true
}

func (p ProjectState) TotalRevenue() decimal.Decimal {
	return TotalRevenue(p.Reports)
}

// GeneratedRevenueFans returns dollars of total revenue owed to fans.
func (p ProjectState) GeneratedRevenueFans() decimal.Decimal {
	return p.TotalRevenue().
		Mul(decimal.NewFromInt(p.TotalFansPercentage())).
		Div(hundred)
}

// Active reports whether some campaign has started and has not ended at now.
func (p ProjectState) Active(now time.Time) bool {
	for _, c := range p.Campaigns {
		started := c.StartAt == nil || !c.StartAt.After(now)
		ended := c.EndAt != nil && !c.EndAt.After(now)
		if started && !ended {
			return true
		}
	}
	return false
}

// ArtistPercentageBreakdown returns breakdowns grouped by display name, in descending order of percentage.
//
// Without explicit breakdowns, the artist owns the whole artist side.
// The row is synthesized and never stored.
func (p ProjectState) ArtistPercentageBreakdown() []Breakdown {
	if len(p.Breakdowns) == 0 {
		pct, _ := p.TotalArtistPercentage()
		return []Breakdown{{DisplayName: p.Artist.Name, Percentage: decimal.NewFromInt(pct)}}
	}

	order := []string{}
	sums := map[string]decimal.Decimal{}
	for _, b := range p.Breakdowns {
		s, ok := sums[b.DisplayName]
		if !ok {
			order = append(order, b.DisplayName)
			s = decimal.Zero
		}
		sums[b.DisplayName] = s.Add(b.Percentage)
	}

	rows := make([]Breakdown, 0, len(order))
	for _, name := range order {
		rows = append(rows, Breakdown{DisplayName: name, Percentage: sums[name]})
	}
	slices.SortStableFunc(rows, func(a, b Breakdown) int {
		return b.Percentage.Cmp(a.Percentage)
	})
	return rows
}

// ValidateBreakdown checks rows to replace breakdowns of a project whose
// artist percentage is artistPercentage.
func ValidateBreakdown(rows []Breakdown, artistPercentage int64) error {
	sum := decimal.Zero
	for _, r := range rows {
		if r.Percentage.IsNegative() || r.Percentage.GreaterThan(hundred) {
			return breakdownOutOfRange(r)
		}
		sum = sum.Add(r.Percentage)
	}
	if len(rows) != 0 && !sum.Equal(decimal.NewFromInt(artistPercentage)) {
		return breakdownMismatch(sum, artistPercentage)
	}
	return nil
}

func breakdownOutOfRange(r Breakdown) error {
	return fmt.Errorf("%w: %s has %s%%", domerr.ErrBreakdownOutOfRange, r.DisplayName, r.Percentage)
}

func breakdownMismatch(sum decimal.Decimal, artistPercentage int64) error {
	return fmt.Errorf(
		"%w: rows sum up to %s%%, but the artist percentage is %d%%",
		domerr.ErrBreakdownMismatch, sum, artistPercentage,
	)
}

// InvestorStake is an investor's roll-up over investments in a project (or an artist).
type InvestorStake struct {
	Investor        Identity `json:"investor"`
	NumShares       int64    `json:"num_shares"`
	TotalInvestment int64    `json:"total_investment"`

	// share of project revenue owned by the investor.
	// Set only while the project is active.
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// ProjectInvestors accumulates settled investments of the project into acc, keyed by user id.
//
// acc can be nil; then a new map is returned.
// Passing the same acc over projects folds them together.
func ProjectInvestors(p ProjectState, now time.Time, acc map[int64]*InvestorStake) map[int64]*InvestorStake {
	if acc == nil {
		acc = map[int64]*InvestorStake{}
	}

	for _, c := range p.Campaigns {
		for _, i := range c.Investments {
			if !i.Counts() {
				continue
			}
			uid := i.Investor.UserId
			s, ok := acc[uid]
			if !ok {
				s = &InvestorStake{Investor: i.Investor}
				acc[uid] = s
			}
			s.NumShares += i.NumShares
			s.TotalInvestment += i.Invested(c.Campaign)
		}
	}

	if p.Active(now) {
		total := p.TotalNumShares()
		fans := decimal.NewFromInt(p.TotalFansPercentage())
		for _, s := range acc {
			if total.IsZero() {
				break
			}
			pct := decimal.NewFromInt(s.NumShares).Div(total).Mul(fans)
			s.Percentage = &pct
		}
	}

	return acc
}

// SortStakes lists stakes in descending order of total investment.
func SortStakes(acc map[int64]*InvestorStake) []InvestorStake {
	stakes := make([]InvestorStake, 0, len(acc))
	for _, s := range acc {
		stakes = append(stakes, *s)
	}
	slices.SortFunc(stakes, func(a, b InvestorStake) int {
		if c := cmp.Compare(b.TotalInvestment, a.TotalInvestment); c != 0 {
			return c
		}
		return cmp.Compare(a.Investor.UserId, b.Investor.UserId)
	})
	return stakes
}
