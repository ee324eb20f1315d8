package domain

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Holding is an investment with what its earnings depend on.
type Holding struct {
	Investment Investment      `json:"investment"`
	Campaign   Campaign        `json:"campaign"`
	Artist     Artist          `json:"artist"`
	Reports    []RevenueReport `json:"reports"`
}

func (h Holding) Invested() decimal.Decimal {
	return decimal.NewFromInt(h.Investment.Invested(h.Campaign))
}

func (h Holding) Earned() decimal.Decimal {
	return Earnings(h.Investment, h.Campaign, h.Reports)
}

// ProfileArtist is an artist a user invested in, with totals over the user's investments in the artist.
type ProfileArtist struct {
	Artist        Artist          `json:"artist"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalEarned   decimal.Decimal `json:"total_earned"`
}

// ProfileContext is the investor profile projection of a user.
type ProfileContext struct {
	Campaigns        []Campaign      `json:"campaigns"`
	Artists          []ProfileArtist `json:"artists"`
	TotalInvestments decimal.Decimal `json:"total_investments"`
	TotalEarned      decimal.Decimal `json:"total_earned"`

	// return on investment, in percent.
	Percentage decimal.Decimal `json:"percentage"`
}

// ComputeProfile builds a profile from holdings of a user.
//
// Holdings backed by unsettled charges are ignored.
// Campaigns and artists are ordered by their id.
func ComputeProfile(holdings []Holding) ProfileContext {
	campaigns := map[int64]Campaign{}
	artists := map[int64]*ProfileArtist{}
	invested := decimal.Zero
	earned := decimal.Zero

	for _, h := range holdings {
		if !h.Investment.Counts() {
			continue
		}
		campaigns[h.Campaign.Id] = h.Campaign

		pa, ok := artists[h.Artist.Id]
		if !ok {
			pa = &ProfileArtist{
				Artist: h.Artist, TotalInvested: decimal.Zero, TotalEarned: decimal.Zero,
			}
			artists[h.Artist.Id] = pa
		}
		i, e := h.Invested(), h.Earned()
		pa.TotalInvested = pa.TotalInvested.Add(i)
		pa.TotalEarned = pa.TotalEarned.Add(e)
		invested = invested.Add(i)
		earned = earned.Add(e)
	}

	pc := ProfileContext{
		Campaigns:        make([]Campaign, 0, len(campaigns)),
		Artists:          make([]ProfileArtist, 0, len(artists)),
		TotalInvestments: invested,
		TotalEarned:      earned,
		Percentage:       decimal.Zero,
	}
	for _, c := range campaigns {
		pc.Campaigns = append(pc.Campaigns, c)
	}
	slices.SortFunc(pc.Campaigns, func(a, b Campaign) int { return cmp.Compare(a.Id, b.Id) })
	for _, a := range artists {
		pc.Artists = append(pc.Artists, *a)
	}
	slices.SortFunc(pc.Artists, func(a, b ProfileArtist) int { return cmp.Compare(a.Artist.Id, b.Artist.Id) })

	if !invested.IsZero() {
		pc.Percentage = earned.Div(invested).Mul(hundred)
	}
	return pc
}

// InvestorHoldings is the whole holdings of an investor.
type InvestorHoldings struct {
	Investor Identity
	Holdings []Holding
}

// LeaderboardEntry is a line of the leaderboard.
//
// Avatar is resolved into URL when it is shown, since signed URLs expire.
type LeaderboardEntry struct {
	Investor Identity        `json:"investor"`
	Amount   decimal.Decimal `json:"amount"`
}

func (l LeaderboardEntry) Name() string {
	return l.Investor.DisplayName()
}

func (l LeaderboardEntry) ProfileURL() string {
	return l.Investor.ProfileURL()
}

const DefaultLeaderboardSize = 20

// ComputeLeaderboard ranks non-anonymous investors who earned something, by their earnings.
//
// At most n entries are returned, none for negative n. Ties are ordered by user id.
func ComputeLeaderboard(investors []InvestorHoldings, n int) []LeaderboardEntry {
	entries := []LeaderboardEntry{}
	for _, inv := range investors {
		if inv.Investor.InvestAnonymously {
			continue
		}
		earned := decimal.Zero
		for _, h := range inv.Holdings {
			earned = earned.Add(h.Earned())
		}
		if !earned.IsPositive() {
			continue
		}
		entries = append(entries, LeaderboardEntry{Investor: inv.Investor, Amount: earned})
	}

	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Investor.UserId, b.Investor.UserId)
	})
	if n < len(entries) {
		entries = entries[:max(n, 0)]
	}
	return entries
}
