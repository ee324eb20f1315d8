package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ArtistSummary is an artist with aggregates used to rank artists.
type ArtistSummary struct {
	Artist Artist `json:"artist"`

	// every campaign of every project of the artist.
	Campaigns []Ledger `json:"campaigns"`

	// number of distinct users with settled investments on the artist's campaigns.
	Investors int64 `json:"investors"`

	// dollars raised by settled investments on the artist's campaigns.
	Raised int64 `json:"raised"`
}

// LatestCampaign returns the started campaign with the latest start.
func (a ArtistSummary) LatestCampaign(now time.Time) (Ledger, bool) {
	return latestStarted(a.Campaigns, now, func(Ledger) bool { return true })
}

// ActiveCampaign returns the started, not ended campaign with the latest start.
//
// A campaign ending exactly at now is still active.
func (a ArtistSummary) ActiveCampaign(now time.Time) (Ledger, bool) {
	return latestStarted(a.Campaigns, now, func(l Ledger) bool {
		return l.EndAt == nil || !l.EndAt.Before(now)
	})
}

// PastCampaigns returns ended campaigns, the most recently ended first.
func (a ArtistSummary) PastCampaigns(now time.Time) []Ledger {
	past := []Ledger{}
	for _, l := range a.Campaigns {
		if l.Ended(now) {
			past = append(past, l)
		}
	}
	slices.SortFunc(past, func(x, y Ledger) int { return y.EndAt.Compare(*x.EndAt) })
	return past
}

// AllCampaignsFailed reports whether the artist has no active campaign, and
// every past campaign (at least one) ended without being fully funded.
func (a ArtistSummary) AllCampaignsFailed(now time.Time) bool {
	if _, ok := a.ActiveCampaign(now); ok {
		return false
	}
	past := a.PastCampaigns(now)
	if len(past) == 0 {
		return false
	}
	for _, l := range past {
		if l.PercentageFunded() == 100 {
			return false
		}
	}
	return true
}

// Funded reports whether the latest campaign is fully funded.
func (a ArtistSummary) Funded(now time.Time) bool {
	l, ok := a.LatestCampaign(now)
	return ok && l.PercentageFunded() == 100
}

func latestStarted(ls []Ledger, now time.Time, pred func(Ledger) bool) (Ledger, bool) {
	var found *Ledger
	for i := range ls {
		l := ls[i]
		if !l.Started(now) || !pred(l) {
			continue
		}
		// campaigns without start are the oldest.
		if found == nil || found.StartAt == nil || (l.StartAt != nil && l.StartAt.After(*found.StartAt)) {
			found = &ls[i]
		}
	}
	if found == nil {
		return Ledger{}, false
	}
	return *found, true
}

type ArtistOrder string

const (
	OrderRecent        ArtistOrder = "recent"
	OrderFunded        ArtistOrder = "funded"
	OrderTimeRemaining ArtistOrder = "time-remaining"
	OrderInvestors     ArtistOrder = "investors"
	OrderRaised        ArtistOrder = "raised"
	OrderValuation     ArtistOrder = "valuation"
)

func ParseArtistOrder(s string) (ArtistOrder, error) {
	switch o := ArtistOrder(s); o {
	case OrderRecent, OrderFunded, OrderTimeRemaining, OrderInvestors, OrderRaised, OrderValuation:
		return o, nil
	case "":
		return OrderRecent, nil
	}
	return "", fmt.Errorf(
		"unknown order: %s (should be one of -- recent|funded|time-remaining|investors|raised|valuation)", s,
	)
}

// SortArtists orders artists in place, and returns them.
//
// Every order falls back to descending id on ties.
func SortArtists(artists []ArtistSummary, order ArtistOrder, now time.Time) []ArtistSummary {
	byId := func(a, b ArtistSummary) int { return cmp.Compare(b.Artist.Id, a.Artist.Id) }

	var key func(a, b ArtistSummary) int
	switch order {
	case OrderFunded:
		key = func(a, b ArtistSummary) int {
			return compareOptionalDesc(latestFunded(a, now), latestFunded(b, now))
		}
	case OrderValuation:
		key = func(a, b ArtistSummary) int {
			return compareOptionalDesc(latestValuation(a, now), latestValuation(b, now))
		}
	case OrderTimeRemaining:
		key = func(a, b ArtistSummary) int {
			ga, ta := remaining(a, now)
			gb, tb := remaining(b, now)
			if c := cmp.Compare(ga, gb); c != 0 {
				return c
			}
			switch ga {
			case remainingActive:
				return ta.Compare(tb)
			case remainingPast:
				return tb.Compare(ta)
			}
			return 0
		}
	case OrderInvestors:
		key = func(a, b ArtistSummary) int { return cmp.Compare(b.Investors, a.Investors) }
	case OrderRaised:
		key = func(a, b ArtistSummary) int { return cmp.Compare(b.Raised, a.Raised) }
	default:
		key = func(a, b ArtistSummary) int { return 0 }
	}

	slices.SortStableFunc(artists, func(a, b ArtistSummary) int {
		if c := key(a, b); c != 0 {
			return c
		}
		return byId(a, b)
	})
	return artists
}

func latestFunded(a ArtistSummary, now time.Time) *decimal.Decimal {
	l, ok := a.LatestCampaign(now)
	if !ok {
		return nil
	}
	f := decimal.NewFromInt(l.PercentageFunded())
	return &f
}

func latestValuation(a ArtistSummary, now time.Time) *decimal.Decimal {
	l, ok := a.LatestCampaign(now)
	if !ok {
		return nil
	}
	v, ok := l.Valuation()
	if !ok {
		return nil
	}
	return &v
}

// descending; nil goes last.
func compareOptionalDesc(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return b.Cmp(*a)
}

const (
	remainingActive = iota
	remainingActiveWithoutEnd
	remainingPast
	remainingNone
)

// remaining classifies an artist for time-remaining order.
func remaining(a ArtistSummary, now time.Time) (int, time.Time) {
	if l, ok := a.ActiveCampaign(now); ok {
		if l.EndAt == nil {
			return remainingActiveWithoutEnd, time.Time{}
		}
		return remainingActive, *l.EndAt
	}
	if past := a.PastCampaigns(now); len(past) != 0 {
		return remainingPast, *past[0].EndAt
	}
	return remainingNone, time.Time{}
}
