package artists

import (
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/shopspring/decimal"
)

type Campaign struct {
	Id               int64      `json:"id"`
	ProjectId        int64      `json:"project_id"`
	Amount           int64      `json:"amount"`
	ValuePerShare    int64      `json:"value_per_share"`
	StartAt          *time.Time `json:"start_at,omitempty"`
	EndAt            *time.Time `json:"end_at,omitempty"`
	FansPercentage   int64      `json:"fans_percentage"`
	SharesSold       int64      `json:"shares_sold"`
	AmountRaised     int64      `json:"amount_raised"`
	PercentageFunded int64      `json:"percentage_funded"`
	Open             bool       `json:"open"`

	Valuation *decimal.Decimal `json:"valuation,omitempty"`
}

func ComposeCampaign(l domain.Ledger, now time.Time) Campaign {
	c := Campaign{
		Id:               l.Id,
		ProjectId:        l.ProjectId,
		Amount:           l.Amount,
		ValuePerShare:    l.ValuePerShare,
		StartAt:          l.StartAt,
		EndAt:            l.EndAt,
		FansPercentage:   l.FansPercentage,
		SharesSold:       l.SharesSold,
		AmountRaised:     l.AmountRaised(),
		PercentageFunded: l.PercentageFunded(),
		Open:             l.IsOpen(now),
	}
	if v, ok := l.Valuation(); ok {
		c.Valuation = &v
	}
	return c
}

type Summary struct {
	domain.Artist

	Investors int64 `json:"investors"`
	Raised    int64 `json:"raised"`

	LatestCampaign *Campaign  `json:"latest_campaign,omitempty"`
	ActiveCampaign *Campaign  `json:"active_campaign,omitempty"`
	PastCampaigns  []Campaign `json:"past_campaigns"`
	AllFailed      bool       `json:"all_campaigns_failed"`
}

// ComposeSummary renders an artist with its campaigns as they stand at now.
func ComposeSummary(a domain.ArtistSummary, now time.Time) Summary {
	s := Summary{
		Artist:        a.Artist,
		Investors:     a.Investors,
		Raised:        a.Raised,
		PastCampaigns: []Campaign{},
		AllFailed:     a.AllCampaignsFailed(now),
	}
	if l, ok := a.LatestCampaign(now); ok {
		c := ComposeCampaign(l, now)
		s.LatestCampaign = &c
	}
	if l, ok := a.ActiveCampaign(now); ok {
		c := ComposeCampaign(l, now)
		s.ActiveCampaign = &c
	}
	for _, l := range a.PastCampaigns(now) {
		s.PastCampaigns = append(s.PastCampaigns, ComposeCampaign(l, now))
	}
	return s
}

func ComposeSummaries(as []domain.ArtistSummary, now time.Time) []Summary {
	ret := make([]Summary, 0, len(as))
	for _, a := range as {
		ret = append(ret, ComposeSummary(a, now))
	}
	return ret
}
