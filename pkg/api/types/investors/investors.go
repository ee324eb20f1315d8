// Package investors is the public JSON shape of investors.
//
// Identities are never rendered as is: emails and ids of anonymous
// investors must not leak through public pages.
package investors

import (
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/shopspring/decimal"
)

type Investor struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url,omitempty"`
	AvatarURL  string `json:"avatar_url"`
}

// ComposeInvestor renders id as displayed publicly. sign can be nil.
func ComposeInvestor(id domain.Identity, sign domain.AvatarSigner) Investor {
	return Investor{
		Name:       id.DisplayName(),
		ProfileURL: id.ProfileURL(),
		AvatarURL:  id.AvatarURL(sign),
	}
}

type Stake struct {
	Investor        Investor         `json:"investor"`
	NumShares       int64            `json:"num_shares"`
	TotalInvestment int64            `json:"total_investment"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty"`
}

func ComposeStakes(stakes []domain.InvestorStake, sign domain.AvatarSigner) []Stake {
	ret := make([]Stake, 0, len(stakes))
	for _, s := range stakes {
		ret = append(ret, Stake{
			Investor:        ComposeInvestor(s.Investor, sign),
			NumShares:       s.NumShares,
			TotalInvestment: s.TotalInvestment,
			Percentage:      s.Percentage,
		})
	}
	return ret
}

type LeaderboardEntry struct {
	Rank     int             `json:"rank"`
	Investor Investor        `json:"investor"`
	Amount   decimal.Decimal `json:"amount"`
}

// ComposeLeaderboard ranks entries from 1, in the given order.
func ComposeLeaderboard(entries []domain.LeaderboardEntry, sign domain.AvatarSigner) []LeaderboardEntry {
	ret := make([]LeaderboardEntry, 0, len(entries))
	for n, e := range entries {
		ret = append(ret, LeaderboardEntry{
			Rank:     n + 1,
			Investor: ComposeInvestor(e.Investor, sign),
			Amount:   e.Amount,
		})
	}
	return ret
}

type Profile struct {
	Investor Investor              `json:"investor"`
	Profile  domain.ProfileContext `json:"profile"`

	// set only on the profile of the user oneself.
	InvestAnonymously *bool `json:"invest_anonymously,omitempty"`
}

// ComposeProfile renders the profile as seen by others.
func ComposeProfile(id domain.Identity, pc domain.ProfileContext, sign domain.AvatarSigner) Profile {
	return Profile{Investor: ComposeInvestor(id, sign), Profile: pc}
}

// ComposeOwnProfile renders the profile as seen by its owner.
//
// The owner sees oneself by name even while investing anonymously.
func ComposeOwnProfile(id domain.Identity, pc domain.ProfileContext, sign domain.AvatarSigner) Profile {
	anonymous := id.InvestAnonymously
	id.InvestAnonymously = false
	p := ComposeProfile(id, pc, sign)
	p.InvestAnonymously = &anonymous
	return p
}
