package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

type Campaign struct {
	Id        int64 `json:"id"`
	ProjectId int64 `json:"project_id"`

	// dollars to raise.
	Amount int64 `json:"amount"`

	// dollars per share. positive.
	ValuePerShare int64 `json:"value_per_share"`

	StartAt *time.Time `json:"start_at,omitempty"`
	EndAt   *time.Time `json:"end_at,omitempty"`

	// share of future revenue allotted to all share holders, in [0, 100].
	FansPercentage int64 `json:"fans_percentage"`

	UseOfFunds string    `json:"use_of_funds,omitempty"`
	Expenses   []Expense `json:"expenses,omitempty"`
}

// Expense is a line of how a campaign spends its funds.
type Expense struct {
	Id          int64  `json:"id"`
	CampaignId  int64  `json:"campaign_id"`
	Description string `json:"description"`
}

// Validate checks attributes of a campaign to be created.
func (c Campaign) Validate() error {
	if c.ValuePerShare < 1 {
		return fmt.Errorf("%w: value per share should be positive", domerr.ErrInvalidCampaign)
	}
	if c.Amount < 0 {
		return fmt.Errorf("%w: amount should not be negative", domerr.ErrInvalidCampaign)
	}
	if c.Amount%c.ValuePerShare != 0 {
		return domerr.ErrIndivisibleAmount
	}
	if c.FansPercentage < 0 || 100 < c.FansPercentage {
		return fmt.Errorf("%w: fans percentage should be in [0, 100]", domerr.ErrInvalidCampaign)
	}
	if c.StartAt != nil && c.EndAt != nil && c.EndAt.Before(*c.StartAt) {
		return fmt.Errorf("%w: end should not be before start", domerr.ErrInvalidCampaign)
	}
	return nil
}

// NumShares returns the number of shares issued.
//
// When amount is not a multiple of value per share, it is not an integer.
func (c Campaign) NumShares() decimal.Decimal {
	return decimal.NewFromInt(c.Amount).Div(decimal.NewFromInt(c.ValuePerShare))
}

// PercentagePerShare returns the percentage of revenue a share entitles to.
func (c Campaign) PercentagePerShare() decimal.Decimal {
	ns := c.NumShares()
	if ns.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(c.FansPercentage).Div(ns)
}

// Valuation returns the implied worth of the project at the fans percentage of this campaign.
//
// Valuation is undefined when fans percentage is 0, and then ok is false.
func (c Campaign) Valuation() (valuation decimal.Decimal, ok bool) {
	if c.FansPercentage == 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(c.Amount).Mul(hundred).Div(decimal.NewFromInt(c.FansPercentage)), true
}

// Started reports whether the campaign has started strictly before now.
func (c Campaign) Started(now time.Time) bool {
	return c.StartAt == nil || c.StartAt.Before(now)
}

// Ended reports whether the end of the campaign is strictly before now.
func (c Campaign) Ended(now time.Time) bool {
	return c.EndAt != nil && c.EndAt.Before(now)
}

// Ledger is a campaign together with shares sold in it.
type Ledger struct {
	Campaign

	// sum of shares of investments whose charge is paid and not refunded.
	SharesSold int64 `json:"shares_sold"`
}

func (l Ledger) SharesRemaining() decimal.Decimal {
	return l.NumShares().Sub(decimal.NewFromInt(l.SharesSold))
}

// AmountRaised returns dollars raised.
func (l Ledger) AmountRaised() int64 {
	return l.SharesSold * l.ValuePerShare
}

// PercentageFunded returns progress of the campaign as a rounded percentage.
//
// A campaign raising nothing is 100% funded.
func (l Ledger) PercentageFunded() int64 {
	if l.Amount == 0 {
		return 100
	}
	p := decimal.NewFromInt(l.AmountRaised()).
		Div(decimal.NewFromInt(l.Amount)).
		Mul(hundred)
	return FundedRound(p)
}

// IsOpen reports whether the campaign accepts investments at now.
func (l Ledger) IsOpen(now time.Time) bool {
	if !l.Started(now) {
		return false
	}
	if l.EndAt != nil && !now.Before(*l.EndAt) {
		return false
	}
	return l.AmountRaised() < l.Amount
}

// DefaultPurchase returns the number of shares suggested to a buyer,
// the fewest shares worth minPurchase dollars, capped by shares remaining.
func (l Ledger) DefaultPurchase(minPurchase decimal.Decimal) int64 {
	atLeast := minPurchase.Div(decimal.NewFromInt(l.ValuePerShare)).Ceil().IntPart()
	remaining := l.SharesRemaining().Floor().IntPart()
	if remaining < atLeast {
		return remaining
	}
	return atLeast
}

// Admit checks that numShares shares can be sold at now.
func (l Ledger) Admit(numShares int64, now time.Time) error {
	if numShares < 1 {
		return domerr.ErrInvalidShares
	}
	if !l.IsOpen(now) {
		return domerr.ErrCampaignClosed
	}
	if l.SharesRemaining().LessThan(decimal.NewFromInt(numShares)) {
		return fmt.Errorf(
			"%w: requested %d, remaining %s",
			domerr.ErrSharesExceedAvailable, numShares, l.SharesRemaining(),
		)
	}
	return nil
}
