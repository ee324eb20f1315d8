package domain

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// FeeSchedule is the set of rates charged to buyers on top of the share price.
type FeeSchedule struct {
	// fraction of subtotal kept by the platform.
	PlatformRate decimal.Decimal

	// fraction of subtotal charged by the payment processor.
	ProcessorRate decimal.Decimal

	// dollars charged by the payment processor per charge.
	ProcessorFlat decimal.Decimal
}

// DefaultFeeSchedule returns platform 10%, processor 2.9% + $0.30.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		PlatformRate:  decimal.RequireFromString("0.10"),
		ProcessorRate: decimal.RequireFromString("0.029"),
		ProcessorFlat: decimal.RequireFromString("0.30"),
	}
}

// BuyerTotal returns dollars a buyer pays for numShares shares priced valuePerShare dollars each.
//
// Fees are added to the subtotal, then the total is rounded UP to a cent.
// Buying 0 shares costs the flat processor fee.
func (f FeeSchedule) BuyerTotal(numShares int64, valuePerShare int64) decimal.Decimal {
	subtotal := decimal.NewFromInt(numShares).Mul(decimal.NewFromInt(valuePerShare))
	raw := subtotal.
		Mul(one.Add(f.PlatformRate).Add(f.ProcessorRate)).
		Add(f.ProcessorFlat)
	return raw.Shift(2).Ceil().Shift(-2)
}

// SharePriceCents returns the price of a share in cents.
func SharePriceCents(c Campaign) int64 {
	return c.ValuePerShare * 100
}

// FundedRound rounds a funding percentage.
//
// Below 99 it rounds up, otherwise rounds down,
// so 100 is reported only when a campaign reaches its goal.
func FundedRound(percentage decimal.Decimal) int64 {
	if percentage.LessThan(decimal.NewFromInt(99)) {
		return percentage.Ceil().IntPart()
	}
	return percentage.Floor().IntPart()
}
