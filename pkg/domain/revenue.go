package domain

import (
	"time"

	"github.com/shopspring/decimal"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

// MaxRevenueAmount bounds a single revenue report, exclusively. Reports are stored as numeric(9, 2).
var MaxRevenueAmount = decimal.New(1, 7)

type RevenueReport struct {
	Id        int64 `json:"id"`
	ProjectId int64 `json:"project_id"`

	// dollars, 2 decimal places.
	Amount     decimal.Decimal `json:"amount"`
	ReportedAt time.Time       `json:"reported_at"`
}

// ValidateRevenueAmount accepts positive amounts below MaxRevenueAmount, after rounding to cents.
func ValidateRevenueAmount(amount decimal.Decimal) error {
	amount = amount.Round(2)
	if !amount.IsPositive() || !amount.LessThan(MaxRevenueAmount) {
		return domerr.ErrInvalidAmount
	}
	return nil
}

// RevenueAfter sums reports made strictly after t.
func RevenueAfter(reports []RevenueReport, t time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range reports {
		if r.ReportedAt.After(t) {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}

// TotalRevenue sums all reports.
func TotalRevenue(reports []RevenueReport) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range reports {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// Earnings returns dollars an investment has earned from the reports of its project.
//
// Only reports made after the investment pay it. The investment receives its
// fraction of shares of the campaign, of the fans percentage, of that revenue.
func Earnings(i Investment, c Campaign, reports []RevenueReport) decimal.Decimal {
	if !i.Counts() {
		return decimal.Zero
	}
	ns := c.NumShares()
	if ns.IsZero() {
		return decimal.Zero
	}
	r := RevenueAfter(reports, i.TransactionAt)
	return r.
		Mul(decimal.NewFromInt(i.NumShares)).
		Mul(decimal.NewFromInt(c.FansPercentage)).
		Div(ns.Mul(hundred))
}
