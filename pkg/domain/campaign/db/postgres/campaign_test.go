package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	testutilctx "github.com/investperdiem/perdiem/internal/testutils/context"
	"github.com/investperdiem/perdiem/pkg/conn/db/postgres/pool/testenv"
	"github.com/investperdiem/perdiem/pkg/conn/db/postgres/tables"
	"github.com/investperdiem/perdiem/pkg/domain"
	kpgcampaign "github.com/investperdiem/perdiem/pkg/domain/campaign/db/postgres"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/utils/try"
	"github.com/shopspring/decimal"
)

var (
	longAgo  = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	farAhead = time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
)

func premise(sold int64) tables.Operation {
	op := tables.Operation{
		UserAccounts: []tables.UserAccount{
			{Id: 1, Username: "alice", FullName: "Alice A."},
			{Id: 2, Username: "bob"},
			{Id: 3, Username: "carol"},
		},
		UserProfiles: []tables.UserProfile{
			{Id: 11, UserId: 1},
			{Id: 12, UserId: 2, InvestAnonymously: true},
			{Id: 13, UserId: 3},
		},
		Artists:  []tables.Artist{{Id: 1, Name: "Band", Slug: "band", Lat: "40.7128", Lon: "-74.0060"}},
		Projects: []tables.Project{{Id: 1, ArtistId: 1, Reason: "album"}},
		Campaigns: []tables.Campaign{
			{
				Id: 1, ProjectId: 1, Amount: 1000, ValuePerShare: 1,
				StartAt: &longAgo, EndAt: &farAhead, FansPercentage: 20,
			},
			{
				Id: 2, ProjectId: 1, Amount: 100, ValuePerShare: 1,
				StartAt: &longAgo, EndAt: &longAgo, FansPercentage: 10,
			},
		},
		Expenses: []tables.Expense{{Id: 1, CampaignId: 1, Description: "studio"}},
	}
	if 0 < sold {
		op.Charges = append(op.Charges, tables.Charge{Id: "ch_seed", UserId: 1, Amount: "1", Paid: true})
		op.Investments = append(op.Investments, tables.Investment{
			Id: 1, ChargeId: "ch_seed", CampaignId: 1, NumShares: sold, TransactionAt: longAgo,
		})
	}
	return op
}

func TestCampaign_Get(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)

	prem := premise(10)
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}

	testee := kpgcampaign.New(pool)

	t.Run("it returns a campaign with expenses and investments", func(t *testing.T) {
		actual := try.To(testee.Get(ctx, 1)).OrFatal(t)
		if actual.Id != 1 || actual.Amount != 1000 || actual.FansPercentage != 20 {
			t.Errorf("unexpected campaign: %+v", actual.Campaign)
		}
		if len(actual.Expenses) != 1 || actual.Expenses[0].Description != "studio" {
			t.Errorf("unexpected expenses: %+v", actual.Expenses)
		}
		if len(actual.Investments) != 1 {
			t.Fatalf("unexpected investments: %+v", actual.Investments)
		}
		inv := actual.Investments[0]
		if inv.NumShares != 10 || inv.Investor.Username != "alice" || !inv.Counts() {
			t.Errorf("unexpected investment: %+v", inv)
		}
	})

	t.Run("it returns a ledger", func(t *testing.T) {
		actual := try.To(testee.Ledger(ctx, 1)).OrFatal(t)
		if actual.SharesSold != 10 {
			t.Errorf("shares sold: (actual, expected) = (%d, %d)", actual.SharesSold, 10)
		}
	})

	t.Run("it returns ErrMissing for unknown campaign", func(t *testing.T) {
		_, err := testee.Get(ctx, 999)
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCampaign_Create(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)

	t.Run("it creates a campaign with expenses", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		prem := premise(0)
		if err := prem.Apply(ctx, pool); err != nil {
			t.Fatal(err)
		}
		testee := kpgcampaign.New(pool)

		actual := try.To(testee.Create(ctx, domain.Campaign{
			ProjectId: 1, Amount: 500, ValuePerShare: 5, StartAt: &longAgo, FansPercentage: 30,
			Expenses: []domain.Expense{{Description: "mixing"}, {Description: "mastering"}},
		})).OrFatal(t)

		if actual.Id == 0 || actual.ValuePerShare != 5 || actual.EndAt != nil {
			t.Errorf("unexpected campaign: %+v", actual)
		}
		if len(actual.Expenses) != 2 {
			t.Errorf("unexpected expenses: %+v", actual.Expenses)
		}
	})

	t.Run("indivisible amount is rejected", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		prem := premise(0)
		if err := prem.Apply(ctx, pool); err != nil {
			t.Fatal(err)
		}
		testee := kpgcampaign.New(pool)

		_, err := testee.Create(ctx, domain.Campaign{
			ProjectId: 1, Amount: 501, ValuePerShare: 5, FansPercentage: 30,
		})
		if !errors.Is(err, domerr.ErrIndivisibleAmount) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown project is missing", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		testee := kpgcampaign.New(pool)

		_, err := testee.Create(ctx, domain.Campaign{
			ProjectId: 99, Amount: 100, ValuePerShare: 1, FansPercentage: 30,
		})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCampaign_RecordInvestment(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)

	charge := func(id string, userId int64) domain.Charge {
		return domain.Charge{Id: id, UserId: userId, Amount: decimal.RequireFromString("5.95"), Paid: true}
	}

	t.Run("it records an investment", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		prem := premise(0)
		if err := prem.Apply(ctx, pool); err != nil {
			t.Fatal(err)
		}
		testee := kpgcampaign.New(pool)

		before := time.Now()
		actual := try.To(testee.RecordInvestment(ctx, 1, 5, charge("ch_1", 1))).OrFatal(t)
		if actual.CampaignId != 1 || actual.NumShares != 5 || actual.Charge.Id != "ch_1" {
			t.Errorf("unexpected investment: %+v", actual)
		}
		if !actual.Charge.Amount.Equal(decimal.RequireFromString("5.95")) {
			t.Errorf("charge amount: %s", actual.Charge.Amount)
		}
		if actual.Investor.UserId != 1 || actual.Investor.ProfileId != 11 {
			t.Errorf("unexpected investor: %+v", actual.Investor)
		}
		if actual.TransactionAt.Before(before.Add(-time.Minute)) {
			t.Errorf("transaction at: %s", actual.TransactionAt)
		}

		l := try.To(testee.Ledger(ctx, 1)).OrFatal(t)
		if l.SharesSold != 5 {
			t.Errorf("shares sold: (actual, expected) = (%d, %d)", l.SharesSold, 5)
		}
	})

	type when struct {
		sold       int64
		campaignId int64
		numShares  int64
	}

	theory := func(when when, expected error) func(*testing.T) {
		return func(t *testing.T) {
			pool := poolBroaker.GetPool(ctx, t)
			prem := premise(when.sold)
			if err := prem.Apply(ctx, pool); err != nil {
				t.Fatal(err)
			}
			testee := kpgcampaign.New(pool)

			_, err := testee.RecordInvestment(ctx, when.campaignId, when.numShares, charge("ch_1", 2))
			if !errors.Is(err, expected) {
				t.Errorf("error: (actual, expected) = (%v, %v)", err, expected)
			}

			var charges int
			if err := pool.QueryRow(ctx, `select count(*) from "charge" where "id" = 'ch_1'`).Scan(&charges); err != nil {
				t.Fatal(err)
			}
			if charges != 0 {
				t.Errorf("charge is persisted on failure")
			}
		}
	}

	t.Run("zero shares are invalid", theory(
		when{campaignId: 1, numShares: 0}, domerr.ErrInvalidShares,
	))
	t.Run("ended campaign is closed", theory(
		when{campaignId: 2, numShares: 1}, domerr.ErrCampaignClosed,
	))
	t.Run("fully funded campaign is closed", theory(
		when{sold: 1000, campaignId: 1, numShares: 1}, domerr.ErrCampaignClosed,
	))
	t.Run("shares more than remaining are rejected", theory(
		when{sold: 995, campaignId: 1, numShares: 6}, domerr.ErrSharesExceedAvailable,
	))
	t.Run("unknown campaign is missing", theory(
		when{campaignId: 99, numShares: 1}, domerr.ErrMissing,
	))

	t.Run("concurrent investments never oversell a campaign", func(t *testing.T) {
		ctx := testutilctx.WithTest(ctx, t)
		pool := poolBroaker.GetPool(ctx, t)
		prem := premise(995)
		if err := prem.Apply(ctx, pool); err != nil {
			t.Fatal(err)
		}
		testee := kpgcampaign.New(pool)

		requests := []struct {
			charge domain.Charge
			shares int64
		}{
			{charge: charge("ch_a", 2), shares: 4},
			{charge: charge("ch_b", 3), shares: 3},
		}
		errs := make([]error, len(requests))
		wg := new(sync.WaitGroup)
		for nth, req := range requests {
			nth, req := nth, req
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[nth] = testee.RecordInvestment(ctx, 1, req.shares, req.charge)
			}()
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded += 1
			case errors.Is(err, domerr.ErrSharesExceedAvailable):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 {
			t.Errorf("succeeded: (actual, expected) = (%d, %d)", succeeded, 1)
		}

		l := try.To(testee.Ledger(ctx, 1)).OrFatal(t)
		if l.SharesSold != 998 && l.SharesSold != 999 {
			t.Errorf("shares sold: %d", l.SharesSold)
		}
		if l.SharesRemaining().IsNegative() {
			t.Errorf("oversold: remaining %s", l.SharesRemaining())
		}
	})

	t.Run("the same charge can not be recorded twice", func(t *testing.T) {
		pool := poolBroaker.GetPool(ctx, t)
		prem := premise(0)
		if err := prem.Apply(ctx, pool); err != nil {
			t.Fatal(err)
		}
		testee := kpgcampaign.New(pool)

		try.To(testee.RecordInvestment(ctx, 1, 1, charge("ch_1", 1))).OrFatal(t)
		_, err := testee.RecordInvestment(ctx, 1, 1, charge("ch_1", 1))
		if !errors.Is(err, domerr.ErrConflict) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestCampaign_SetRefunded(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pool := poolBroaker.GetPool(ctx, t)

	prem := premise(10)
	if err := prem.Apply(ctx, pool); err != nil {
		t.Fatal(err)
	}
	testee := kpgcampaign.New(pool)

	refunded := try.To(testee.SetRefunded(ctx, "ch_seed")).OrFatal(t)
	if refunded.UserId != 1 || refunded.ProfileId != 11 || refunded.Username != "alice" {
		t.Errorf("investor: %+v", refunded)
	}
	l := try.To(testee.Ledger(ctx, 1)).OrFatal(t)
	if l.SharesSold != 0 {
		t.Errorf("refunded shares are counted: %d", l.SharesSold)
	}

	if _, err := testee.SetRefunded(ctx, "ch_unknown"); !errors.Is(err, domerr.ErrMissing) {
		t.Errorf("unexpected error: %v", err)
	}
}
