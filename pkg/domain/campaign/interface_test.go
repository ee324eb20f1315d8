package campaign_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/campaign"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/campaign/db/mock"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/payment"
	paymock "github.com/investperdiem/perdiem/pkg/payment/mock"
	"github.com/shopspring/decimal"
)

func recordingBus(t *testing.T) (events.Bus, *[]domain.Event) {
	t.Helper()
	published := []domain.Event{}
	bus := events.New(log.New(io.Discard, "", 0))
	bus.Subscribe("recorder", func(_ context.Context, ev domain.Event) error {
		published = append(published, ev)
		return nil
	})
	return bus, &published
}

var (
	started = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

func openLedger(sold int64) domain.Ledger {
	return domain.Ledger{
		Campaign: domain.Campaign{
			Id: 3, ProjectId: 2, Amount: 1000, ValuePerShare: 1,
			StartAt: &started, FansPercentage: 20,
		},
		SharesSold: sold,
	}
}

var investor = domain.Identity{UserId: 7, ProfileId: 8, Username: "fan"}

func TestRecordInvestment(t *testing.T) {
	t.Run("it records an investment and publishes it", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewCampaignInterface()
		mdb.Impl.Ledger = func(context.Context, int64) (domain.Ledger, error) {
			return openLedger(0), nil
		}
		charge := domain.Charge{Id: "ch_1", UserId: 7, Amount: decimal.RequireFromString("11.59"), Paid: true}
		recorded := domain.Investment{
			Id: 1, CampaignId: 3, Charge: charge, NumShares: 10, TransactionAt: now, Investor: investor,
		}
		mdb.Impl.RecordInvestment = func(context.Context, int64, int64, domain.Charge) (domain.Investment, error) {
			return recorded, nil
		}
		bus, published := recordingBus(t)

		testee := campaign.New(mdb, paymock.New(), bus, domain.DefaultFeeSchedule())
		actual, err := testee.RecordInvestment(ctx, 3, 10, charge)
		if err != nil {
			t.Fatal(err)
		}
		if actual.Id != recorded.Id {
			t.Errorf("investment: (actual, expected) = (%d, %d)", actual.Id, recorded.Id)
		}

		if len(*published) != 1 {
			t.Fatalf("published events: %d", len(*published))
		}
		ev, ok := (*published)[0].(domain.InvestmentRecorded)
		if !ok {
			t.Fatalf("unexpected event: %#v", (*published)[0])
		}
		if ev.Investor.UserId != 7 || ev.Campaign.Id != 3 || ev.Investment.Id != 1 {
			t.Errorf("unexpected event: %+v", ev)
		}

		if len(mdb.Calls.RecordInvestment) != 1 {
			t.Fatalf("RecordInvestment is called %d times", mdb.Calls.RecordInvestment.Times())
		}
		if args := mdb.Calls.RecordInvestment[0]; args.CampaignId != 3 || args.NumShares != 10 || args.Charge.Id != "ch_1" {
			t.Errorf("unexpected args: %+v", args)
		}
	})

	t.Run("it publishes nothing when admission fails", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewCampaignInterface()
		mdb.Impl.Ledger = func(context.Context, int64) (domain.Ledger, error) {
			return openLedger(1000), nil
		}
		mdb.Impl.RecordInvestment = func(context.Context, int64, int64, domain.Charge) (domain.Investment, error) {
			return domain.Investment{}, domerr.ErrCampaignClosed
		}
		bus, published := recordingBus(t)

		testee := campaign.New(mdb, paymock.New(), bus, domain.DefaultFeeSchedule())
		_, err := testee.RecordInvestment(ctx, 3, 1, domain.Charge{Id: "ch_1", Paid: true})
		if !errors.Is(err, domerr.ErrCampaignClosed) {
			t.Errorf("unexpected error: %v", err)
		}
		if len(*published) != 0 {
			t.Errorf("published events: %+v", *published)
		}
	})

	t.Run("it returns ErrMissing for unknown campaign", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewCampaignInterface()
		mdb.Impl.Ledger = func(context.Context, int64) (domain.Ledger, error) {
			return domain.Ledger{}, domerr.ErrMissing
		}
		bus, _ := recordingBus(t)

		testee := campaign.New(mdb, paymock.New(), bus, domain.DefaultFeeSchedule())
		_, err := testee.RecordInvestment(ctx, 3, 1, domain.Charge{Id: "ch_1", Paid: true})
		if !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("unexpected error: %v", err)
		}
		if mdb.Calls.RecordInvestment.Times() != 0 {
			t.Errorf("RecordInvestment is called")
		}
	})
}

func TestCheckout(t *testing.T) {
	type when struct {
		ledger   domain.Ledger
		shares   int64
		customer *payment.Customer
		token    payment.Token

		updateCardErr error
		chargeErr     error
		recordErr     error
	}
	type then struct {
		err       error
		cardError bool

		createCustomer bool
		updateCard     bool
		createCard     bool
		charged        bool
		refunded       bool
		published      bool
	}

	card := payment.Card{Id: "card_1", Fingerprint: "fp-1", ExpMonth: 1, ExpYear: 2025}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			ctx := context.Background()

			mdb := dbmock.NewCampaignInterface()
			mdb.Impl.Ledger = func(context.Context, int64) (domain.Ledger, error) {
				return when.ledger, nil
			}
			mdb.Impl.RecordInvestment = func(_ context.Context, campaignId int64, numShares int64, charge domain.Charge) (domain.Investment, error) {
				if when.recordErr != nil {
					return domain.Investment{}, when.recordErr
				}
				return domain.Investment{
					Id: 11, CampaignId: campaignId, NumShares: numShares,
					Charge: charge, TransactionAt: now, Investor: investor,
				}, nil
			}

			gw := paymock.New()
			gw.Impl.Customer = func(context.Context, domain.Identity) (payment.Customer, bool, error) {
				if when.customer == nil {
					return payment.Customer{}, false, nil
				}
				return *when.customer, true, nil
			}
			gw.Impl.CreateCustomer = func(context.Context, domain.Identity, string) (payment.Customer, error) {
				return payment.Customer{Id: "cus_new", Default: "card_new"}, nil
			}
			gw.Impl.RetrieveToken = func(context.Context, string) (payment.Token, error) {
				return when.token, nil
			}
			gw.Impl.UpdateCard = func(_ context.Context, _ string, sourceId string, expMonth int, expYear int) (payment.Card, error) {
				if when.updateCardErr != nil {
					return payment.Card{}, when.updateCardErr
				}
				return payment.Card{Id: sourceId, ExpMonth: expMonth, ExpYear: expYear}, nil
			}
			gw.Impl.CreateCard = func(context.Context, string, string) (payment.Card, error) {
				return payment.Card{Id: "card_added"}, nil
			}
			gw.Impl.CreateCharge = func(_ context.Context, amount decimal.Decimal, _ string, _ string, _ string) (domain.Charge, error) {
				if when.chargeErr != nil {
					return domain.Charge{}, when.chargeErr
				}
				return domain.Charge{Id: "ch_1", Amount: amount, Paid: true}, nil
			}
			gw.Impl.Refund = func(context.Context, string) error { return nil }

			bus, published := recordingBus(t)
			testee := campaign.New(
				mdb, gw, bus, domain.DefaultFeeSchedule(),
				campaign.WithClock(func() time.Time { return now }),
			)

			actual, err := testee.Checkout(ctx, investor, 3, when.shares, "tok_1")
			if then.cardError {
				var cerr *payment.CardError
				if !errors.As(err, &cerr) {
					t.Errorf("error: (actual, expected) = (%v, CardError)", err)
				}
			} else if then.err != nil {
				if !errors.Is(err, then.err) {
					t.Errorf("error: (actual, expected) = (%v, %v)", err, then.err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			} else if actual.Charge.UserId != investor.UserId {
				t.Errorf("charge user: (actual, expected) = (%d, %d)", actual.Charge.UserId, investor.UserId)
			}

			if (len(gw.Calls.CreateCustomer) != 0) != then.createCustomer {
				t.Errorf("CreateCustomer calls: %v", gw.Calls.CreateCustomer)
			}
			if (len(gw.Calls.UpdateCard) != 0) != then.updateCard {
				t.Errorf("UpdateCard calls: %v", gw.Calls.UpdateCard)
			}
			if (len(gw.Calls.CreateCard) != 0) != then.createCard {
				t.Errorf("CreateCard calls: %v", gw.Calls.CreateCard)
			}
			if (len(gw.Calls.CreateCharge) != 0) != then.charged {
				t.Errorf("CreateCharge calls: %v", gw.Calls.CreateCharge)
			}
			if (len(gw.Calls.Refund) != 0) != then.refunded {
				t.Errorf("Refund calls: %v", gw.Calls.Refund)
			}
			if (len(*published) != 0) != then.published {
				t.Errorf("published: %v", *published)
			}

			if then.charged {
				expected := domain.DefaultFeeSchedule().BuyerTotal(when.shares, when.ledger.ValuePerShare)
				if amount := gw.Calls.CreateCharge[0].Amount; !amount.Equal(expected) {
					t.Errorf("charged amount: (actual, expected) = (%s, %s)", amount, expected)
				}
			}
		}
	}

	t.Run("a new customer is created with the card", theory(
		when{ledger: openLedger(0), shares: 10},
		then{createCustomer: true, charged: true, published: true},
	))

	t.Run("a known card is updated", theory(
		when{
			ledger: openLedger(0), shares: 10,
			customer: &payment.Customer{Id: "cus_1", Default: "card_1", Cards: []payment.Card{card}},
			token:    payment.Token{Id: "tok_1", Card: payment.Card{Fingerprint: "fp-1", ExpMonth: 12, ExpYear: 2030}},
		},
		then{updateCard: true, charged: true, published: true},
	))

	t.Run("a rejected known card is added again", theory(
		when{
			ledger: openLedger(0), shares: 10,
			customer:      &payment.Customer{Id: "cus_1", Default: "card_1", Cards: []payment.Card{card}},
			token:         payment.Token{Id: "tok_1", Card: payment.Card{Fingerprint: "fp-1", ExpMonth: 12, ExpYear: 2030}},
			updateCardErr: payment.ErrSourceRejected,
		},
		then{updateCard: true, createCard: true, charged: true, published: true},
	))

	t.Run("a new card is added to the known customer", theory(
		when{
			ledger: openLedger(0), shares: 10,
			customer: &payment.Customer{Id: "cus_1", Default: "card_1", Cards: []payment.Card{card}},
			token:    payment.Token{Id: "tok_1", Card: payment.Card{Fingerprint: "fp-2", ExpMonth: 12, ExpYear: 2030}},
		},
		then{createCard: true, charged: true, published: true},
	))

	t.Run("closed campaign is rejected before charging", theory(
		when{ledger: openLedger(1000), shares: 1},
		then{err: domerr.ErrCampaignClosed},
	))

	t.Run("too many shares are rejected before charging", theory(
		when{ledger: openLedger(995), shares: 10},
		then{err: domerr.ErrSharesExceedAvailable},
	))

	t.Run("card error is returned as it is", theory(
		when{ledger: openLedger(0), shares: 10, chargeErr: &payment.CardError{Message: "declined"}},
		then{cardError: true, createCustomer: true, charged: true},
	))

	t.Run("charge is refunded when the campaign gets sold out meanwhile", theory(
		when{ledger: openLedger(995), shares: 5, recordErr: domerr.ErrSharesExceedAvailable},
		then{err: domerr.ErrSharesExceedAvailable, createCustomer: true, charged: true, refunded: true},
	))

	connReset := errors.New("connection reset")
	t.Run("charge is refunded when the database fails to record", theory(
		when{ledger: openLedger(0), shares: 5, recordErr: connReset},
		then{err: connReset, createCustomer: true, charged: true, refunded: true},
	))

	t.Run("charge is refunded when the user of the charge is missing", theory(
		when{ledger: openLedger(0), shares: 5, recordErr: domerr.ErrMissing},
		then{err: domerr.ErrMissing, createCustomer: true, charged: true, refunded: true},
	))
}

func TestCheckout_RefundFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connReset := errors.New("connection reset")
	refundErr := errors.New("gateway is down")

	mdb := dbmock.NewCampaignInterface()
	mdb.Impl.Ledger = func(context.Context, int64) (domain.Ledger, error) {
		return openLedger(0), nil
	}
	mdb.Impl.RecordInvestment = func(context.Context, int64, int64, domain.Charge) (domain.Investment, error) {
		cancel()
		return domain.Investment{}, connReset
	}

	gw := paymock.New()
	gw.Impl.Customer = func(context.Context, domain.Identity) (payment.Customer, bool, error) {
		return payment.Customer{}, false, nil
	}
	gw.Impl.CreateCustomer = func(context.Context, domain.Identity, string) (payment.Customer, error) {
		return payment.Customer{Id: "cus_new", Default: "card_new"}, nil
	}
	gw.Impl.CreateCharge = func(_ context.Context, amount decimal.Decimal, _ string, _ string, _ string) (domain.Charge, error) {
		return domain.Charge{Id: "ch_1", Amount: amount, Paid: true}, nil
	}
	refundCtxErr := error(nil)
	gw.Impl.Refund = func(ctx context.Context, _ string) error {
		refundCtxErr = ctx.Err()
		return refundErr
	}

	testee := campaign.New(
		mdb, gw, events.Null(), domain.DefaultFeeSchedule(),
		campaign.WithClock(func() time.Time { return now }),
	)
	_, err := testee.Checkout(ctx, investor, 3, 5, "tok_1")
	if !errors.Is(err, connReset) || !errors.Is(err, refundErr) {
		t.Errorf("error should tell both causes: %v", err)
	}
	if len(gw.Calls.Refund) != 1 || gw.Calls.Refund[0] != "ch_1" {
		t.Errorf("Refund calls: %v", gw.Calls.Refund)
	}
	if refundCtxErr != nil {
		t.Errorf("refund is tried with done context: %v", refundCtxErr)
	}
}

func TestRefund(t *testing.T) {
	t.Run("it refunds the charge and publishes it", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewCampaignInterface()
		mdb.Impl.SetRefunded = func(context.Context, string) (domain.Identity, error) {
			return investor, nil
		}
		gw := paymock.New()
		gw.Impl.Refund = func(context.Context, string) error { return nil }
		bus, published := recordingBus(t)

		testee := campaign.New(mdb, gw, bus, domain.DefaultFeeSchedule())
		if err := testee.Refund(ctx, "ch_1"); err != nil {
			t.Fatal(err)
		}
		if len(gw.Calls.Refund) != 1 || gw.Calls.Refund[0] != "ch_1" {
			t.Errorf("gateway refund: %v", gw.Calls.Refund)
		}
		if mdb.Calls.SetRefunded.Times() != 1 || mdb.Calls.SetRefunded[0] != "ch_1" {
			t.Errorf("SetRefunded: %v", mdb.Calls.SetRefunded)
		}

		if len(*published) != 1 {
			t.Fatalf("published events: %+v", *published)
		}
		ev, ok := (*published)[0].(domain.InvestmentRefunded)
		if !ok {
			t.Fatalf("unexpected event: %#v", (*published)[0])
		}
		if ev.ChargeId != "ch_1" || ev.Investor.ProfileId != investor.ProfileId {
			t.Errorf("event: (actual, expected) = (%+v, %+v)", ev, domain.InvestmentRefunded{Investor: investor, ChargeId: "ch_1"})
		}
	})

	t.Run("it publishes nothing when the gateway fails", func(t *testing.T) {
		ctx := context.Background()
		gwErr := errors.New("fake error")
		mdb := dbmock.NewCampaignInterface()
		gw := paymock.New()
		gw.Impl.Refund = func(context.Context, string) error { return gwErr }
		bus, published := recordingBus(t)

		testee := campaign.New(mdb, gw, bus, domain.DefaultFeeSchedule())
		if err := testee.Refund(ctx, "ch_1"); !errors.Is(err, gwErr) {
			t.Errorf("error: (actual, expected) = (%v, %v)", err, gwErr)
		}
		if mdb.Calls.SetRefunded.Times() != 0 {
			t.Errorf("SetRefunded is called: %v", mdb.Calls.SetRefunded)
		}
		if len(*published) != 0 {
			t.Errorf("published events: %+v", *published)
		}
	})

	t.Run("it returns ErrMissing for unknown charge", func(t *testing.T) {
		ctx := context.Background()
		mdb := dbmock.NewCampaignInterface()
		mdb.Impl.SetRefunded = func(context.Context, string) (domain.Identity, error) {
			return domain.Identity{}, domerr.ErrMissing
		}
		gw := paymock.New()
		gw.Impl.Refund = func(context.Context, string) error { return nil }
		bus, published := recordingBus(t)

		testee := campaign.New(mdb, gw, bus, domain.DefaultFeeSchedule())
		if err := testee.Refund(ctx, "ch_1"); !errors.Is(err, domerr.ErrMissing) {
			t.Errorf("error: (actual, expected) = (%v, %v)", err, domerr.ErrMissing)
		}
		if len(*published) != 0 {
			t.Errorf("published events: %+v", *published)
		}
	})
}
