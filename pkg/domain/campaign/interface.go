package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/campaign/db"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/payment"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = tracing.Tracer("pkg/domain/campaign")

type Interface interface {
	Database() db.CampaignInterface

	// RecordInvestment persists an investment paid by charge, then publishes InvestmentRecorded.
	RecordInvestment(ctx context.Context, campaignId int64, numShares int64, charge domain.Charge) (domain.Investment, error)

	// Checkout charges investor for numShares shares of the campaign with the card token,
	// and records the investment.
	//
	// When the charge succeeds but the investment can not be recorded
	// (the campaign is sold out meanwhile, or the database fails), the charge is refunded
	// and the error of recording is returned.
	//
	// A *payment.CardError is returned as it is.
	Checkout(ctx context.Context, investor domain.Identity, campaignId int64, numShares int64, cardToken string) (domain.Investment, error)

	// Refund refunds the charge on the gateway and marks it refunded,
	// then publishes InvestmentRefunded.
	//
	// Returns ErrMissing when the charge is not recorded.
	Refund(ctx context.Context, chargeId string) error
}

type impl struct {
	db      db.CampaignInterface
	gateway payment.Gateway
	bus     events.Bus
	fees    domain.FeeSchedule
	clock   func() time.Time
}

type Option func(*impl)

// WithClock replaces the clock used for admission pre-checks of Checkout.
func WithClock(clock func() time.Time) Option {
	return func(i *impl) {
		i.clock = clock
	}
}

func New(
	database db.CampaignInterface,
	gateway payment.Gateway,
	bus events.Bus,
	fees domain.FeeSchedule,
	options ...Option,
) Interface {
	i := &impl{
		db:      database,
		gateway: gateway,
		bus:     bus,
		fees:    fees,
		clock:   time.Now,
	}
	for _, o := range options {
		o(i)
	}
	return i
}

func (i *impl) Database() db.CampaignInterface {
	return i.db
}

func (i *impl) RecordInvestment(ctx context.Context, campaignId int64, numShares int64, charge domain.Charge) (domain.Investment, error) {
	ctx, span := tracer.Start(ctx, "campaign.RecordInvestment")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("campaign.id", campaignId),
		attribute.Int64("investment.num_shares", numShares),
	)

	l, err := i.db.Ledger(ctx, campaignId)
	if err != nil {
		return domain.Investment{}, err
	}
	return i.record(ctx, l.Campaign, numShares, charge)
}

func (i *impl) record(ctx context.Context, c domain.Campaign, numShares int64, charge domain.Charge) (domain.Investment, error) {
	inv, err := i.db.RecordInvestment(ctx, c.Id, numShares, charge)
	if err != nil {
		return domain.Investment{}, err
	}
	i.bus.Publish(ctx, domain.InvestmentRecorded{
		Investor:   inv.Investor,
		Campaign:   c,
		Investment: inv,
	})
	return inv, nil
}

func (i *impl) Checkout(ctx context.Context, investor domain.Identity, campaignId int64, numShares int64, cardToken string) (domain.Investment, error) {
	ctx, span := tracer.Start(ctx, "campaign.Checkout")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("campaign.id", campaignId),
		attribute.Int64("investment.num_shares", numShares),
		attribute.Int64("user.id", investor.UserId),
	)

	l, err := i.db.Ledger(ctx, campaignId)
	if err != nil {
		return domain.Investment{}, err
	}
	if err := l.Admit(numShares, i.clock()); err != nil {
		return domain.Investment{}, err
	}

	customerId, sourceId, err := i.source(ctx, investor, cardToken)
	if err != nil {
		return domain.Investment{}, err
	}

	amount := i.fees.BuyerTotal(numShares, l.ValuePerShare)
	charge, err := i.gateway.CreateCharge(
		ctx, amount, customerId, sourceId,
		fmt.Sprintf("%d shares of campaign #%d", numShares, campaignId),
	)
	if err != nil {
		return domain.Investment{}, err
	}
	charge.UserId = investor.UserId

	inv, err := i.record(ctx, l.Campaign, numShares, charge)
	if err == nil {
		return inv, nil
	}

	// the money is taken while nothing is recorded. give it back even if ctx is gone.
	if rerr := i.gateway.Refund(context.WithoutCancel(ctx), charge.Id); rerr != nil {
		return domain.Investment{}, errors.Join(
			err, fmt.Errorf("charge %s is not refunded: %w", charge.Id, rerr),
		)
	}
	return domain.Investment{}, err
}

// source returns the customer of investor and the card to be charged.
//
// A card already on file (same fingerprint) is updated rather than added.
func (i *impl) source(ctx context.Context, investor domain.Identity, cardToken string) (customerId string, sourceId string, err error) {
	customer, found, err := i.gateway.Customer(ctx, investor)
	if err != nil {
		return "", "", err
	}
	if !found {
		customer, err := i.gateway.CreateCustomer(ctx, investor, cardToken)
		if err != nil {
			return "", "", err
		}
		return customer.Id, customer.Default, nil
	}

	token, err := i.gateway.RetrieveToken(ctx, cardToken)
	if err != nil {
		return "", "", err
	}

	for _, card := range customer.Cards {
		if card.Fingerprint != token.Card.Fingerprint {
			continue
		}
		updated, err := i.gateway.UpdateCard(ctx, customer.Id, card.Id, token.Card.ExpMonth, token.Card.ExpYear)
		if err == nil {
			return customer.Id, updated.Id, nil
		}
		if !errors.Is(err, payment.ErrSourceRejected) {
			return "", "", err
		}
		break
	}

	card, err := i.gateway.CreateCard(ctx, customer.Id, cardToken)
	if err != nil {
		return "", "", err
	}
	return customer.Id, card.Id, nil
}

func (i *impl) Refund(ctx context.Context, chargeId string) error {
	ctx, span := tracer.Start(ctx, "campaign.Refund")
	defer span.End()
	span.SetAttributes(attribute.String("charge.id", chargeId))

	if err := i.gateway.Refund(ctx, chargeId); err != nil {
		return err
	}
	investor, err := i.db.SetRefunded(ctx, chargeId)
	if err != nil {
		return err
	}
	i.bus.Publish(ctx, domain.InvestmentRefunded{Investor: investor, ChargeId: chargeId})
	return nil
}
