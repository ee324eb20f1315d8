package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/payment"
	"github.com/shopspring/decimal"
)

type ChargeArgs struct {
	Amount      decimal.Decimal
	CustomerId  string
	SourceId    string
	Description string
}

type UpdateCardArgs struct {
	CustomerId string
	SourceId   string
	ExpMonth   int
	ExpYear    int
}

type Gateway struct {
	Impl struct {
		Customer       func(ctx context.Context, user domain.Identity) (payment.Customer, bool, error)
		CreateCustomer func(ctx context.Context, user domain.Identity, token string) (payment.Customer, error)
		RetrieveToken  func(ctx context.Context, token string) (payment.Token, error)
		CreateCard     func(ctx context.Context, customerId string, token string) (payment.Card, error)
		UpdateCard     func(ctx context.Context, customerId string, sourceId string, expMonth int, expYear int) (payment.Card, error)
		CreateCharge   func(ctx context.Context, amount decimal.Decimal, customerId string, sourceId string, description string) (domain.Charge, error)
		Refund         func(ctx context.Context, chargeId string) error
	}
	Calls struct {
		CreateCustomer []string
		CreateCard     []string
		UpdateCard     []UpdateCardArgs
		CreateCharge   []ChargeArgs
		Refund         []string
	}
}

var _ payment.Gateway = &Gateway{}

func New() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Customer(ctx context.Context, user domain.Identity) (payment.Customer, bool, error) {
	if g.Impl.Customer != nil {
		return g.Impl.Customer(ctx, user)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) CreateCustomer(ctx context.Context, user domain.Identity, token string) (payment.Customer, error) {
	g.Calls.CreateCustomer = append(g.Calls.CreateCustomer, token)
	if g.Impl.CreateCustomer != nil {
		return g.Impl.CreateCustomer(ctx, user, token)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) RetrieveToken(ctx context.Context, token string) (payment.Token, error) {
	if g.Impl.RetrieveToken != nil {
		return g.Impl.RetrieveToken(ctx, token)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) CreateCard(ctx context.Context, customerId string, token string) (payment.Card, error) {
	g.Calls.CreateCard = append(g.Calls.CreateCard, token)
	if g.Impl.CreateCard != nil {
		return g.Impl.CreateCard(ctx, customerId, token)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) UpdateCard(ctx context.Context, customerId string, sourceId string, expMonth int, expYear int) (payment.Card, error) {
	g.Calls.UpdateCard = append(g.Calls.UpdateCard, UpdateCardArgs{
		CustomerId: customerId, SourceId: sourceId, ExpMonth: expMonth, ExpYear: expYear,
	})
	if g.Impl.UpdateCard != nil {
		return g.Impl.UpdateCard(ctx, customerId, sourceId, expMonth, expYear)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) CreateCharge(ctx context.Context, amount decimal.Decimal, customerId string, sourceId string, description string) (domain.Charge, error) {
	g.Calls.CreateCharge = append(g.Calls.CreateCharge, ChargeArgs{
		Amount: amount, CustomerId: customerId, SourceId: sourceId, Description: description,
	})
	if g.Impl.CreateCharge != nil {
		return g.Impl.CreateCharge(ctx, amount, customerId, sourceId, description)
	}
	panic(errors.New("it should not be called"))
}

func (g *Gateway) Refund(ctx context.Context, chargeId string) error {
	g.Calls.Refund = append(g.Calls.Refund, chargeId)
	if g.Impl.Refund != nil {
		return g.Impl.Refund(ctx, chargeId)
	}
	panic(errors.New("it should not be called"))
}
