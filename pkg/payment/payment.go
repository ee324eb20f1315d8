// Package payment is the contract with the payment gateway.
package payment

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/shopspring/decimal"
)

// Card is a payment source registered to a customer.
type Card struct {
	Id string

	// identifies the card number; the same card tokenized twice has the same fingerprint.
	Fingerprint string
	ExpMonth    int
	ExpYear     int
}

// Token is a one-time tokenized card.
type Token struct {
	Id   string
	Card Card
}

type Customer struct {
	Id string

	// Default is the id of the default source.
	Default string
	Cards   []Card
}

type Gateway interface {
	// Customer returns the customer of the user. false when the user has none.
	Customer(ctx context.Context, user domain.Identity) (Customer, bool, error)

	// CreateCustomer registers the user with the card in token as default source.
	CreateCustomer(ctx context.Context, user domain.Identity, token string) (Customer, error)

	RetrieveToken(ctx context.Context, token string) (Token, error)

	CreateCard(ctx context.Context, customerId string, token string) (Card, error)

	// UpdateCard updates expiration of a source.
	//
	// ErrSourceRejected is returned when the gateway does not accept the source any more.
	UpdateCard(ctx context.Context, customerId string, sourceId string, expMonth int, expYear int) (Card, error)

	// CreateCharge charges amount dollars to the source of the customer.
	CreateCharge(ctx context.Context, amount decimal.Decimal, customerId string, sourceId string, description string) (domain.Charge, error)

	Refund(ctx context.Context, chargeId string) error
}

var ErrSourceRejected = errors.New("payment source is rejected")

// CardError is a failure of payment with a message which can be shown to the user.
type CardError struct {
	Message string
	Cause   error
}

func (e *CardError) Error() string {
	return "card error: " + e.Message
}

func (e *CardError) Unwrap() error {
	return e.Cause
}

// Unavailable is a gateway failing everything with ErrUpstreamUnavailable,
// for deployments without payment.
func Unavailable() Gateway {
	return unavailable{}
}

type unavailable struct{}

var errUnavailable = errors.Join(domerr.ErrUpstreamUnavailable, errors.New("payment gateway is not configured"))

func (unavailable) Customer(context.Context, domain.Identity) (Customer, bool, error) {
	return Customer{}, false, errUnavailable
}
func (unavailable) CreateCustomer(context.Context, domain.Identity, string) (Customer, error) {
	return Customer{}, errUnavailable
}
func (unavailable) RetrieveToken(context.Context, string) (Token, error) {
	return Token{}, errUnavailable
}
func (unavailable) CreateCard(context.Context, string, string) (Card, error) {
	return Card{}, errUnavailable
}
func (unavailable) UpdateCard(context.Context, string, string, int, int) (Card, error) {
	return Card{}, errUnavailable
}
func (unavailable) CreateCharge(context.Context, decimal.Decimal, string, string, string) (domain.Charge, error) {
	return domain.Charge{}, errUnavailable
}
func (unavailable) Refund(context.Context, string) error {
	return errUnavailable
}
