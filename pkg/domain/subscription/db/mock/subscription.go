package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/internal/db/mock"
	kdb "github.com/investperdiem/perdiem/pkg/domain/subscription/db"
)

type SetSubscribedArgs struct {
	UserId     int64
	Kinds      []domain.SubscriptionKind
	Subscribed bool
}

type SubscriptionInterface struct {
	Impl struct {
		Subscriptions   func(ctx context.Context, userId int64) (domain.Subscriptions, error)
		SetSubscribed   func(ctx context.Context, userId int64, kinds []domain.SubscriptionKind, subscribed bool) ([]domain.SubscriptionKind, error)
		UserByEmail     func(ctx context.Context, email string) (int64, error)
		Recipient       func(ctx context.Context, userId int64) (domain.Recipient, error)
		ArtistInvestors func(ctx context.Context, artistId int64) ([]domain.Recipient, error)
		CurrentEmail    func(ctx context.Context, userId int64) (domain.VerifiedEmail, error)
		Verify          func(ctx context.Context, code string) (domain.VerifiedEmail, error)
	}
	Calls struct {
		Subscriptions   dbmock.CallLog[int64]
		SetSubscribed   dbmock.CallLog[SetSubscribedArgs]
		UserByEmail     dbmock.CallLog[string]
		Recipient       dbmock.CallLog[int64]
		ArtistInvestors dbmock.CallLog[int64]
		CurrentEmail    dbmock.CallLog[int64]
		Verify          dbmock.CallLog[string]
	}
}

var _ kdb.SubscriptionInterface = &SubscriptionInterface{}

func NewSubscriptionInterface() *SubscriptionInterface {
	return &SubscriptionInterface{}
}

func (m *SubscriptionInterface) Subscriptions(ctx context.Context, userId int64) (domain.Subscriptions, error) {
	m.Calls.Subscriptions = append(m.Calls.Subscriptions, userId)
	if m.Impl.Subscriptions != nil {
		return m.Impl.Subscriptions(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) SetSubscribed(ctx context.Context, userId int64, kinds []domain.SubscriptionKind, subscribed bool) ([]domain.SubscriptionKind, error) {
	m.Calls.SetSubscribed = append(m.Calls.SetSubscribed, SetSubscribedArgs{UserId: userId, Kinds: kinds, Subscribed: subscribed})
	if m.Impl.SetSubscribed != nil {
		return m.Impl.SetSubscribed(ctx, userId, kinds, subscribed)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) UserByEmail(ctx context.Context, email string) (int64, error) {
	m.Calls.UserByEmail = append(m.Calls.UserByEmail, email)
	if m.Impl.UserByEmail != nil {
		return m.Impl.UserByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) Recipient(ctx context.Context, userId int64) (domain.Recipient, error) {
	m.Calls.Recipient = append(m.Calls.Recipient, userId)
	if m.Impl.Recipient != nil {
		return m.Impl.Recipient(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) ArtistInvestors(ctx context.Context, artistId int64) ([]domain.Recipient, error) {
	m.Calls.ArtistInvestors = append(m.Calls.ArtistInvestors, artistId)
	if m.Impl.ArtistInvestors != nil {
		return m.Impl.ArtistInvestors(ctx, artistId)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) CurrentEmail(ctx context.Context, userId int64) (domain.VerifiedEmail, error) {
	m.Calls.CurrentEmail = append(m.Calls.CurrentEmail, userId)
	if m.Impl.CurrentEmail != nil {
		return m.Impl.CurrentEmail(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *SubscriptionInterface) Verify(ctx context.Context, code string) (domain.VerifiedEmail, error) {
	m.Calls.Verify = append(m.Calls.Verify, code)
	if m.Impl.Verify != nil {
		return m.Impl.Verify(ctx, code)
	}
	panic(errors.New("it should not be called"))
}
