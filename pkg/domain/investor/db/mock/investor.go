package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/internal/db/mock"
	kdb "github.com/investperdiem/perdiem/pkg/domain/investor/db"
)

type RegisterArgs struct {
	Username string
	Email    string
	FullName string
}

type SetInvestAnonymouslyArgs struct {
	UserId    int64
	Anonymous bool
}

type SaveAvatarArgs struct {
	UserId int64
	Avatar domain.Avatar
}

type InvestorInterface struct {
	Impl struct {
		Identity             func(ctx context.Context, userId int64) (domain.Identity, error)
		IdentityByUsername   func(ctx context.Context, username string) (domain.Identity, error)
		Register             func(ctx context.Context, username string, email string, fullName string) (domain.Identity, error)
		SetInvestAnonymously func(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error)
		Holdings             func(ctx context.Context, userId int64) ([]domain.Holding, error)
		AllHoldings          func(ctx context.Context) ([]domain.InvestorHoldings, error)
		SaveAvatar           func(ctx context.Context, userId int64, avatar domain.Avatar) (bool, error)
	}
	Calls struct {
		Identity             dbmock.CallLog[int64]
		IdentityByUsername   dbmock.CallLog[string]
		Register             dbmock.CallLog[RegisterArgs]
		SetInvestAnonymously dbmock.CallLog[SetInvestAnonymouslyArgs]
		Holdings             dbmock.CallLog[int64]
		AllHoldings          dbmock.CallLog[struct{}]
		SaveAvatar           dbmock.CallLog[SaveAvatarArgs]
	}
}

var _ kdb.InvestorInterface = &InvestorInterface{}

func NewInvestorInterface() *InvestorInterface {
	return &InvestorInterface{}
}

func (m *InvestorInterface) Identity(ctx context.Context, userId int64) (domain.Identity, error) {
	m.Calls.Identity = append(m.Calls.Identity, userId)
	if m.Impl.Identity != nil {
		return m.Impl.Identity(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) IdentityByUsername(ctx context.Context, username string) (domain.Identity, error) {
	m.Calls.IdentityByUsername = append(m.Calls.IdentityByUsername, username)
	if m.Impl.IdentityByUsername != nil {
		return m.Impl.IdentityByUsername(ctx, username)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) Register(ctx context.Context, username string, email string, fullName string) (domain.Identity, error) {
	m.Calls.Register = append(m.Calls.Register, RegisterArgs{Username: username, Email: email, FullName: fullName})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, username, email, fullName)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) SetInvestAnonymously(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error) {
	m.Calls.SetInvestAnonymously = append(
		m.Calls.SetInvestAnonymously, SetInvestAnonymouslyArgs{UserId: userId, Anonymous: anonymous},
	)
	if m.Impl.SetInvestAnonymously != nil {
		return m.Impl.SetInvestAnonymously(ctx, userId, anonymous)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) Holdings(ctx context.Context, userId int64) ([]domain.Holding, error) {
	m.Calls.Holdings = append(m.Calls.Holdings, userId)
	if m.Impl.Holdings != nil {
		return m.Impl.Holdings(ctx, userId)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) AllHoldings(ctx context.Context) ([]domain.InvestorHoldings, error) {
	m.Calls.AllHoldings = append(m.Calls.AllHoldings, struct{}{})
	if m.Impl.AllHoldings != nil {
		return m.Impl.AllHoldings(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *InvestorInterface) SaveAvatar(ctx context.Context, userId int64, avatar domain.Avatar) (bool, error) {
	m.Calls.SaveAvatar = append(m.Calls.SaveAvatar, SaveAvatarArgs{UserId: userId, Avatar: avatar})
	if m.Impl.SaveAvatar != nil {
		return m.Impl.SaveAvatar(ctx, userId, avatar)
	}
	panic(errors.New("it should not be called"))
}
