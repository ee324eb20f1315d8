package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	kdb "github.com/investperdiem/perdiem/pkg/domain/campaign/db"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/internal/db/mock"
)

type RecordInvestmentArgs struct {
	CampaignId int64
	NumShares  int64
	Charge     domain.Charge
}

type CampaignInterface struct {
	Impl struct {
		Get              func(ctx context.Context, campaignId int64) (domain.CampaignState, error)
		Ledger           func(ctx context.Context, campaignId int64) (domain.Ledger, error)
		Create           func(ctx context.Context, c domain.Campaign) (domain.Campaign, error)
		RecordInvestment func(ctx context.Context, campaignId int64, numShares int64, charge domain.Charge) (domain.Investment, error)
		SetRefunded      func(ctx context.Context, chargeId string) (domain.Identity, error)
	}
	Calls struct {
		Get              dbmock.CallLog[int64]
		Ledger           dbmock.CallLog[int64]
		Create           dbmock.CallLog[domain.Campaign]
		RecordInvestment dbmock.CallLog[RecordInvestmentArgs]
		SetRefunded      dbmock.CallLog[string]
	}
}

var _ kdb.CampaignInterface = &CampaignInterface{}

func NewCampaignInterface() *CampaignInterface {
	return &CampaignInterface{}
}

func (m *CampaignInterface) Get(ctx context.Context, campaignId int64) (domain.CampaignState, error) {
	m.Calls.Get = append(m.Calls.Get, campaignId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, campaignId)
	}
	panic(errors.New("it should not be called"))
}

func (m *CampaignInterface) Ledger(ctx context.Context, campaignId int64) (domain.Ledger, error) {
	m.Calls.Ledger = append(m.Calls.Ledger, campaignId)
	if m.Impl.Ledger != nil {
		return m.Impl.Ledger(ctx, campaignId)
	}
	panic(errors.New("it should not be called"))
}

func (m *CampaignInterface) Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error) {
	m.Calls.Create = append(m.Calls.Create, c)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, c)
	}
	panic(errors.New("it should not be called"))
}

func (m *CampaignInterface) RecordInvestment(
	ctx context.Context, campaignId int64, numShares int64, charge domain.Charge,
) (domain.Investment, error) {
	m.Calls.RecordInvestment = append(m.Calls.RecordInvestment, RecordInvestmentArgs{
		CampaignId: campaignId, NumShares: numShares, Charge: charge,
	})
	if m.Impl.RecordInvestment != nil {
		return m.Impl.RecordInvestment(ctx, campaignId, numShares, charge)
	}
	panic(errors.New("it should not be called"))
}

func (m *CampaignInterface) SetRefunded(ctx context.Context, chargeId string) (domain.Identity, error) {
	m.Calls.SetRefunded = append(m.Calls.SetRefunded, chargeId)
	if m.Impl.SetRefunded != nil {
		return m.Impl.SetRefunded(ctx, chargeId)
	}
	panic(errors.New("it should not be called"))
}
