package mock

import (
	"context"
	"errors"

	"github.com/investperdiem/perdiem/pkg/domain"
	dbmock "github.com/investperdiem/perdiem/pkg/domain/internal/db/mock"
	kdb "github.com/investperdiem/perdiem/pkg/domain/project/db"
	"github.com/shopspring/decimal"
)

type ReportRevenueArgs struct {
	ProjectId int64
	Amount    decimal.Decimal
}

type UpsertBreakdownArgs struct {
	ProjectId int64
	Rows      []domain.Breakdown
}

type ProjectInterface struct {
	Impl struct {
		Get             func(ctx context.Context, projectId int64) (domain.ProjectState, error)
		ByArtist        func(ctx context.Context, artistId int64) ([]domain.ProjectState, error)
		Create          func(ctx context.Context, p domain.Project) (domain.Project, error)
		ReportRevenue   func(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, []int64, error)
		UpsertBreakdown func(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error)
	}
	Calls struct {
		Get             dbmock.CallLog[int64]
		ByArtist        dbmock.CallLog[int64]
		Create          dbmock.CallLog[domain.Project]
		ReportRevenue   dbmock.CallLog[ReportRevenueArgs]
		UpsertBreakdown dbmock.CallLog[UpsertBreakdownArgs]
	}
}

var _ kdb.ProjectInterface = &ProjectInterface{}

func NewProjectInterface() *ProjectInterface {
	return &ProjectInterface{}
}

func (m *ProjectInterface) Get(ctx context.Context, projectId int64) (domain.ProjectState, error) {
	m.Calls.Get = append(m.Calls.Get, projectId)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, projectId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) ByArtist(ctx context.Context, artistId int64) ([]domain.ProjectState, error) {
	m.Calls.ByArtist = append(m.Calls.ByArtist, artistId)
	if m.Impl.ByArtist != nil {
		return m.Impl.ByArtist(ctx, artistId)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	m.Calls.Create = append(m.Calls.Create, p)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, p)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) ReportRevenue(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, []int64, error) {
	m.Calls.ReportRevenue = append(m.Calls.ReportRevenue, ReportRevenueArgs{ProjectId: projectId, Amount: amount})
	if m.Impl.ReportRevenue != nil {
		return m.Impl.ReportRevenue(ctx, projectId, amount)
	}
	panic(errors.New("it should not be called"))
}

func (m *ProjectInterface) UpsertBreakdown(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error) {
	m.Calls.UpsertBreakdown = append(m.Calls.UpsertBreakdown, UpsertBreakdownArgs{ProjectId: projectId, Rows: rows})
	if m.Impl.UpsertBreakdown != nil {
		return m.Impl.UpsertBreakdown(ctx, projectId, rows)
	}
	panic(errors.New("it should not be called"))
}
