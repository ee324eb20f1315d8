package project

import (
	"context"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/project/db"
	"github.com/investperdiem/perdiem/pkg/events"
	"github.com/investperdiem/perdiem/pkg/tracing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = tracing.Tracer("pkg/domain/project")

type Interface interface {
	Database() db.ProjectInterface

	// ReportRevenue records revenue of the project, then publishes RevenueReported.
	//
	// ErrInvalidAmount when amount rounded to cents is not in (0, MaxRevenueAmount).
	ReportRevenue(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, error)

	// UpsertBreakdown replaces the artist percentage breakdown of the project,
	// and returns the breakdown grouped by display name.
	UpsertBreakdown(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error)

	// Investors lists stakes of investors of the project, in descending order of total investment.
	Investors(ctx context.Context, projectId int64) ([]domain.InvestorStake, error)
}

type impl struct {
	db    db.ProjectInterface
	bus   events.Bus
	clock func() time.Time
}

type Option func(*impl)

func WithClock(clock func() time.Time) Option {
	return func(i *impl) {
		i.clock = clock
	}
}

func New(database db.ProjectInterface, bus events.Bus, options ...Option) Interface {
	i := &impl{db: database, bus: bus, clock: time.Now}
	for _, o := range options {
		o(i)
	}
	return i
}

func (i *impl) Database() db.ProjectInterface {
	return i.db
}

func (i *impl) ReportRevenue(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, error) {
	ctx, span := tracer.Start(ctx, "project.ReportRevenue")
	defer span.End()
	span.SetAttributes(attribute.Int64("project.id", projectId))

	if err := domain.ValidateRevenueAmount(amount); err != nil {
		return domain.RevenueReport{}, err
	}
	report, profileIds, err := i.db.ReportRevenue(ctx, projectId, amount)
	if err != nil {
		return domain.RevenueReport{}, err
	}
	i.bus.Publish(ctx, domain.RevenueReported{
		ProjectId:          projectId,
		Report:             report,
		InvestorProfileIds: profileIds,
	})
	return report, nil
}

func (i *impl) UpsertBreakdown(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error) {
	ctx, span := tracer.Start(ctx, "project.UpsertBreakdown")
	defer span.End()
	span.SetAttributes(attribute.Int64("project.id", projectId))

	stored, err := i.db.UpsertBreakdown(ctx, projectId, rows)
	if err != nil {
		return nil, err
	}
	p, err := i.db.Get(ctx, projectId)
	if err != nil {
		return nil, err
	}
	p.Breakdowns = stored
	return p.ArtistPercentageBreakdown(), nil
}

func (i *impl) Investors(ctx context.Context, projectId int64) ([]domain.InvestorStake, error) {
	p, err := i.db.Get(ctx, projectId)
	if err != nil {
		return nil, err
	}
	return domain.SortStakes(domain.ProjectInvestors(p, i.clock(), nil)), nil
}
