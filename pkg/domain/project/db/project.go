package db

import (
	"context"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/shopspring/decimal"
)

type ProjectInterface interface {
	// Get returns a project with its artist, campaigns, reports and breakdowns.
	//
	// Returns ErrMissing when the project does not exist.
	Get(ctx context.Context, projectId int64) (domain.ProjectState, error)

	// ByArtist returns projects of the artist, in order of id.
	ByArtist(ctx context.Context, artistId int64) ([]domain.ProjectState, error)

	// Create persists a new project of an artist.
	Create(ctx context.Context, p domain.Project) (domain.Project, error)

	// ReportRevenue persists a revenue report of the project made at the time of the database.
	//
	// The amount is rounded to cents.
	//
	// Returns the report and profile ids of users holding settled investments in the project.
	//
	// Errors:
	//
	// - ErrInvalidAmount: amount is not positive.
	//
	// - ErrNoCampaignDefined: the project has no campaigns.
	//
	// - ErrMissing: the project does not exist.
	ReportRevenue(ctx context.Context, projectId int64, amount decimal.Decimal) (domain.RevenueReport, []int64, error)

	// UpsertBreakdown replaces breakdowns of the project with rows.
	//
	// Empty rows removes explicit breakdowns; the artist owns the artist side again.
	//
	// Errors:
	//
	// - ErrBreakdownOutOfRange, ErrBreakdownMismatch: rows are rejected. Nothing changes.
	//
	// - ErrNoCampaignDefined: the project has no campaigns, so the artist side is undefined.
	//
	// - ErrMissing: the project does not exist.
	UpsertBreakdown(ctx context.Context, projectId int64, rows []domain.Breakdown) ([]domain.Breakdown, error)
}
