package db

import (
	"context"

	"github.com/investperdiem/perdiem/pkg/domain"
)

type CampaignInterface interface {
	// Get returns a campaign with its expenses and investments.
	//
	// Returns ErrMissing when the campaign does not exist.
	Get(ctx context.Context, campaignId int64) (domain.CampaignState, error)

	// Ledger returns a campaign with shares sold.
	Ledger(ctx context.Context, campaignId int64) (domain.Ledger, error)

	// Create validates and persists a new campaign with its expenses.
	//
	// Ids in the argument are ignored; the returned campaign has new ids.
	Create(ctx context.Context, c domain.Campaign) (domain.Campaign, error)

	// RecordInvestment admits and persists an investment backed by charge, at the time of the database.
	//
	// The campaign row is locked while shares remaining are checked,
	// so concurrent investments never oversell the campaign.
	//
	// Errors:
	//
	// - ErrCampaignClosed, ErrSharesExceedAvailable, ErrInvalidShares: admission failed.
	// Nothing is persisted.
	//
	// - ErrMissing: the campaign or the user of the charge does not exist.
	//
	// - ErrConflict: the charge is recorded already.
	RecordInvestment(ctx context.Context, campaignId int64, numShares int64, charge domain.Charge) (domain.Investment, error)

	// SetRefunded marks the charge refunded, and returns the identity of the user paid it.
	//
	// Returns ErrMissing when the charge does not exist.
	SetRefunded(ctx context.Context, chargeId string) (domain.Identity, error)
}
