package db

import (
	"context"

	"github.com/investperdiem/perdiem/pkg/domain"
)

type SubscriptionInterface interface {
	// Subscriptions returns subscription state of the user.
	//
	// ErrMissing when the user does not exist.
	Subscriptions(ctx context.Context, userId int64) (domain.Subscriptions, error)

	// SetSubscribed updates subscription state of kinds of the user,
	// and returns kinds whose state is changed by this call.
	//
	// ErrMissing when the user does not exist.
	SetSubscribed(ctx context.Context, userId int64, kinds []domain.SubscriptionKind, subscribed bool) ([]domain.SubscriptionKind, error)

	// UserByEmail returns id of the user having the email.
	//
	// ErrMissing when nobody has it.
	UserByEmail(ctx context.Context, email string) (int64, error)

	// Recipient returns the user with email verification and subscription state.
	Recipient(ctx context.Context, userId int64) (domain.Recipient, error)

	// ArtistInvestors returns users having a paid, not refunded charge for a campaign of the artist,
	// in ascending order of user id.
	ArtistInvestors(ctx context.Context, artistId int64) ([]domain.Recipient, error)

	// CurrentEmail returns verification of the current email of the user.
	// A new code is issued when the email has never been seen.
	CurrentEmail(ctx context.Context, userId int64) (domain.VerifiedEmail, error)

	// Verify marks the email having the code as verified. Verifying twice keeps the first time.
	//
	// ErrMissing when no email has the code.
	Verify(ctx context.Context, code string) (domain.VerifiedEmail, error)
}
