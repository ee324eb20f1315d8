package db

import (
	"context"

	"github.com/investperdiem/perdiem/pkg/domain"
)

type InvestorInterface interface {
	// Identity returns the identity of a user. ErrMissing when the user does not exist.
	Identity(ctx context.Context, userId int64) (domain.Identity, error)

	// IdentityByUsername returns the identity of a user. ErrMissing when the user does not exist.
	IdentityByUsername(ctx context.Context, username string) (domain.Identity, error)

	// Register creates a user with a profile.
	//
	// ErrConflict is returned when the username is taken.
	Register(ctx context.Context, username string, email string, fullName string) (domain.Identity, error)

	// SetInvestAnonymously updates the profile of the user.
	SetInvestAnonymously(ctx context.Context, userId int64, anonymous bool) (domain.Identity, error)

	// Holdings returns settled investments of the user with what their earnings depend on.
	Holdings(ctx context.Context, userId int64) ([]domain.Holding, error)

	// AllHoldings returns holdings of every user who does not invest anonymously, in order of user id.
	AllHoldings(ctx context.Context) ([]domain.InvestorHoldings, error)

	// SaveAvatar saves an avatar of the user from the provider, replacing the one from the same provider.
	//
	// When the avatar is new and the profile has no avatar yet, it becomes the avatar of the profile.
	// created is true when the avatar is new.
	SaveAvatar(ctx context.Context, userId int64, avatar domain.Avatar) (created bool, err error)
}
