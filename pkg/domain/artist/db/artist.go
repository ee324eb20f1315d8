package db

import (
	"context"

	"github.com/investperdiem/perdiem/pkg/domain"
)

// Filter narrows artists to be listed. Zero value means everything.
type Filter struct {
	// artists located in the box.
	Within *domain.Box

	// artists of the genre.
	Genre string
}

type ArtistInterface interface {
	// Get returns the artist with aggregates. ErrMissing when the artist does not exist.
	Get(ctx context.Context, artistId int64) (domain.ArtistSummary, error)

	// List returns artists matching filter with aggregates, in descending order of id.
	List(ctx context.Context, filter Filter) ([]domain.ArtistSummary, error)

	// Create persists a new artist with genres. Unknown genres are created.
	//
	// Coordinates are rounded to 4 decimal places.
	// ErrConflict is returned when the slug is taken.
	Create(ctx context.Context, a domain.Artist) (domain.Artist, error)

	// Genres lists every genre name, alphabetically.
	Genres(ctx context.Context) ([]string, error)

	// IsAdmin reports whether the user is an admin of the artist.
	IsAdmin(ctx context.Context, artistId int64, userId int64) (bool, error)

	// IsInvestor reports whether the user has a paid, not refunded charge
	// for a campaign of the artist.
	IsInvestor(ctx context.Context, artistId int64, userId int64) (bool, error)

	// Updates lists updates of the artist, the newest first.
	Updates(ctx context.Context, artistId int64) ([]domain.ArtistUpdate, error)

	// GetUpdate returns the update. ErrMissing when the update does not exist.
	GetUpdate(ctx context.Context, updateId int64) (domain.ArtistUpdate, error)

	// CreateUpdate persists a new update. Id and CreatedAt of u are ignored.
	//
	// ErrMissing when the artist does not exist.
	CreateUpdate(ctx context.Context, u domain.ArtistUpdate) (domain.ArtistUpdate, error)

	// DeleteUpdate removes the update. ErrMissing when the update does not exist.
	DeleteUpdate(ctx context.Context, updateId int64) error
}
