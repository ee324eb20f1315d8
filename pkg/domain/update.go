package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

// MaxUpdateTitleLength is the longest title of an update, in characters.
const MaxUpdateTitleLength = 75

// ArtistUpdate is news an artist posts to their investors.
type ArtistUpdate struct {
	Id        int64     `json:"id"`
	ArtistId  int64     `json:"artist_id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the title and the text are given, and the title is not too long.
func (u ArtistUpdate) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return fmt.Errorf("%w: title is required", domerr.ErrInvalidArgument)
	}
	if n := utf8.RuneCountInString(u.Title); MaxUpdateTitleLength < n {
		return fmt.Errorf(
			"%w: title should be %d characters or less, but %d",
			domerr.ErrInvalidArgument, MaxUpdateTitleLength, n,
		)
	}
	if strings.TrimSpace(u.Text) == "" {
		return fmt.Errorf("%w: text is required", domerr.ErrInvalidArgument)
	}
	return nil
}

// ArtistRole is what an admin of an artist is for the artist.
type ArtistRole string

const (
	RoleMusician   ArtistRole = "musician"
	RoleManager    ArtistRole = "manager"
	RoleProducer   ArtistRole = "producer"
	RoleSongwriter ArtistRole = "songwriter"
)

// UpdateAccess is what a user can do with updates of an artist.
type UpdateAccess struct {
	// the user is an admin of the artist, or staff.
	CanSubmit bool `json:"can_submit"`

	// the user has a settled investment on the artist.
	IsInvestor bool `json:"is_investor"`
}

// CanView reports whether the user can read updates.
func (a UpdateAccess) CanView() bool {
	return a.CanSubmit || a.IsInvestor
}
