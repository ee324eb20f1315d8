package handlers

import (
	"net/http"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/artist"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/labstack/echo/v4"
)

type UpdateRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// UpdatesResponse is updates of an artist with what the user can do with them.
type UpdatesResponse struct {
	domain.UpdateAccess
	Updates []domain.ArtistUpdate `json:"updates"`
}

// ArtistUpdatesHandler lists updates of an artist, the newest first.
//
// Investors of the artist, admins of the artist and staff can read. Others get 403.
func ArtistUpdatesHandler(artists artist.Interface, investors investor.Interface, artistIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		artistId, err := int64Param(c, artistIdParam)
		if err != nil {
			return err
		}
		user, err := currentUser(c, investors)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		access, err := artists.Access(ctx, user, artistId)
		if err != nil {
			return asHTTPError(err)
		}
		updates, err := artists.Updates(ctx, user, artistId)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, UpdatesResponse{UpdateAccess: access, Updates: updates})
	}
}

// PostArtistUpdateHandler posts an update of an artist, and mails it to the investors.
//
// Admins of the artist and staff can post. Responds 201 with the update.
func PostArtistUpdateHandler(artists artist.Interface, investors investor.Interface, artistIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		artistId, err := int64Param(c, artistIdParam)
		if err != nil {
			return err
		}
		user, err := currentUser(c, investors)
		if err != nil {
			return err
		}

		req := new(UpdateRequest)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		u, err := artists.PublishUpdate(c.Request().Context(), user, artistId, req.Title, req.Text)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusCreated, u)
	}
}

// DeleteUpdateHandler removes an update. Admins of its artist and staff can delete.
func DeleteUpdateHandler(artists artist.Interface, investors investor.Interface, updateIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		updateId, err := int64Param(c, updateIdParam)
		if err != nil {
			return err
		}
		user, err := currentUser(c, investors)
		if err != nil {
			return err
		}

		if err := artists.DeleteUpdate(c.Request().Context(), user, updateId); err != nil {
			return asHTTPError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
