package handlers

import (
	"net/http"
	"strconv"
	"time"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	apiartists "github.com/investperdiem/perdiem/pkg/api/types/artists"
	apiinvestors "github.com/investperdiem/perdiem/pkg/api/types/investors"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/artist"
	"github.com/labstack/echo/v4"
)

// parseArtistQuery reads query parameters of artist listing:
//
//   - order: recent (default), funded, time-remaining, investors, raised or valuation
//   - genre
//   - lat, lon and distance (miles): artists around the point. All three are needed.
//   - active: "true" hides artists whose every campaign has failed
func parseArtistQuery(c echo.Context) (artist.Query, error) {
	q := artist.Query{}

	order, err := domain.ParseArtistOrder(c.QueryParam("order"))
	if err != nil {
		return q, apierr.BadRequest(err.Error(), err)
	}
	q.Order = order
	q.Genre = c.QueryParam("genre")

	if a := c.QueryParam("active"); a != "" {
		active, err := strconv.ParseBool(a)
		if err != nil {
			return q, apierr.BadRequest("active should be true or false", err)
		}
		q.ExcludeFailed = active
	}

	lat, lon, dist := c.QueryParam("lat"), c.QueryParam("lon"), c.QueryParam("distance")
	if lat == "" || lon == "" || dist == "" {
		return q, nil
	}
	var p domain.Point
	if p.Lat, err = strconv.ParseFloat(lat, 64); err != nil || p.Lat < -90 || 90 < p.Lat {
		return q, apierr.BadRequest("lat should be a number in [-90, 90]", err)
	}
	if p.Lon, err = strconv.ParseFloat(lon, 64); err != nil || p.Lon < -180 || 180 < p.Lon {
		return q, apierr.BadRequest("lon should be a number in [-180, 180]", err)
	}
	miles, err := strconv.ParseFloat(dist, 64)
	if err != nil || miles < 0 {
		return q, apierr.BadRequest("distance should be miles, not negative", err)
	}
	q.Near = &p
	q.Miles = miles
	return q, nil
}

func ListArtistsHandler(artists artist.Interface, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := parseArtistQuery(c)
		if err != nil {
			return err
		}

		found, err := artists.List(c.Request().Context(), q)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiartists.ComposeSummaries(found, clock()))
	}
}

func GetArtistHandler(artists artist.Interface, clock func() time.Time, artistIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		artistId, err := int64Param(c, artistIdParam)
		if err != nil {
			return err
		}

		a, err := artists.Database().Get(c.Request().Context(), artistId)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiartists.ComposeSummary(a, clock()))
	}
}

func ArtistInvestorsHandler(artists artist.Interface, sign domain.AvatarSigner, artistIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		artistId, err := int64Param(c, artistIdParam)
		if err != nil {
			return err
		}

		stakes, err := artists.Investors(c.Request().Context(), artistId)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeStakes(stakes, sign))
	}
}

func GenresHandler(artists artist.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		genres, err := artists.Database().Genres(c.Request().Context())
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, genres)
	}
}
