package handlers

import (
	"net/http"
	"strings"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	"github.com/investperdiem/perdiem/pkg/geocode"
	"github.com/labstack/echo/v4"
)

// CoordinatesHandler geocodes the query parameter "address".
func CoordinatesHandler(geocoder geocode.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		address := strings.TrimSpace(c.QueryParam("address"))
		if address == "" {
			return apierr.BadRequest("address is required", nil)
		}

		p, err := geocoder.Geocode(c.Request().Context(), address)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, p)
	}
}
