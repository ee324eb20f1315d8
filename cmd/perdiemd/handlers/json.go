package handlers

import (
	"encoding/json"
	"mime"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	"github.com/labstack/echo/v4"
)

func decodeJSON(c echo.Context, v any) error {
	req := c.Request()
	if mt, _, err := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType)); err != nil || mt != echo.MIMEApplicationJSON {
		return apierr.BadRequest(
			"unexpected content type. it should be application/json", err,
		)
	}
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return apierr.BadRequest("can not understand the requested json", err)
	}
	return nil
}
