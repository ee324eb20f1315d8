package handlers

import (
	"errors"
	"strconv"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/labstack/echo/v4"
)

// UserHeader carries the id of the signed in user.
//
// perdiemd does not authenticate users; the proxy in front of it does, and sets this.
const UserHeader = "X-Perdiem-User"

func userId(c echo.Context) (int64, error) {
	h := c.Request().Header.Get(UserHeader)
	if h == "" {
		return 0, apierr.Unauthorized("sign in required", nil)
	}
	id, err := strconv.ParseInt(h, 10, 64)
	if err != nil {
		return 0, apierr.BadRequest("malformed user", err)
	}
	return id, nil
}

func currentUser(c echo.Context, investors investor.Interface) (domain.Identity, error) {
	uid, err := userId(c)
	if err != nil {
		return domain.Identity{}, err
	}
	id, err := investors.Database().Identity(c.Request().Context(), uid)
	if errors.Is(err, domerr.ErrMissing) {
		return domain.Identity{}, apierr.Unauthorized("unknown user", err)
	}
	if err != nil {
		return domain.Identity{}, apierr.InternalServerError(err)
	}
	return id, nil
}

// staffUser returns the signed in user when they are staff, and 403 for other users.
func staffUser(c echo.Context, investors investor.Interface) (domain.Identity, error) {
	u, err := currentUser(c, investors)
	if err != nil {
		return domain.Identity{}, err
	}
	if !u.IsStaff {
		return domain.Identity{}, apierr.Forbidden("staff only", nil)
	}
	return u, nil
}

func int64Param(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apierr.NotFound()
	}
	return v, nil
}
