package handlers

import (
	"net/http"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	apiinvestors "github.com/investperdiem/perdiem/pkg/api/types/investors"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/labstack/echo/v4"
)

// OwnProfileHandler shows the profile of the signed in user.
func OwnProfileHandler(investors investor.Interface, sign domain.AvatarSigner) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := currentUser(c, investors)
		if err != nil {
			return err
		}

		pc, err := investors.ProfileContext(c.Request().Context(), user)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeOwnProfile(user, pc, sign))
	}
}

// ProfileHandler shows a public profile. Users investing anonymously have none.
func ProfileHandler(investors investor.Interface, sign domain.AvatarSigner, usernameParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		user, err := investors.Database().IdentityByUsername(ctx, c.Param(usernameParam))
		if err != nil {
			return asHTTPError(err)
		}
		if user.InvestAnonymously {
			return apierr.NotFound()
		}

		pc, err := investors.ProfileContext(ctx, user)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeProfile(user, pc, sign))
	}
}

type AnonymityRequest struct {
	InvestAnonymously bool `json:"invest_anonymously"`
}

func PutAnonymityHandler(investors investor.Interface, sign domain.AvatarSigner) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := userId(c)
		if err != nil {
			return err
		}

		req := new(AnonymityRequest)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user, err := investors.SetInvestAnonymously(ctx, uid, req.InvestAnonymously)
		if err != nil {
			return asHTTPError(err)
		}
		pc, err := investors.ProfileContext(ctx, user)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeOwnProfile(user, pc, sign))
	}
}

func LeaderboardHandler(investors investor.Interface, sign domain.AvatarSigner) echo.HandlerFunc {
	return func(c echo.Context) error {
		entries, err := investors.Leaderboard(c.Request().Context())
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeLeaderboard(entries, sign))
	}
}

type AvatarRequest struct {
	Provider domain.AvatarProvider `json:"provider"`
	URL      string                `json:"url"`
	Default  bool                  `json:"default"`
}

// PutAvatarHandler takes the avatar which the identity provider reports on sign in.
//
// Responds 204 whether or not the avatar is taken.
func PutAvatarHandler(investors investor.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := userId(c)
		if err != nil {
			return err
		}

		req := new(AvatarRequest)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		if _, err := investors.SaveAvatar(c.Request().Context(), uid, investor.ProviderAvatar{
			Provider: req.Provider,
			URL:      req.URL,
			Default:  req.Default,
		}); err != nil {
			return asHTTPError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
