package handlers

import (
	"net/http"

	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/investperdiem/perdiem/pkg/domain/subscription"
	"github.com/labstack/echo/v4"
)

// RegisterHandler creates a user, and welcomes them.
//
// Request body is domain.Registration. Responds 201 with the identity of the user,
// 400 for malformed registrations and 409 when the username is taken.
//
// The user is created even if the welcome fails; the failure is logged.
func RegisterHandler(investors investor.Interface, subscriptions subscription.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(domain.Registration)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user, err := investors.Register(ctx, *req)
		if err != nil {
			return asHTTPError(err)
		}
		if err := subscriptions.Welcome(ctx, user, req.SubscribeNews); err != nil {
			c.Logger().Errorf("welcome user %d: %+v", user.UserId, err)
		}
		return c.JSON(http.StatusCreated, user)
	}
}
