package handlers

import (
	"context"
	"net/http"
	"strings"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/subscription"
	"github.com/labstack/echo/v4"
)

type SubscriptionResponse struct {
	Kind       domain.SubscriptionKind `json:"kind"`
	Subscribed bool                    `json:"subscribed"`
}

func kindParam(c echo.Context, name string) (domain.SubscriptionKind, error) {
	kind, err := domain.ParseSubscriptionKind(strings.ToUpper(c.Param(name)))
	if err != nil {
		return "", apierr.NotFound()
	}
	return kind, nil
}

// SubscriptionsHandler lists every kind of emails with whether the signed in user subscribes it.
func SubscriptionsHandler(subscriptions subscription.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := userId(c)
		if err != nil {
			return err
		}

		subs, err := subscriptions.Database().Subscriptions(c.Request().Context(), uid)
		if err != nil {
			return asHTTPError(err)
		}

		resp := make([]SubscriptionResponse, 0, len(domain.SubscriptionKinds))
		for _, k := range domain.SubscriptionKinds {
			resp = append(resp, SubscriptionResponse{Kind: k, Subscribed: subs.Subscribed(k)})
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// PutSubscriptionHandler (un)subscribes the signed in user from the kind in the path.
func PutSubscriptionHandler(subscriptions subscription.Interface, subscribe bool, kindParamName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		kind, err := kindParam(c, kindParamName)
		if err != nil {
			return err
		}
		uid, err := userId(c)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		if subscribe {
			err = subscriptions.Subscribe(ctx, uid, kind)
		} else {
			err = subscriptions.Unsubscribe(ctx, uid, kind)
		}
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, SubscriptionResponse{Kind: kind, Subscribed: subscribe})
	}
}

// UnsubscribeHandler follows an unsubscribe link in emails, by the query parameter "token".
//
// It needs no sign in; the token tells who and what.
func UnsubscribeHandler(subscriptions subscription.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return apierr.BadRequest("token is required", nil)
		}

		_, kind, err := subscriptions.UnsubscribeByToken(c.Request().Context(), token)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, SubscriptionResponse{Kind: kind, Subscribed: false})
	}
}

// MailingListHookHandler receives unsubscriptions made on the mailing list service.
//
// The service sends form values "type" and "data[email]". Events other than
// "unsubscribe" are acknowledged and ignored.
func MailingListHookHandler(subscriptions subscription.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method == http.MethodGet {
			// the mailing list service sends a GET to validate the hook before registering it.
			return c.NoContent(http.StatusOK)
		}

		if c.FormValue("type") != "unsubscribe" {
			return c.NoContent(http.StatusOK)
		}
		email := strings.TrimSpace(c.FormValue("data[email]"))
		if email == "" {
			return apierr.BadRequest("data[email] is required", nil)
		}

		if err := subscriptions.UnsubscribeEmail(
			c.Request().Context(), email, domain.SubscriptionNews,
		); err != nil {
			return asHTTPError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

// VerifyEmailHandler verifies the email which the code in the path was sent to.
func VerifyEmailHandler(subscriptions subscription.Interface, codeParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := subscriptions.Verify(c.Request().Context(), c.Param(codeParam))
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, v)
	}
}

// VerificationMailer sends the link to verify an email.
type VerificationMailer interface {
	SendVerification(ctx context.Context, v domain.VerifiedEmail) error
}

// RequestVerificationHandler sends a verification mail to the current email of the signed in user.
//
// Responds 204, or 409 if the email is verified already.
func RequestVerificationHandler(subscriptions subscription.Interface, mailer VerificationMailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, err := userId(c)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		v, err := subscriptions.VerificationCode(ctx, uid)
		if err != nil {
			return asHTTPError(err)
		}
		if v.Verified() {
			return apierr.Conflict("the email is verified already")
		}
		if err := mailer.SendVerification(ctx, v); err != nil {
			return apierr.ServiceUnavailable("retry later", err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
