package handlers

import (
	"errors"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/payment"
)

// asHTTPError converts an error from services into a response.
func asHTTPError(err error) error {
	if err == nil {
		return nil
	}

	if card := new(payment.CardError); errors.As(err, &card) {
		return apierr.BadRequest(card.Message, err)
	}

	switch {
	case errors.Is(err, domerr.ErrMissing):
		return apierr.NotFound()
	case errors.Is(err, domerr.ErrCampaignClosed):
		return apierr.Conflict(
			"campaign is closed",
			apierr.WithAdvice("the campaign does not accept investments now"),
			apierr.WithError(err),
		)
	case errors.Is(err, domerr.ErrSharesExceedAvailable):
		return apierr.Conflict(
			"not enough shares",
			apierr.WithAdvice("buy fewer shares"),
			apierr.WithError(err),
		)
	case errors.Is(err, domerr.ErrNoCampaignDefined):
		return apierr.Conflict(
			"no campaign defined",
			apierr.WithAdvice("revenue can be reported after the project has a campaign"),
			apierr.WithError(err),
		)
	case errors.Is(err, domerr.ErrForbidden):
		return apierr.Forbidden("forbidden", err)
	case errors.Is(err, domerr.ErrConflict):
		return apierr.Conflict("conflict", apierr.WithError(err))
	case errors.Is(err, domerr.ErrInvalidToken):
		return apierr.BadRequest("the link is broken or expired", err)
	case errors.Is(err, domerr.ErrBreakdownMismatch),
		errors.Is(err, domerr.ErrBreakdownOutOfRange),
		errors.Is(err, domerr.ErrInvalidArgument):
		return apierr.BadRequest(err.Error(), err)
	case errors.Is(err, domerr.ErrUpstreamUnavailable):
		return apierr.ServiceUnavailable("retry later", err)
	}
	return apierr.InternalServerError(err)
}
