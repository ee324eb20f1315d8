package handlers

import (
	"net/http"

	apierr "github.com/investperdiem/perdiem/pkg/api/errors"
	"github.com/investperdiem/perdiem/pkg/domain/campaign"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/labstack/echo/v4"
)

type ChargeRequest struct {
	NumShares int64  `json:"num_shares"`
	CardToken string `json:"card_token"`
}

// ChargeHandler buys shares of a campaign for the signed in user with a tokenized card.
//
// The response is the investment recorded, with status 201.
func ChargeHandler(campaigns campaign.Interface, investors investor.Interface, campaignIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		campaignId, err := int64Param(c, campaignIdParam)
		if err != nil {
			return err
		}
		user, err := currentUser(c, investors)
		if err != nil {
			return err
		}

		req := new(ChargeRequest)
		if err := decodeJSON(c, req); err != nil {
			return err
		}
		if req.CardToken == "" {
			return apierr.BadRequest("card_token is required", nil)
		}

		inv, err := campaigns.Checkout(
			c.Request().Context(), user, campaignId, req.NumShares, req.CardToken,
		)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusCreated, inv)
	}
}

// RefundHandler refunds a charge and stops its investment counting. Only staff can refund.
//
// The response is empty, with status 204.
func RefundHandler(campaigns campaign.Interface, investors investor.Interface, chargeIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		chargeId := c.Param(chargeIdParam)
		if chargeId == "" {
			return apierr.NotFound()
		}
		if _, err := staffUser(c, investors); err != nil {
			return err
		}

		if err := campaigns.Refund(c.Request().Context(), chargeId); err != nil {
			return asHTTPError(err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
