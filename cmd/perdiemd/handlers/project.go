package handlers

import (
	"net/http"

	apiinvestors "github.com/investperdiem/perdiem/pkg/api/types/investors"
	"github.com/investperdiem/perdiem/pkg/domain"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	"github.com/investperdiem/perdiem/pkg/domain/project"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type RevenueRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReportRevenueHandler records revenue of a project. Only staff can report.
func ReportRevenueHandler(projects project.Interface, investors investor.Interface, projectIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectId, err := int64Param(c, projectIdParam)
		if err != nil {
			return err
		}
		if _, err := staffUser(c, investors); err != nil {
			return err
		}

		req := new(RevenueRequest)
		if err := decodeJSON(c, req); err != nil {
			return err
		}

		report, err := projects.ReportRevenue(c.Request().Context(), projectId, req.Amount)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusCreated, report)
	}
}

// PutBreakdownHandler replaces how the artist percentage of a project is split.
//
// Request body is a JSON array of {"name", "percentage"}. Only staff can put.
func PutBreakdownHandler(projects project.Interface, investors investor.Interface, projectIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectId, err := int64Param(c, projectIdParam)
		if err != nil {
			return err
		}
		if _, err := staffUser(c, investors); err != nil {
			return err
		}

		rows := []domain.Breakdown{}
		if err := decodeJSON(c, &rows); err != nil {
			return err
		}

		saved, err := projects.UpsertBreakdown(c.Request().Context(), projectId, rows)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, saved)
	}
}

func ProjectInvestorsHandler(projects project.Interface, sign domain.AvatarSigner, projectIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectId, err := int64Param(c, projectIdParam)
		if err != nil {
			return err
		}

		stakes, err := projects.Investors(c.Request().Context(), projectId)
		if err != nil {
			return asHTTPError(err)
		}
		return c.JSON(http.StatusOK, apiinvestors.ComposeStakes(stakes, sign))
	}
}
