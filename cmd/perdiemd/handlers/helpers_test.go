package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/investperdiem/perdiem/pkg/cache"
	"github.com/investperdiem/perdiem/pkg/cache/memory"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
	"github.com/investperdiem/perdiem/pkg/domain/investor"
	investormock "github.com/investperdiem/perdiem/pkg/domain/investor/db/mock"
	"github.com/labstack/echo/v4"
)

// statusOf tells the status code which the client receives.
func statusOf(t *testing.T, err error, rec *httptest.ResponseRecorder) int {
	t.Helper()
	if err == nil {
		return rec.Code
	}
	var herr *echo.HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("error is not echo.HTTPError. actual = %#v", err)
	}
	return herr.Code
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// investors returns the investor service knowing users.
func investors(users ...domain.Identity) (investor.Interface, *investormock.InvestorInterface) {
	mdb := investormock.NewInvestorInterface()
	mdb.Impl.Identity = func(_ context.Context, userId int64) (domain.Identity, error) {
		for _, u := range users {
			if u.UserId == userId {
				return u, nil
			}
		}
		return domain.Identity{}, domerr.ErrMissing
	}
	return investor.New(mdb, cache.New(memory.New(), discard())), mdb
}

var errMissing = fmt.Errorf("fake: %w", domerr.ErrMissing)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
