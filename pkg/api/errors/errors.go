// Package errors shapes errors of the HTTP API.
//
// Handlers return *echo.HTTPError made here; the body is a JSON ErrorMessage.
package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (e ErrorMessage) String() string {
	lines := []string{e.Reason}
	if e.Advice != "" {
		lines = append(lines, e.Advice)
	}
	if e.Cause != nil {
		lines = append(lines, fmt.Sprint("caused by: ", e.Cause.Error()))
	}
	return strings.Join(lines, "\n")
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(*ErrorMessage)

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if advice != "" {
			in.Advice = advice
		}
	}
}

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if err != nil {
			in.Cause = err
		}
	}
}

func WithSee(see string) ErrorMessageOption {
	return func(in *ErrorMessage) {
		if see != "" {
			in.See = see
		}
	}
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Reason: reason}
	for _, opt := range opts {
		opt(&msg)
	}
	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusBadRequest, "bad request", WithAdvice(advice), WithError(err),
	)
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func Conflict(reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, reason, opts...)
}

func Unauthorized(reason string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, reason, WithError(err))
}

func Forbidden(reason string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, reason, WithError(err))
}

func ServiceUnavailable(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusServiceUnavailable, "service unavailable temporarily",
		WithAdvice(advice), WithError(err),
	)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError, "unexpected error", WithError(err),
	)
}
