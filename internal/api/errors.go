package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/platform"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	var buildErr *plan.BuildError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, platform.ErrUnsupportedChain):
		return http.StatusNotFound
	case errors.Is(err, plan.ErrNoFundingObject):
		return http.StatusUnprocessableEntity
	case errors.Is(err, plan.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, plan.ErrKeyMismatch):
		return http.StatusForbidden
	case errors.As(err, &buildErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		msg := err.Error()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				msg = m
			}
		}

		if code >= http.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Errorf("request failed: %v", err)
			msg = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}
