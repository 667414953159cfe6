// Package api implements the JSON API boundary. Every response uses a
// uniform envelope distinguishing success (payload present) from failure
// (an error with a user-facing message).
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/domain"
)

type envelope struct {
	OK    bool      `json:"ok"`
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// respond writes a success envelope.
func respond(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{OK: true, Data: data})
}

// respondError maps a domain error code to an HTTP status and writes a
// failure envelope with the user-facing message.
func respondError(c echo.Context, err error) error {
	return c.JSON(statusFromCode(domain.ErrorCode(err)), envelope{
		Error: &apiError{Message: domain.ErrorMessage(err)},
	})
}

// respondValidation writes a 400 envelope with field-level details.
func respondValidation(c echo.Context, details any) error {
	return c.JSON(http.StatusBadRequest, envelope{
		Error: &apiError{Message: "Validation failed", Details: details},
	})
}

// HTTPErrorHandler folds errors that bypass the handlers, such as
// unmatched routes, into the same envelope shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	} else if code := domain.ErrorCode(err); code != domain.EINTERNAL {
		status = statusFromCode(code)
		message = domain.ErrorMessage(err)
	}

	_ = c.JSON(status, envelope{Error: &apiError{Message: message}})
}

func statusFromCode(code string) int {
	switch code {
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
