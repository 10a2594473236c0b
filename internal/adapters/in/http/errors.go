package http

import (
	"errors"
	"log/slog"
	"net/http"

	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	kindNotFound        = "not_found"
	kindValidation      = "validation"
	kindConflict        = "conflict"
	kindForbidden       = "forbidden"
	kindUnauthenticated = "unauthenticated"
	kindExternalService = "external_service"
	kindInternal        = "internal"
)

// classify maps an error to its status code and kind. Order matters: some
// errors carry more than one kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, kindUnauthenticated
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, kindForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, kindConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, kindValidation
	case errors.Is(err, errs.ErrExternalService):
		return http.StatusBadGateway, kindExternalService
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusNotFound:
		return kindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return kindValidation
	case http.StatusConflict:
		return kindConflict
	case http.StatusForbidden:
		return kindForbidden
	case http.StatusUnauthorized:
		return kindUnauthenticated
	case http.StatusBadGateway:
		return kindExternalService
	default:
		return kindInternal
	}
}

// NewErrorHandler renders handler errors as ErrorResponse. Internal errors
// are logged and their message is hidden from the client.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	log := logger.With("component", "http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var resp ErrorResponse
		var he *echo.HTTPError
		if errors.As(err, &he) {
			resp = ErrorResponse{Code: he.Code, Kind: kindForStatus(he.Code), Message: http.StatusText(he.Code)}
			if msg, ok := he.Message.(string); ok && msg != "" {
				resp.Message = msg
			}
		} else {
			code, kind := classify(err)
			resp = ErrorResponse{Code: code, Kind: kind, Message: err.Error()}
		}

		if resp.Code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			if resp.Kind == kindInternal {
				resp.Message = http.StatusText(http.StatusInternalServerError)
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Code)
			return
		}
		_ = c.JSON(resp.Code, resp)
	}
}
