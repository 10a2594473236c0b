package http

import (
	"context"
	"strings"

	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

var errMissingBearer = errs.NewUnauthenticatedError("missing bearer token")

// Authenticator resolves an access token to the calling user.
type Authenticator interface {
	Handle(ctx context.Context, query queries.AuthenticateQuery) (queries.Principal, error)
}

// RequireAuth rejects requests without a valid access token and stores the
// caller for principalFrom.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return errMissingBearer
			}
			query, err := queries.NewAuthenticateQuery(token)
			if err != nil {
				return err
			}
			principal, err := auth.Handle(c.Request().Context(), query)
			if err != nil {
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// RequireRole admits only callers holding exactly role. It must run after
// RequireAuth.
func RequireRole(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := principalFrom(c)
			if err != nil {
				return err
			}
			if err = principal.Authorize(role); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) (queries.Principal, error) {
	principal, ok := c.Get(principalKey).(queries.Principal)
	if !ok {
		return queries.Principal{}, errMissingBearer
	}
	return principal, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
