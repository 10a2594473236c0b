package http

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// RequestValidator checks documented requests against the OpenAPI
// document before they reach a handler. Paths the document does not
// describe pass through untouched.
type RequestValidator struct {
	router routers.Router
	skip   []string
}

// NewRequestValidator builds a validator for doc. Requests whose path starts
// with one of skipPrefixes are never validated.
func NewRequestValidator(doc *openapi3.T, skipPrefixes ...string) (*RequestValidator, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &RequestValidator{router: router, skip: skipPrefixes}, nil
}

func (v *RequestValidator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			for _, prefix := range v.skip {
				if strings.HasPrefix(req.URL.Path, prefix) {
					return next(c)
				}
			}

			route, pathParams, err := v.router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return next(c)
		}
	}
}
