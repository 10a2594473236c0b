package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries the optional pieces of the HTTP stack. Nil fields
// switch the matching feature off.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Metrics        *Metrics
	Health         *HealthHandler
	Validator      *RequestValidator
	OpenAPIYAML    []byte
	SwaggerUI      bool
}

// NewRouter assembles the echo instance: middleware chain, operational
// endpoints, and the /api/v1 routes of s.
func NewRouter(s *Server, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(cfg.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(cfg.Logger))
	e.Use(middleware.Secure())
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		}))
	}
	e.Use(middleware.BodyLimit("1M"))
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
		e.GET("/metrics", cfg.Metrics.Handler())
	}

	if cfg.Health != nil {
		e.GET("/health", cfg.Health.Live)
		e.GET("/health/live", cfg.Health.Live)
		e.GET("/health/ready", cfg.Health.Ready)
	}
	if len(cfg.OpenAPIYAML) > 0 {
		spec := cfg.OpenAPIYAML
		e.GET("/openapi.yaml", func(c echo.Context) error {
			return c.Blob(http.StatusOK, "application/yaml", spec)
		})
	}
	if cfg.SwaggerUI {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api/v1")
	if cfg.Validator != nil {
		api.Use(cfg.Validator.Middleware())
	}
	s.Register(api)

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	log := logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				log.LogAttrs(c.Request().Context(), slog.LevelWarn, "request", slog.Group("http", attrs...), slog.String("error", v.Error.Error()))
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	})
}
