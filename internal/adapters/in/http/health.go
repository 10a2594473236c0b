package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// CheckFunc reports whether a dependency is reachable.
type CheckFunc func(ctx context.Context) error

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

const (
	statusUp   = "UP"
	statusDown = "DOWN"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks    map[string]CheckFunc
	version   string
	startTime time.Time
	timeout   time.Duration
}

func NewHealthHandler(version string, checks map[string]CheckFunc) *HealthHandler {
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		checks:    checks,
		version:   version,
		startTime: time.Now(),
		timeout:   3 * time.Second,
	}
}

// Live confirms the process is serving requests.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    statusUp,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: statusUp}},
	})
}

// Ready runs every dependency check and answers 503 if any fails.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:    statusUp,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    make(map[string]Check, len(names)),
	}
	code := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = Check{Status: statusDown, Message: err.Error()}
			resp.Status = statusDown
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = Check{Status: statusUp}
	}
	return c.JSON(code, resp)
}
