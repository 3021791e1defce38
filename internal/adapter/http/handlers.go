package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

// Health reports "ok" when every dependency check passes, otherwise 503 with
// the failing ones listed.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]string, len(names))
	code, status := http.StatusOK, "ok"
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = "down"
			code, status = http.StatusServiceUnavailable, "degraded"
			continue
		}
		deps[name] = "up"
	}
	return c.JSON(code, map[string]any{
		"status":       status,
		"time":         time.Now().UTC().Format(time.RFC3339Nano),
		"dependencies": deps,
	})
}
