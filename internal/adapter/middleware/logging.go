package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"shiksha-loan-backend/internal/infrastructure/logger"
)

// RequestLogger tags the request context with a request id (taken from
// X-Request-Id or generated) and logs every request once it completes.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), rid)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := req.URL.Path
			if raw := req.URL.RawQuery; raw != "" {
				path = path + "?" + raw
			}
			logger.LogRequest(c.Request().Context(), req.Method, path, c.Response().Status, time.Since(start), c.RealIP())
			return nil
		}
	}
}
