package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger logs one structured line per request. It should be
// placed after the RequestID middleware so the id is available.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := logger.Info()
			if res.Status >= 500 {
				event = logger.Error()
			} else if res.Status >= 400 {
				event = logger.Warn()
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("duration", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}

// RequestID tags every request with a unique id, echoing back a
// client-supplied X-Request-ID when present.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestID()
}
