package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/venues-api/internal/errs"
)

// LoggerKey is the echo context key for the request-scoped logger.
const LoggerKey = "logger"

// ContextLogger derives a logger carrying request_id, method, path and ip
// from base and stores it under LoggerKey. It must run after RequestID.
func ContextLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()
			c.Set(LoggerKey, &l)
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
			return next(c)
		}
	}
}

// GetLogger returns the request-scoped logger, or a no-op logger when
// ContextLogger did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

// RequestLogger writes one access log line per request. The level follows
// the final status: error for 5xx, warn for 4xx, info otherwise.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			status := v.Status
			// a returned error has not been written yet; take the status
			// the error handler is going to use
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError
				switch {
				case errors.As(v.Error, &httpErr):
					status = httpErr.Status
				case errors.As(v.Error, &echoErr):
					status = echoErr.Code
				default:
					status = 500
				}
			}

			l := GetLogger(c)
			var e *zerolog.Event
			switch {
			case status >= 500:
				e = l.Error().Err(v.Error)
			case status >= 400:
				e = l.Warn()
			default:
				e = l.Info()
			}
			if id := GetUserID(c); id != "" {
				e = e.Str("user_id", id)
			}
			e.Dur("latency", v.Latency).
				Int("status", status).
				Str("uri", v.URI).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")
			return nil
		},
	})
}
