package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/errs"
	"github.com/iliyamo/venues-api/internal/middleware"
)

// ErrorHandler is the echo HTTPErrorHandler. *errs.HTTPError values are
// written as they are, echo errors keep their status, and anything else
// becomes a generic 500. Every handled error is logged with the request
// logger.
func ErrorHandler(err error, c echo.Context) {
	var (
		httpErr *errs.HTTPError
		echoErr *echo.HTTPError
		resp    *errs.HTTPError
	)
	switch {
	case errors.As(err, &httpErr):
		resp = httpErr
	case errors.As(err, &echoErr):
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		if echoErr.Code == http.StatusNotFound {
			msg = "Route not found"
		}
		resp = &errs.HTTPError{Status: echoErr.Code, Message: msg}
	default:
		resp = errs.Internal()
	}

	l := middleware.GetLogger(c)
	e := l.Warn()
	if resp.Status >= http.StatusInternalServerError {
		e = l.Error()
	}
	e.Err(err).Int("status", resp.Status).Msg(resp.Message)

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(resp.Status)
		return
	}
	_ = c.JSON(resp.Status, resp)
}
