package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/errs"
	"github.com/iliyamo/venues-api/internal/model"
	"github.com/iliyamo/venues-api/internal/repository"
)

// UserLookup is the part of the user store AttachCurrentUser needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// AttachCurrentUser loads the caller's full record and stores it under
// CurrentUserKey. It must run after JWTAuth. A token whose subject no
// longer exists is rejected with 401; a store failure is passed on to the
// error handler.
func AttachCurrentUser(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := GetUserID(c)
			if id == "" {
				return errs.Unauthorized("missing bearer token")
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return errs.Unauthorized("user not found")
				}
				return err
			}
			c.Set(CurrentUserKey, u)
			return next(c)
		}
	}
}

// GetCurrentUser returns the user stored by AttachCurrentUser, or nil.
func GetCurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(CurrentUserKey).(*model.User)
	return u
}
