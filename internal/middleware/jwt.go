package middleware // reusable HTTP middleware for the echo router

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/errs"
)

// Context keys set by the auth middleware.
const (
	// UserIDKey holds the caller's identifier (the token subject) as a string.
	UserIDKey = "user_id"
	// ClaimsKey holds the verified jwt.MapClaims.
	ClaimsKey = "claims"
	// CurrentUserKey holds the *model.User loaded by AttachCurrentUser.
	CurrentUserKey = "current_user"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores its subject under UserIDKey. Tokens must be HS256-signed with
// secret and carry a non-empty string subject; anything else is rejected
// with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return errs.Unauthorized("missing bearer token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return errs.Unauthorized("invalid token")
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return errs.Unauthorized("invalid claims")
			}
			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return errs.Unauthorized("invalid claims")
			}

			c.Set(UserIDKey, sub)
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated caller's identifier, or "" when
// JWTAuth did not run.
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(UserIDKey).(string); ok {
		return id
	}
	return ""
}
