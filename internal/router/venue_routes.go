package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/handler"
	"github.com/iliyamo/venues-api/internal/middleware"
)

// RegisterVenues registers the /venues resource. Reads are public;
// creating requires a token and mutating an existing venue additionally
// loads the caller's user record.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, users middleware.UserLookup, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	current := middleware.AttachCurrentUser(users)

	g := e.Group("/venues")
	g.GET("", v.List)
	g.GET("/:venueId", v.Detail)
	g.POST("", v.Create, auth)
	g.PUT("/:venueId", v.Update, auth, current)
	g.DELETE("/:venueId", v.Delete, auth, current)
}
