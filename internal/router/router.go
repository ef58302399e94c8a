package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/venues-api/internal/config"
	"github.com/iliyamo/venues-api/internal/handler"
	"github.com/iliyamo/venues-api/internal/middleware"
	"github.com/iliyamo/venues-api/internal/repository"
	"github.com/iliyamo/venues-api/internal/upload"
)

// Deps are the collaborators the routes are built from. Store and
// provider clients are constructed by the caller and injected here.
type Deps struct {
	Cfg      config.Config
	Logger   zerolog.Logger
	Venues   repository.VenueRepository
	Users    repository.UserRepository
	Uploader upload.Uploader
	Events   handler.EventPublisher
}

// New returns an Echo instance with the global middleware, the error
// handler and every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	// order matters: the request id feeds the context logger, which the
	// access log and error handler read
	e.Use(middleware.RequestID())
	e.Use(middleware.ContextLogger(d.Logger))
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg.Auth, d.Users, d.Cfg.Store.Timeout), d.Cfg.Auth.JWTSecret)
	RegisterUpload(e, handler.NewUploadHandler(d.Uploader), d.Cfg.Server.UploadLimit)
	RegisterVenues(e, handler.NewVenueHandler(d.Venues, d.Events, d.Cfg.Store.Timeout), d.Users, d.Cfg.Auth.JWTSecret)
	return e
}

// RegisterRoutes registers routes that do not belong to a resource.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers signup, login and token verification.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.GET("/verify", a.Verify, middleware.JWTAuth(jwtSecret))
}

// RegisterUpload registers the unauthenticated image upload relay with a
// body size limit such as "10M".
func RegisterUpload(e *echo.Echo, u *handler.UploadHandler, limit string) {
	e.POST("/upload", u.Upload, echomw.BodyLimit(limit))
}
