package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/config"
	"github.com/iliyamo/venues-api/internal/errs"
	"github.com/iliyamo/venues-api/internal/middleware"
	"github.com/iliyamo/venues-api/internal/model"
	"github.com/iliyamo/venues-api/internal/repository"
	"github.com/iliyamo/venues-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.AuthConfig
	Users   repository.UserRepository
	Timeout time.Duration
}

func NewAuthHandler(cfg config.AuthConfig, users repository.UserRepository, timeout time.Duration) *AuthHandler {
	if users == nil {
		panic("nil user repository passed to NewAuthHandler")
	}
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &AuthHandler{Cfg: cfg, Users: users, Timeout: timeout}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=100"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindAndValidate decodes the JSON body into req and runs its validate
// tags, turning failures into a 400 with per-field errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.Validation(msgInvalidBody)
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]errs.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, errs.FieldError{Field: fe.Field(), Error: "failed on " + fe.Tag()})
		}
		return errs.Validation(msgInvalidBody, fields...)
	}
	return nil
}

// Signup creates a user and returns it without the password hash.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	u := &model.User{Email: req.Email, Name: strings.TrimSpace(req.Name), PasswordHash: hash}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errs.Conflict("email already exists")
		}
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// Login verifies the credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errs.Unauthorized("invalid credentials")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errs.Unauthorized("invalid credentials")
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.TokenTTL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"authToken": tok.Token})
}

// Verify echoes the claims of the presented token (protected).
func (h *AuthHandler) Verify(c echo.Context) error {
	claims := c.Get(middleware.ClaimsKey)
	if claims == nil {
		return errs.Unauthorized("missing bearer token")
	}
	return c.JSON(http.StatusOK, claims)
}
