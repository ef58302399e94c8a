package handler // handler defines http handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venues-api/internal/ids"
	"github.com/iliyamo/venues-api/internal/middleware"
	"github.com/iliyamo/venues-api/internal/model"
	"github.com/iliyamo/venues-api/internal/ownership"
	"github.com/iliyamo/venues-api/internal/queue"
	"github.com/iliyamo/venues-api/internal/redact"
	"github.com/iliyamo/venues-api/internal/repository"
)

// Response messages clients depend on.
const (
	msgInvalidID      = "Specified id is not valid"
	msgUpdateNotOwner = "Users can update only their own data."
	msgDeleteNotOwner = "Users can delete only their own data."
	msgVenueNotFound  = "Venue not found"
	msgCreateFailed   = "error creating a new venue"
	msgListFailed     = "error getting list of venues"
	msgDetailFailed   = "error getting details of a venue"
	msgLoadFailed     = "error getting venue details from DB"
	msgUpdateFailed   = "error updating a venue"
	msgDeleteFailed   = "error deleting a venue"
	msgInvalidBody    = "invalid request body"
)

const defaultStoreTimeout = 5 * time.Second

// EventPublisher receives venue lifecycle events.
type EventPublisher interface {
	PublishVenueEvent(ctx context.Context, ev queue.VenueEvent) error
}

// VenueHandler serves the /venues endpoints.
type VenueHandler struct {
	Venues  repository.VenueRepository
	Events  EventPublisher
	Timeout time.Duration // per store call
}

// NewVenueHandler constructs a VenueHandler and panics if a dependency is nil.
func NewVenueHandler(venues repository.VenueRepository, events EventPublisher, timeout time.Duration) *VenueHandler {
	if venues == nil || events == nil {
		panic("nil dependency passed to NewVenueHandler")
	}
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &VenueHandler{Venues: venues, Events: events, Timeout: timeout}
}

// storeCtx bounds a single store call by the configured timeout.
func (h *VenueHandler) storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.Timeout)
}

// storeFailure logs err and writes the 500 envelope.
func storeFailure(c echo.Context, message string, err error) error {
	middleware.GetLogger(c).Error().Err(err).Msg(message)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"message": message,
		"error":   redact.Error(err),
	})
}

// emit publishes a lifecycle event for v. Failures are logged only.
func (h *VenueHandler) emit(c echo.Context, typ string, v *model.Venue) {
	ctx, cancel := h.storeCtx(c)
	defer cancel()
	if err := h.Events.PublishVenueEvent(ctx, queue.NewVenueEvent(typ, v)); err != nil {
		middleware.GetLogger(c).Warn().Err(err).
			Str("event", typ).Str("venue_id", v.ID).
			Msg("publish venue event failed")
	}
}

// Create handles POST /venues. The owner is always the authenticated
// caller; any user, identifier or reservations in the body are ignored.
func (h *VenueHandler) Create(c echo.Context) error {
	caller := middleware.GetUserID(c)
	if caller == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
	}

	var v model.Venue
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidBody})
	}
	v.ID = ""
	v.User = caller
	v.Reservations = []string{}
	v.CreatedAt, v.UpdatedAt = time.Time{}, time.Time{}

	ctx, cancel := h.storeCtx(c)
	defer cancel()
	if err := h.Venues.Create(ctx, &v); err != nil {
		return storeFailure(c, msgCreateFailed, err)
	}

	h.emit(c, queue.VenueCreated, &v)
	return c.JSON(http.StatusCreated, v)
}

// List handles GET /venues and returns every venue with its reservations
// expanded.
func (h *VenueHandler) List(c echo.Context) error {
	ctx, cancel := h.storeCtx(c)
	defer cancel()

	venues, err := h.Venues.List(ctx)
	if err != nil {
		return storeFailure(c, msgListFailed, err)
	}
	out, err := h.Venues.ExpandReservations(ctx, venues...)
	if err != nil {
		return storeFailure(c, msgListFailed, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Detail handles GET /venues/:venueId. A well-formed identifier that
// matches nothing yields 200 with a null body.
func (h *VenueHandler) Detail(c echo.Context) error {
	id := c.Param("venueId")
	if !ids.Valid(id) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidID})
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	v, err := h.Venues.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return storeFailure(c, msgDetailFailed, err)
	}
	out, err := h.Venues.ExpandReservations(ctx, *v)
	if err != nil {
		return storeFailure(c, msgDetailFailed, err)
	}
	return c.JSON(http.StatusOK, out[0])
}

// loadOwned runs the shared update/delete prelude: validate the id, load
// the venue and check the caller owns it. When it returns a nil venue the
// response has already been written.
func (h *VenueHandler) loadOwned(c echo.Context, notOwnerMsg string) (*model.Venue, error) {
	id := c.Param("venueId")
	if !ids.Valid(id) {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidID})
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	v, err := h.Venues.Get(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrVenueNotFound) {
		return nil, storeFailure(c, msgLoadFailed, err)
	}

	switch err := ownership.Check(middleware.GetUserID(c), v); {
	case errors.Is(err, ownership.ErrNotFound):
		return nil, c.JSON(http.StatusNotFound, echo.Map{"message": msgVenueNotFound})
	case errors.Is(err, ownership.ErrNotOwner):
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": notOwnerMsg})
	}
	return v, nil
}

// Update handles PUT /venues/:venueId. Only the owner may update, and only
// the descriptive fields can change.
func (h *VenueHandler) Update(c echo.Context) error {
	v, err := h.loadOwned(c, msgUpdateNotOwner)
	if v == nil {
		return err
	}

	var patch model.VenuePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgInvalidBody})
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	updated, err := h.Venues.Update(ctx, v.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": msgVenueNotFound})
		}
		return storeFailure(c, msgUpdateFailed, err)
	}

	h.emit(c, queue.VenueUpdated, updated)
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /venues/:venueId. Reservations that referenced
// the venue are left in place.
func (h *VenueHandler) Delete(c echo.Context) error {
	v, err := h.loadOwned(c, msgDeleteNotOwner)
	if v == nil {
		return err
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	if err := h.Venues.Delete(ctx, v.ID); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": msgVenueNotFound})
		}
		return storeFailure(c, msgDeleteFailed, err)
	}

	h.emit(c, queue.VenueDeleted, v)
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Venue with %s is removed successfully.", v.ID),
	})
}
