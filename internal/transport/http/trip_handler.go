package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

type TripHandler struct {
	trips *service.TripService
}

func RegisterTrips(api *echo.Group, auth *service.AuthService, trips *service.TripService) {
	h := &TripHandler{trips: trips}
	g := api.Group("/users/:userId/trips", RequireAuth(auth))
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:tripId", h.get)
	g.PUT("/:tripId", h.update)
	g.DELETE("/:tripId", h.delete)
}

func (h *TripHandler) create(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	input, err := bindTrip(c)
	if err != nil {
		return writeError(c, err)
	}
	trip, err := h.trips.Create(c.Request().Context(), currentActor(c), userID, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{"trip_id": trip.ID, "trip": trip})
}

func (h *TripHandler) list(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	trips, err := h.trips.List(c.Request().Context(), currentActor(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("trips", trips))
}

func (h *TripHandler) get(c echo.Context) error {
	userID, tripID, err := userAndTrip(c)
	if err != nil {
		return writeError(c, err)
	}
	trip, err := h.trips.Get(c.Request().Context(), currentActor(c), userID, tripID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("trip", trip))
}

func (h *TripHandler) update(c echo.Context) error {
	userID, tripID, err := userAndTrip(c)
	if err != nil {
		return writeError(c, err)
	}
	input, err := bindTrip(c)
	if err != nil {
		return writeError(c, err)
	}
	trip, err := h.trips.Update(c.Request().Context(), currentActor(c), userID, tripID, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("trip", trip))
}

func (h *TripHandler) delete(c echo.Context) error {
	userID, tripID, err := userAndTrip(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.trips.Delete(c.Request().Context(), currentActor(c), userID, tripID); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func bindTrip(c echo.Context) (service.TripInput, error) {
	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return service.TripInput{}, errInvalidBody
	}
	input := service.TripInput{Name: req.Name, Description: req.Description}
	for _, stop := range req.Destinations {
		id, err := uuid.Parse(strings.TrimSpace(stop.DestinationID))
		if err != nil {
			return service.TripInput{}, errInvalidBody
		}
		input.Stops = append(input.Stops, service.TripStopInput{
			DestinationID: id,
			ArrivalDate:   stop.ArrivalDate,
			DepartureDate: stop.DepartureDate,
		})
	}
	return input, nil
}

func userAndTrip(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	tripID, err := uuidParam(c, "tripId")
	return userID, tripID, err
}
