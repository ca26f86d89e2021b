package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

type DestinationHandler struct {
	destinations *service.DestinationService
	reference    *service.ReferenceService
}

func RegisterDestinations(api *echo.Group, auth *service.AuthService, destinations *service.DestinationService, reference *service.ReferenceService) {
	h := &DestinationHandler{destinations: destinations, reference: reference}

	g := api.Group("/destinations", RequireAuth(auth))
	g.GET("", h.list)
	g.GET("/types", h.listTypes)
	g.GET("/countries", h.listCountries)
	g.GET("/travellertypes", h.listTravellerTypes)
	g.GET("/:id", h.get)
	g.GET("/:id/used", h.used)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/undodelete", h.undo)

	users := api.Group("/users/:userId/destinations", RequireAuth(auth))
	users.GET("", h.listForUser)
	users.POST("", h.create)
}

func (h *DestinationHandler) list(c echo.Context) error {
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.destinations.List(c.Request().Context(), c.QueryParam("search"), offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.List("destinations", items, util.Envelope{
		"limit":  h.destinations.PageSize(),
		"offset": offset,
		"count":  len(items),
	}))
}

func (h *DestinationHandler) get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	dest, err := h.destinations.Get(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", dest))
}

func (h *DestinationHandler) used(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	used, err := h.destinations.IsUsed(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("used", used))
}

func (h *DestinationHandler) listForUser(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.destinations.ListForUser(c.Request().Context(), currentActor(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destinations", items))
}

func (h *DestinationHandler) create(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	var req DestinationRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	dest, err := h.destinations.Create(c.Request().Context(), currentActor(c), userID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("destination", dest))
}

func (h *DestinationHandler) update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req DestinationRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	dest, err := h.destinations.Update(c.Request().Context(), currentActor(c), id, req.input())
	if err != nil {
		return writeUpdateError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", dest))
}

func (h *DestinationHandler) delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.destinations.Delete(c.Request().Context(), currentActor(c), id); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func (h *DestinationHandler) undo(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	dest, err := h.destinations.Undo(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", dest))
}

func (h *DestinationHandler) listTypes(c echo.Context) error {
	items, err := h.reference.ListDestinationTypes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("types", items))
}

func (h *DestinationHandler) listCountries(c echo.Context) error {
	items, err := h.reference.ListCountries(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("countries", items))
}

func (h *DestinationHandler) listTravellerTypes(c echo.Context) error {
	items, err := h.reference.ListTravellerTypes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("traveller_types", items))
}
