package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

const huntDateLayout = "2006-01-02"

type TreasureHuntHandler struct {
	hunts *service.TreasureHuntService
}

func RegisterTreasureHunts(api *echo.Group, auth *service.AuthService, hunts *service.TreasureHuntService) {
	h := &TreasureHuntHandler{hunts: hunts}
	g := api.Group("/treasurehunts", RequireAuth(auth))
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// list accepts ?owner=<user id> and ?open=true.
func (h *TreasureHuntHandler) list(c echo.Context) error {
	var filter service.TreasureHuntFilter
	if raw := strings.TrimSpace(c.QueryParam("owner")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return writeError(c, fmt.Errorf("%w: invalid owner", service.ErrBadRequest))
		}
		filter.OwnerID = &id
	}
	filter.OpenOnly = strings.EqualFold(strings.TrimSpace(c.QueryParam("open")), "true")

	hunts, err := h.hunts.List(c.Request().Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("treasure_hunts", hunts))
}

func (h *TreasureHuntHandler) create(c echo.Context) error {
	input, err := bindTreasureHunt(c)
	if err != nil {
		return writeError(c, err)
	}
	hunt, err := h.hunts.Create(c.Request().Context(), currentActor(c), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("treasure_hunt", hunt))
}

func (h *TreasureHuntHandler) get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	hunt, err := h.hunts.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("treasure_hunt", hunt))
}

func (h *TreasureHuntHandler) update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	input, err := bindTreasureHunt(c)
	if err != nil {
		return writeError(c, err)
	}
	hunt, err := h.hunts.Update(c.Request().Context(), currentActor(c), id, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("treasure_hunt", hunt))
}

func (h *TreasureHuntHandler) delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.hunts.Delete(c.Request().Context(), currentActor(c), id); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func bindTreasureHunt(c echo.Context) (service.TreasureHuntInput, error) {
	var req TreasureHuntRequest
	if err := c.Bind(&req); err != nil {
		return service.TreasureHuntInput{}, errInvalidBody
	}
	input := service.TreasureHuntInput{Name: req.Name, Riddle: req.Riddle}
	if req.DestinationID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.DestinationID))
		if err != nil {
			return service.TreasureHuntInput{}, fmt.Errorf("%w: invalid destination_id", service.ErrBadRequest)
		}
		input.DestinationID = &id
	}
	var err error
	if input.StartDate, err = parseHuntDate("start_date", req.StartDate); err != nil {
		return service.TreasureHuntInput{}, err
	}
	if input.EndDate, err = parseHuntDate("end_date", req.EndDate); err != nil {
		return service.TreasureHuntInput{}, err
	}
	return input, nil
}

func parseHuntDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(huntDateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be yyyy-mm-dd", service.ErrBadRequest, field)
	}
	return &t, nil
}
