package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

type ProposalHandler struct {
	proposals *service.ProposalService
}

func RegisterProposals(api *echo.Group, auth *service.AuthService, proposals *service.ProposalService) {
	h := &ProposalHandler{proposals: proposals}

	g := api.Group("/destinations/proposals", RequireAuth(auth))
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.modify)
	g.PATCH("/:id", h.accept)
	g.PUT("/:id/undoReject", h.undoReject)

	users := api.Group("/users/:userId/destinations", RequireAuth(auth))
	users.POST("/:id/proposals", h.create)
	users.DELETE("/proposals/:id", h.reject)
}

func (h *ProposalHandler) create(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	destID, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req ProposalRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	proposal, err := h.proposals.Create(c.Request().Context(), currentActor(c), userID, destID, req.TravellerTypes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("proposal", proposal))
}

func (h *ProposalHandler) modify(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req ProposalRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	proposal, err := h.proposals.Modify(c.Request().Context(), currentActor(c), id, req.TravellerTypes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("proposal", proposal))
}

func (h *ProposalHandler) accept(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	dest, err := h.proposals.Accept(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination", dest))
}

func (h *ProposalHandler) reject(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.proposals.Reject(c.Request().Context(), currentActor(c), userID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func (h *ProposalHandler) undoReject(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	proposal, err := h.proposals.UndoReject(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("proposal", proposal))
}

func (h *ProposalHandler) get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	proposal, err := h.proposals.Get(c.Request().Context(), currentActor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("proposal", proposal))
}

func (h *ProposalHandler) list(c echo.Context) error {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.proposals.List(c.Request().Context(), currentActor(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.List("proposals", items, util.Envelope{
		"page":  page,
		"count": len(items),
	}))
}
