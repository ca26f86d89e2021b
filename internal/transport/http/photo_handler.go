package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

type PhotoHandler struct {
	photos *service.PhotoService
}

func RegisterPhotos(api *echo.Group, auth *service.AuthService, photos *service.PhotoService) {
	h := &PhotoHandler{photos: photos}

	personal := api.Group("/users/:userId/photos", RequireAuth(auth))
	personal.POST("", h.upload)
	personal.GET("", h.listForUser)
	personal.DELETE("/:photoId", h.delete)
	personal.PUT("/:photoId/undodelete", h.undo)

	linked := api.Group("/destinations/:id/photos", RequireAuth(auth))
	linked.POST("", h.attach)
	linked.GET("", h.listForDestination)
	linked.DELETE("/:photoId", h.detach)
	linked.PUT("/:photoId/undodelete", h.undoDetach)
}

func (h *PhotoHandler) upload(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, service.ErrPhotoRequired)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, errInvalidBody)
	}
	defer file.Close()

	isPublic := false
	if raw := strings.TrimSpace(c.FormValue("is_public")); raw != "" {
		isPublic, err = strconv.ParseBool(raw)
		if err != nil {
			return writeError(c, errInvalidBody)
		}
	}

	photo, err := h.photos.Upload(c.Request().Context(), currentActor(c), userID, service.PhotoUpload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		IsPublic:    isPublic,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("photo", photo))
}

func (h *PhotoHandler) listForUser(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	photos, err := h.photos.ListForUser(c.Request().Context(), currentActor(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("photos", photos))
}

func (h *PhotoHandler) delete(c echo.Context) error {
	userID, photoID, err := userAndPhoto(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.photos.Delete(c.Request().Context(), currentActor(c), userID, photoID); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func (h *PhotoHandler) undo(c echo.Context) error {
	userID, photoID, err := userAndPhoto(c)
	if err != nil {
		return writeError(c, err)
	}
	photo, err := h.photos.Undo(c.Request().Context(), currentActor(c), userID, photoID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("photo", photo))
}

func (h *PhotoHandler) attach(c echo.Context) error {
	destID, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req AttachPhotoRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	photoID, err := uuid.Parse(strings.TrimSpace(req.PhotoID))
	if err != nil {
		return writeError(c, errInvalidBody)
	}
	link, err := h.photos.Attach(c.Request().Context(), currentActor(c), destID, photoID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("destination_photo", link))
}

func (h *PhotoHandler) listForDestination(c echo.Context) error {
	destID, err := uuidParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	links, err := h.photos.ListForDestination(c.Request().Context(), currentActor(c), destID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("photos", links))
}

func (h *PhotoHandler) detach(c echo.Context) error {
	destID, photoID, err := destinationAndPhoto(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.photos.Detach(c.Request().Context(), currentActor(c), destID, photoID); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func (h *PhotoHandler) undoDetach(c echo.Context) error {
	destID, photoID, err := destinationAndPhoto(c)
	if err != nil {
		return writeError(c, err)
	}
	link, err := h.photos.UndoDetach(c.Request().Context(), currentActor(c), destID, photoID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("destination_photo", link))
}

func userAndPhoto(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	photoID, err := uuidParam(c, "photoId")
	return userID, photoID, err
}

func destinationAndPhoto(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	destID, err := uuidParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	photoID, err := uuidParam(c, "photoId")
	return destID, photoID, err
}
