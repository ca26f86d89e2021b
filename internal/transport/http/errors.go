package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/util"
)

func errorBody(message string) util.Envelope {
	return util.Error(message)
}

// writeError maps a service error onto its HTTP status once, at the
// boundary.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidGoogleToken):
		return c.JSON(http.StatusUnauthorized, errorBody(err.Error()))
	case errors.Is(err, service.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, service.ErrDuplicateConflict),
		errors.Is(err, service.ErrPhotoAlreadyLinked),
		errors.Is(err, service.ErrEmailAlreadyUsed):
		return c.JSON(http.StatusConflict, errorBody(err.Error()))
	default:
		// Storage failures and anything unexpected: the detail goes to the
		// access log, not to the client.
		c.Set(errorDetailLogKey, err.Error())
		return c.JSON(http.StatusInternalServerError, errorBody("internal error"))
	}
}

// writeUpdateError reports a duplicate produced by an update as a bad
// request: the client asked for a state that cannot exist.
func writeUpdateError(c echo.Context, err error) error {
	if errors.Is(err, service.ErrDuplicateConflict) {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}
	return writeError(c, err)
}

func ok(c echo.Context) error {
	return c.JSON(http.StatusOK, util.Envelope{"success": true})
}
