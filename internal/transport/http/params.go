package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
)

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", service.ErrBadRequest, name)
	}
	return id, nil
}

// intQuery parses an optional non-negative integer query parameter.
func intQuery(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", service.ErrBadRequest, name)
	}
	return v, nil
}

var errInvalidBody = fmt.Errorf("%w: invalid request body", service.ErrBadRequest)
