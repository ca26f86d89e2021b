package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(api *echo.Group, auth *service.AuthService) {
	h := &AuthHandler{auth: auth}
	g := api.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/google", h.google)
	g.POST("/logout", h.logout, RequireAuth(auth))
	g.GET("/me", h.me, RequireAuth(auth))
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	result, err := h.auth.RegisterWithEmail(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, buildTokenResponse(result))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	result, err := h.auth.LoginWithEmail(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildTokenResponse(result))
}

func (h *AuthHandler) google(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildTokenResponse(result))
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), currentToken(c)); err != nil {
		return writeError(c, err)
	}
	return ok(c)
}

func (h *AuthHandler) me(c echo.Context) error {
	user, _ := CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{"user": buildAuthUser(user)})
}

func buildTokenResponse(result *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		User:      buildAuthUser(result.User),
	}
}
