package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odonto/clinica/internal/platform/auth"
	"github.com/odonto/clinica/internal/platform/web"
)

const (
	MsgNoActiveAccount = "No active account found with the given credentials"
	MsgTokenInvalid    = "O token é inválido ou expirado"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /auth/login/ and /auth/refresh/. mw usually carries
// the login rate limiter.
func (h *Handler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/auth", mw...)
	g.POST("/login/", h.Login)
	g.POST("/refresh/", h.Refresh)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	res, err := h.svc.Login(c.Request().Context(), &in)
	if errors.Is(err, ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, MsgNoActiveAccount)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) Refresh(c echo.Context) error {
	var in RefreshInput
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	access, err := h.svc.Refresh(&in)
	if errors.Is(err, auth.ErrInvalidToken) {
		return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"access": access})
}
