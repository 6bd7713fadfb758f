package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odonto/clinica/internal/domain/address"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/platform/web"
	"github.com/odonto/clinica/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts /pacientes/ and its actions. The routes are open
// unless mw adds a guard.
func (h *Handler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/pacientes", mw...)
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)

	g.POST("/:id/add_contact/", h.AddContact)
	g.POST("/:id/add_address/", h.AddAddress)
	g.GET("/:id/contacts/", h.Contacts)
	g.GET("/:id/anamnesis/", h.Anamnesis)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), Filter{Search: c.QueryParam("search")}, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.Body(items, total))
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	return h.update(c, false)
}

func (h *Handler) Patch(c echo.Context) error {
	return h.update(c, true)
}

func (h *Handler) update(c echo.Context, partial bool) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in Input
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), id, &in, partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddContact(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in contact.Input
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	ct, err := h.svc.AddContact(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ct)
}

func (h *Handler) AddAddress(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in address.Input
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.AddAddress(c.Request().Context(), id, &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Contacts(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.Contacts(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Anamnesis(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.Anamnesis(c.Request().Context(), id)
	if errors.Is(err, ErrNoAnamnesis) {
		return echo.NewHTTPError(http.StatusNotFound, "Anamnese não encontrada")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
