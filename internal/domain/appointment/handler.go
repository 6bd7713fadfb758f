package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/odonto/clinica/internal/platform/validation"
	"github.com/odonto/clinica/internal/platform/web"
	"github.com/odonto/clinica/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/agendamentos", mw...)
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/proximas/", h.Proximas)
	g.GET("/totais-diarios/", h.DailyTotals)
	g.GET("/:id/", h.Get)
	g.PUT("/:id/", h.Update)
	g.PATCH("/:id/", h.Patch)
	g.DELETE("/:id/", h.Delete)
	g.GET("/:id/detalhes/", h.Detail)
	g.PATCH("/:id/update_status/", h.UpdateStatus)
}

// filterFrom reads data, status and busca. A malformed data is a field
// error rather than an empty result.
func filterFrom(c echo.Context) (Filter, error) {
	f := Filter{Status: c.QueryParam("status"), Busca: c.QueryParam("busca")}
	if raw := c.QueryParam("data"); raw != "" {
		d := validation.Of(raw)
		e := validation.New()
		if !e.Date("data", &d, false, validation.Rule{Required: true}) {
			return f, e
		}
		f.Data = validation.DateValue(d)
	}
	return f, nil
}

func (h *Handler) List(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.Body(items, total))
}

// Proximas is the list filtered by data, always returned unpaginated.
func (h *Handler) Proximas(c echo.Context) error {
	f, err := filterFrom(c)
	if err != nil {
		return err
	}
	items, _, err := h.svc.List(c.Request().Context(), f, pagination.Params{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.Create(c.Request().Context(), &in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
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
	a, err := h.svc.Update(c.Request().Context(), id, &in, partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
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

func (h *Handler) Detail(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.svc.Detail(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in StatusInput
	if err := web.Bind(c, &in); err != nil {
		return err
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, &in)
	var de *DetailError
	if errors.As(err, &de) {
		return echo.NewHTTPError(http.StatusBadRequest, de.Msg)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DailyTotals(c echo.Context) error {
	var day *time.Time
	if raw := c.QueryParam("data"); raw != "" {
		t, err := ParseDay(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, MsgBadDate)
		}
		day = &t
	}
	totals, err := h.svc.DailyTotals(c.Request().Context(), day)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, totals)
}
