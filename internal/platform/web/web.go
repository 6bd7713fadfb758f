// Package web holds the small request helpers shared by every domain handler.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ParamID parses a positive integer path parameter. Anything else is a 404,
// since no row can have that id.
func ParamID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// QueryID parses an optional integer query parameter. ok is false when the
// parameter is absent or empty.
func QueryID(c echo.Context, name string) (id int64, ok bool, err error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, map[string][]string{
			name: {"Insira um número válido."},
		})
	}
	return id, true, nil
}

// Bind decodes the JSON body into v. Decoder errors become 400 with a detail
// message.
func Bind(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return echo.NewHTTPError(http.StatusBadRequest, "JSON parse error - "+messageOf(he))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "JSON parse error - "+err.Error())
	}
	return nil
}

func messageOf(he *echo.HTTPError) string {
	if he.Internal != nil {
		return he.Internal.Error()
	}
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}
