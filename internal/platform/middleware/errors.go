package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/internal/platform/validation"
)

const (
	MsgInternal   = "internal server error"
	MsgNotFound   = "Não encontrado."
	MsgReferenced = "Não é possível excluir este registro porque ele é referenciado por outros registros."
	MsgBadRef     = "Registro relacionado inexistente."
	MsgUnique     = "Já existe um registro com este valor."
	MsgTimeout    = "O servidor demorou demais para responder."
)

// Detail is the {"detail": ...} body used for every non-field error.
type Detail struct {
	Detail interface{} `json:"detail"`
}

// classify maps an error to the status and body the client sees.
func classify(err error) (int, interface{}) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he == echo.ErrNotFound {
			return http.StatusNotFound, Detail{MsgNotFound}
		}
		if msg, ok := he.Message.(string); ok {
			return he.Code, Detail{msg}
		}
		return he.Code, he.Message
	}

	if errors.Is(err, db.ErrNotFound) {
		return http.StatusNotFound, Detail{MsgNotFound}
	}
	if field, ok := db.UniqueField(err); ok {
		return http.StatusBadRequest, validation.Errors{field: {MsgUnique}}
	}
	if errors.Is(err, db.ErrReferenced) {
		return http.StatusConflict, Detail{MsgReferenced}
	}
	if _, ok := db.IsForeignKeyViolation(err); ok {
		return http.StatusBadRequest, Detail{MsgBadRef}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, Detail{MsgTimeout}
	}

	return http.StatusInternalServerError, Detail{MsgInternal}
}

// StatusOf returns the status code HTTPErrorHandler will use for err.
func StatusOf(err error) int {
	code, _ := classify(err)
	return code
}

// HTTPErrorHandler renders handler errors as JSON. Unexpected errors are
// logged with the request id; their text never reaches the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := classify(err)
		if code >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
