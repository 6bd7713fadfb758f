package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

const (
	MsgNotAuthenticated = "As credenciais de autenticação não foram fornecidas."
	MsgTokenNotValid    = "O token informado não é válido para qualquer tipo de token"
)

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// Authenticate resolves an optional bearer token. Requests without an
// Authorization header, or with a non-Bearer scheme, continue anonymously; a
// Bearer header that does not carry a valid access token is rejected with 401
// regardless of the endpoint's own policy. Routes matched by skip never look
// at the header; skip may be nil.
func Authenticate(iss *Issuer, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Fields(authHeader)
			if len(parts) == 0 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}
			if len(parts) != 2 {
				return unauthorized(c, "Cabeçalho de autorização inválido.")
			}

			claims, err := iss.Parse(parts[1], TokenTypeAccess)
			if err != nil {
				return unauthorized(c, MsgTokenNotValid)
			}

			ctx := WithUser(c.Request().Context(), claims.UserID, claims.Username)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuthenticatedWrites lets GET, HEAD and OPTIONS through and demands
// an authenticated user for every other method.
func RequireAuthenticatedWrites() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			if _, ok := UserIDFromContext(c.Request().Context()); !ok {
				return unauthorized(c, MsgNotAuthenticated)
			}
			return next(c)
		}
	}
}

func WithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(UserIDKey).(int64)
	return uid, ok
}

func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}
