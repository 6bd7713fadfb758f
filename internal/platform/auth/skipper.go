package auth

import "github.com/labstack/echo/v4"

// Skipper reports whether a request bypasses bearer authentication.
type Skipper func(c echo.Context) bool

// PathSkipper skips the given route templates. The token endpoints are
// registered with it: a client refreshing usually still sends its expired
// access token, and login must not depend on a previous session.
func PathSkipper(paths ...string) Skipper {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(c echo.Context) bool {
		return set[c.Path()]
	}
}
